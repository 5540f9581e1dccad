package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "audit-agent/errors"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore keeps every collection in a single JSONB-backed table.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{DB: db}, nil
}

// EnsureSchema creates the required tables if they do not already exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
            id UUID PRIMARY KEY,
            collection TEXT NOT NULL,
            data JSONB NOT NULL,
            created_at TIMESTAMPTZ DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_data ON documents USING GIN (data)`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

// Find returns up to limit documents from a collection matching the filter,
// newest first.
func (s *PostgresStore) Find(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 10
	}

	where, args := buildWhere(collection, filter)
	query := fmt.Sprintf(
		`SELECT data FROM documents WHERE %s ORDER BY created_at DESC LIMIT %d`,
		where, limit,
	)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w: %w", collection, apperrors.ErrDocumentStore, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		var doc Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Count returns the number of documents in a collection matching the filter.
func (s *PostgresStore) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	where, args := buildWhere(collection, filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM documents WHERE %s`, where)

	var n int64
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w: %w", collection, apperrors.ErrDocumentStore, err)
	}
	return n, nil
}

// Insert stores a document in a collection.
func (s *PostgresStore) Insert(ctx context.Context, collection string, doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return apperrors.WrapErrorf(err, "encode %s document", collection)
	}
	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO documents (id, collection, data, created_at) VALUES ($1, $2, $3, $4)`,
		uuid.New(), collection, raw, time.Now(),
	)
	if err != nil {
		return apperrors.WrapErrorf(err, "insert into %s", collection)
	}
	return nil
}

// buildWhere compiles a Filter into a WHERE clause with positional args.
// Documents store timestamps as ISO-8601 strings, so the date lower bound
// compares lexically, which is correct for that format.
func buildWhere(collection string, filter Filter) (string, []any) {
	clauses := []string{"collection = $1"}
	args := []any{collection}

	for key, value := range filter.Equals {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("data->>'%s' = $%d", sanitizeKey(key), len(args)))
	}

	if !filter.Since.IsZero() && len(filter.SinceFields) > 0 {
		args = append(args, filter.Since.UTC().Format(time.RFC3339))
		idx := len(args)
		var ors []string
		for _, field := range filter.SinceFields {
			ors = append(ors, fmt.Sprintf("data->>'%s' >= $%d", sanitizeKey(field), idx))
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}

	return strings.Join(clauses, " AND "), args
}

// sanitizeKey strips characters that could escape the JSONB path literal.
// Field names come from a fixed alias table, not user input, so this is a
// backstop rather than a parser.
func sanitizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return -1
	}, key)
}
