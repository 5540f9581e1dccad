package backends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"audit-agent/config"
	apperrors "audit-agent/errors"

	"go.uber.org/zap"
)

type ragChatRequest struct {
	Query         string `json:"query"`
	K             int    `json:"k"`
	VerifyNumbers bool   `json:"verify_numbers"`
	TenantID      string `json:"tenant_id,omitempty"`
}

type ragChatResponse struct {
	Answer         string   `json:"answer"`
	Sources        []string `json:"sources"`
	Hits           int      `json:"hits"`
	RetrievalCount int      `json:"retrieval_count"`
}

// RemoteRAG is the Python-hosted retrieval service. It runs its own
// retrieval server-side, so Generate sends the raw query rather than the
// assembled prompt.
type RemoteRAG struct {
	baseURL     string
	httpClient  *http.Client
	probeClient *http.Client
	logger      *zap.Logger
}

func NewRemoteRAG(cfg *config.Config, logger *zap.Logger) *RemoteRAG {
	return &RemoteRAG{
		baseURL:     strings.TrimRight(cfg.RAGServiceURL, "/"),
		httpClient:  &http.Client{Timeout: cfg.RAGRequestTimeout},
		probeClient: &http.Client{Timeout: cfg.RAGProbeTimeout},
		logger:      logger,
	}
}

func (r *RemoteRAG) Name() string { return "python-rag" }

// Probe checks the service health endpoint with a short timeout. Any
// non-200 or transport error marks the backend unhealthy.
func (r *RemoteRAG) Probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := r.probeClient.Do(req)
	if err != nil {
		r.logger.Debug("RAG service health probe failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

func (r *RemoteRAG) Generate(ctx context.Context, prompt Prompt) (Result, error) {
	reqBody := ragChatRequest{
		Query:         prompt.Query,
		K:             prompt.Limit,
		VerifyNumbers: true,
		TenantID:      prompt.TenantID,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return Result{}, fmt.Errorf("marshal rag request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/chat", bytes.NewReader(jsonBody))
	if err != nil {
		return Result{}, fmt.Errorf("create rag request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Result{}, apperrors.WrapError(err, "rag service request")
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read rag response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("rag service status %s: %w", resp.Status, apperrors.ErrBackendUnavailable)
	}

	var cr ragChatResponse
	if err := json.Unmarshal(bodyBytes, &cr); err != nil {
		return Result{}, fmt.Errorf("decode rag response: %w", err)
	}
	if strings.TrimSpace(cr.Answer) == "" {
		return Result{}, apperrors.ErrEmptyCompletion
	}

	r.logger.Debug("RAG service answered",
		zap.Int("hits", cr.Hits),
		zap.Int("retrieval_count", cr.RetrievalCount))
	return Result{Text: cr.Answer}, nil
}
