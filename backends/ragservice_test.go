package backends

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"audit-agent/config"
	apperrors "audit-agent/errors"

	"go.uber.org/zap"
)

func newRAGConfig(url string) *config.Config {
	return &config.Config{
		RAGServiceURL:     url,
		RAGProbeTimeout:   2 * time.Second,
		RAGRequestTimeout: 5 * time.Second,
	}
}

func TestRemoteRAGProbe(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"healthy", http.StatusOK, true},
		{"server error", http.StatusInternalServerError, false},
		{"not found", http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/health" {
					t.Errorf("probe hit %q, want /health", r.URL.Path)
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			rag := NewRemoteRAG(newRAGConfig(server.URL), zap.NewNop())
			if got := rag.Probe(context.Background()); got != tt.want {
				t.Errorf("Probe() with status %d = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestRemoteRAGProbeUnreachable(t *testing.T) {
	rag := NewRemoteRAG(newRAGConfig("http://127.0.0.1:1"), zap.NewNop())
	if rag.Probe(context.Background()) {
		t.Error("Probe() against a closed port must report unhealthy")
	}
}

func TestRemoteRAGGenerate(t *testing.T) {
	var captured ragChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("generate hit %q, want /api/chat", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ragChatResponse{
			Answer: "The compliance rate is 94.2%.",
			Hits:   4,
		})
	}))
	defer server.Close()

	rag := NewRemoteRAG(newRAGConfig(server.URL), zap.NewNop())
	result, err := rag.Generate(context.Background(), Prompt{
		Query:    "what is our compliance rate?",
		Limit:    8,
		TenantID: "acme",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Text != "The compliance rate is 94.2%." {
		t.Errorf("answer = %q", result.Text)
	}

	if captured.Query != "what is our compliance rate?" {
		t.Errorf("query sent = %q", captured.Query)
	}
	if captured.K != 8 || !captured.VerifyNumbers || captured.TenantID != "acme" {
		t.Errorf("request payload wrong: %+v", captured)
	}
}

func TestRemoteRAGGenerateEmptyAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ragChatResponse{Answer: "   "})
	}))
	defer server.Close()

	rag := NewRemoteRAG(newRAGConfig(server.URL), zap.NewNop())
	_, err := rag.Generate(context.Background(), Prompt{Query: "anything"})
	if !errors.Is(err, apperrors.ErrEmptyCompletion) {
		t.Errorf("blank answer should yield ErrEmptyCompletion, got %v", err)
	}
}

func TestRemoteRAGGenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	rag := NewRemoteRAG(newRAGConfig(server.URL), zap.NewNop())
	_, err := rag.Generate(context.Background(), Prompt{Query: "anything"})
	if !errors.Is(err, apperrors.ErrBackendUnavailable) {
		t.Errorf("non-200 should yield ErrBackendUnavailable, got %v", err)
	}
}
