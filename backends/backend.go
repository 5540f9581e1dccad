// Package backends holds the generation backends the orchestrator tries in
// priority order. Each backend is a Generator; the chain itself is data, so
// adding or reordering backends is a config change, not a code change.
package backends

import (
	"context"

	"audit-agent/config"

	"go.uber.org/zap"
)

// Prompt is one assembled generation request. System and User carry the
// formatted context and instructions; Query is the raw user question for
// backends that run their own retrieval.
type Prompt struct {
	System   string
	User     string
	Query    string
	Limit    int
	TenantID string
}

// Flatten joins system and user content for legacy single-string endpoints.
func (p Prompt) Flatten() string {
	if p.System == "" {
		return p.User
	}
	return p.System + "\n\n" + p.User
}

// Result is the outcome of one successful backend attempt.
type Result struct {
	Text  string
	Model string
}

// Generator is one LLM-serving endpoint capable of turning a prompt into
// free text. Probe must be cheap and bounded; Generate must treat an empty
// completion as a failure so the chain can advance.
type Generator interface {
	Name() string
	Probe(ctx context.Context) bool
	Generate(ctx context.Context, prompt Prompt) (Result, error)
}

// BuildChain assembles the backend priority order from config: remote RAG
// service first, then the local model server's chat and legacy generate
// endpoints, then the cloud API when a key is configured.
func BuildChain(cfg *config.Config, logger *zap.Logger) []Generator {
	var chain []Generator

	if cfg.RAGServiceURL != "" {
		chain = append(chain, NewRemoteRAG(cfg, logger))
	}

	if cfg.OllamaHost != "" {
		resolver := newModelResolver(logger)
		chain = append(chain,
			NewOllamaChat(cfg, resolver, logger),
			NewOllamaGenerate(cfg, resolver, logger),
		)
	}

	if cfg.OpenAIAPIKey != "" {
		chain = append(chain, NewOpenAI(cfg, logger))
	}

	return chain
}
