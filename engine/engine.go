// Package engine turns a chat query into a final answer: retrieve context,
// format it, try the generation backends in priority order, and fall back
// to the deterministic rule-based responder when none are reachable.
package engine

import (
	"context"
	"time"

	"audit-agent/backends"
	"audit-agent/config"
	apperrors "audit-agent/errors"
	"audit-agent/format"
	"audit-agent/retrieval"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options is the per-request options bag.
type Options struct {
	Limit    int
	TenantID string
}

// Response is the final chat payload. The retrieved context is returned to
// the caller for transparency, and DataProvenance lets callers distinguish
// answers grounded in live data from demo-data answers.
type Response struct {
	Answer           string               `json:"response"`
	Context          *retrieval.Context   `json:"context"`
	UsedLLM          bool                 `json:"usedLLM"`
	Backend          string               `json:"backend,omitempty"`
	Model            string               `json:"model,omitempty"`
	ProcessingTimeMS int64                `json:"processingTime"`
	DataProvenance   retrieval.Provenance `json:"dataProvenance"`
	RequestID        string               `json:"requestID"`
}

type Engine struct {
	retriever *retrieval.Retriever
	chain     []backends.Generator
	cfg       *config.Config
	logger    *zap.Logger
}

func New(retriever *retrieval.Retriever, chain []backends.Generator, cfg *config.Config, logger *zap.Logger) *Engine {
	return &Engine{
		retriever: retriever,
		chain:     chain,
		cfg:       cfg,
		logger:    logger,
	}
}

// GenerateResponse is the single entry point the HTTP handler invokes. It
// never returns an error: every failure mode ends in the rule-based
// responder, which is total.
func (e *Engine) GenerateResponse(ctx context.Context, query string, opts Options) *Response {
	start := time.Now()
	requestID := uuid.New().String()
	logger := e.logger.With(zap.String("request_id", requestID))

	retrieved := e.retriever.Retrieve(ctx, query, opts.Limit)
	formatted := format.Render(retrieved, e.cfg.ContextMaxBytes)
	prompt := BuildPrompt(query, formatted, opts)

	response := &Response{
		Context:        retrieved,
		DataProvenance: retrieved.Provenance(),
		RequestID:      requestID,
	}

	for _, gen := range e.chain {
		if ctx.Err() != nil {
			logger.Info("Request cancelled, stopping backend chain", zap.String("backend", gen.Name()))
			break
		}
		if !gen.Probe(ctx) {
			logger.Debug("Backend probe failed, skipping", zap.String("backend", gen.Name()))
			continue
		}

		result, err := gen.Generate(ctx, prompt)
		if err != nil {
			switch {
			case apperrors.IsEmptyCompletion(err):
				logger.Warn("Backend returned an empty completion, trying next",
					zap.String("backend", gen.Name()))
			case apperrors.IsBackendUnavailable(err):
				logger.Warn("Backend unavailable, trying next",
					zap.String("backend", gen.Name()), zap.Error(err))
			default:
				logger.Warn("Backend generation failed, trying next",
					zap.String("backend", gen.Name()), zap.Error(err))
			}
			continue
		}

		response.Answer = result.Text
		response.UsedLLM = true
		response.Backend = gen.Name()
		response.Model = result.Model
		response.ProcessingTimeMS = time.Since(start).Milliseconds()

		logger.Info("Generated response",
			zap.String("backend", gen.Name()),
			zap.Int64("processing_ms", response.ProcessingTimeMS))
		return response
	}

	response.Answer = FallbackAnswer(query, retrieved)
	response.ProcessingTimeMS = time.Since(start).Milliseconds()

	logger.Info("All backends unavailable, used rule-based responder",
		zap.Int64("processing_ms", response.ProcessingTimeMS))
	return response
}
