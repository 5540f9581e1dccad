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

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// ollamaOptions keeps generation deterministic-ish for audit answers.
var ollamaOptions = map[string]any{"temperature": 0.2}

// OllamaChat is the local model server's chat endpoint.
type OllamaChat struct {
	host       string
	model      string
	httpClient *http.Client
	resolver   *modelResolver
	logger     *zap.Logger
}

func NewOllamaChat(cfg *config.Config, resolver *modelResolver, logger *zap.Logger) *OllamaChat {
	return &OllamaChat{
		host:       strings.TrimRight(cfg.OllamaHost, "/"),
		model:      cfg.OllamaModel,
		httpClient: &http.Client{Timeout: cfg.OllamaRequestTimeout},
		resolver:   resolver,
		logger:     logger,
	}
}

func (o *OllamaChat) Name() string { return "ollama-chat" }

func (o *OllamaChat) Probe(ctx context.Context) bool {
	_, err := o.resolver.Models(ctx, o.host)
	return err == nil
}

func (o *OllamaChat) Generate(ctx context.Context, prompt Prompt) (Result, error) {
	model := o.resolveModel(ctx)
	reqBody := ollamaChatRequest{
		Model: model,
		Messages: []ollamaMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Stream:  false,
		Options: ollamaOptions,
	}

	bodyBytes, err := postJSON(ctx, o.httpClient, o.host+"/api/chat", reqBody)
	if err != nil {
		return Result{}, err
	}

	var cr ollamaChatResponse
	if err := json.Unmarshal(bodyBytes, &cr); err != nil {
		return Result{}, fmt.Errorf("decode ollama chat response: %w", err)
	}
	if strings.TrimSpace(cr.Message.Content) == "" {
		return Result{}, apperrors.ErrEmptyCompletion
	}
	return Result{Text: cr.Message.Content, Model: model}, nil
}

func (o *OllamaChat) resolveModel(ctx context.Context) string {
	available, err := o.resolver.Models(ctx, o.host)
	if err != nil {
		o.logger.Debug("Could not list local models, using configured name", zap.Error(err))
		return o.model
	}
	resolved := ResolvePreferredModel(o.model, available)
	if resolved != o.model {
		o.logger.Info("Configured model not found locally, resolved alternative",
			zap.String("configured", o.model), zap.String("resolved", resolved))
	}
	return resolved
}

// OllamaGenerate is the legacy single-prompt endpoint, tried only after the
// chat endpoint fails or returns empty.
type OllamaGenerate struct {
	host       string
	model      string
	httpClient *http.Client
	resolver   *modelResolver
	logger     *zap.Logger
}

func NewOllamaGenerate(cfg *config.Config, resolver *modelResolver, logger *zap.Logger) *OllamaGenerate {
	return &OllamaGenerate{
		host:       strings.TrimRight(cfg.OllamaHost, "/"),
		model:      cfg.OllamaModel,
		httpClient: &http.Client{Timeout: cfg.OllamaRequestTimeout},
		resolver:   resolver,
		logger:     logger,
	}
}

func (o *OllamaGenerate) Name() string { return "ollama-generate" }

func (o *OllamaGenerate) Probe(ctx context.Context) bool {
	_, err := o.resolver.Models(ctx, o.host)
	return err == nil
}

func (o *OllamaGenerate) Generate(ctx context.Context, prompt Prompt) (Result, error) {
	available, err := o.resolver.Models(ctx, o.host)
	model := o.model
	if err == nil {
		model = ResolvePreferredModel(o.model, available)
	}

	reqBody := ollamaGenerateRequest{
		Model:   model,
		Prompt:  prompt.Flatten(),
		Stream:  false,
		Options: ollamaOptions,
	}

	bodyBytes, err := postJSON(ctx, o.httpClient, o.host+"/api/generate", reqBody)
	if err != nil {
		return Result{}, err
	}

	var gr ollamaGenerateResponse
	if err := json.Unmarshal(bodyBytes, &gr); err != nil {
		return Result{}, fmt.Errorf("decode ollama generate response: %w", err)
	}
	if strings.TrimSpace(gr.Response) == "" {
		return Result{}, apperrors.ErrEmptyCompletion
	}
	return Result{Text: gr.Response, Model: model}, nil
}

// postJSON sends a JSON POST and returns the body on 200, a wrapped error
// otherwise. Single attempt: the backend chain is the retry mechanism, so
// no per-endpoint retries or backoff here.
func postJSON(ctx context.Context, client *http.Client, url string, payload any) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, apperrors.WrapError(err, "send request")
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server status %s: %w", resp.Status, apperrors.ErrBackendUnavailable)
	}
	return bodyBytes, nil
}
