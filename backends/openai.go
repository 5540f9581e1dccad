package backends

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"audit-agent/config"
	apperrors "audit-agent/errors"

	"go.uber.org/zap"
)

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []ollamaMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAI is the cloud chat-completion fallback, constructed only when an
// API key is configured.
type OpenAI struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewOpenAI(cfg *config.Config, logger *zap.Logger) *OpenAI {
	return &OpenAI{
		baseURL:    strings.TrimRight(cfg.OpenAIBaseURL, "/"),
		model:      cfg.OpenAIModel,
		apiKey:     cfg.OpenAIAPIKey,
		httpClient: &http.Client{Timeout: cfg.OpenAIRequestTimeout},
		logger:     logger,
	}
}

func (o *OpenAI) Name() string { return "openai" }

// Probe only verifies a key is present; the API has no cheap unauthenticated
// health endpoint worth a request per chat.
func (o *OpenAI) Probe(ctx context.Context) bool {
	return o.apiKey != ""
}

func (o *OpenAI) Generate(ctx context.Context, prompt Prompt) (Result, error) {
	reqBody := openAIChatRequest{
		Model: o.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Temperature: 0.2,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return Result{}, fmt.Errorf("marshal openai request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/v1/chat/completions", strings.NewReader(string(jsonBody)))
	if err != nil {
		return Result{}, fmt.Errorf("create openai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return Result{}, apperrors.WrapError(err, "openai request")
	}
	defer resp.Body.Close()

	var cr openAIChatResponse
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("openai status %s: %w", resp.Status, apperrors.ErrBackendUnavailable)
	}
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return Result{}, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return Result{}, apperrors.ErrEmptyCompletion
	}
	return Result{Text: cr.Choices[0].Message.Content, Model: o.model}, nil
}
