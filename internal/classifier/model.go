package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	DefaultGeminiModel = "gemini-2.0-flash-lite"
	DefaultGroqModel   = "llama-3.1-8b-instant"
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

	defaultTemperature = 0.1
	defaultMaxTokens   = 1000
)

// Model is a text-in, text-out language model.
type Model interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// DocumentModel can also read an attached document.
type DocumentModel interface {
	Model
	GenerateFromDocument(ctx context.Context, prompt string, data []byte, mimeType string) (string, error)
}

// ModelConfig configures a model client.
type ModelConfig struct {
	APIKey      string
	Model       string
	BaseURL     string // Groq only
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	HTTPClient  *http.Client // Groq only; overrides Timeout
}

func (c ModelConfig) temperature() float32 {
	if c.Temperature > 0 {
		return c.Temperature
	}
	return defaultTemperature
}

func (c ModelConfig) maxTokens() int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return defaultMaxTokens
}

// ============================================================================
// Gemini
// ============================================================================

// GeminiModel calls Gemini through the genai SDK.
type GeminiModel struct {
	client *genai.Client
	cfg    ModelConfig
}

// NewGeminiModel creates a Gemini-backed model.
func NewGeminiModel(ctx context.Context, cfg ModelConfig) (*GeminiModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &ClassifierError{Code: ErrNotConfigured, Message: "Gemini API key not configured"}
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiModel{client: client, cfg: cfg}, nil
}

func (m *GeminiModel) Name() string { return m.cfg.Model }

// Generate sends a text prompt and asks for a JSON reply.
func (m *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	return m.generate(ctx, genai.Text(prompt))
}

// GenerateFromDocument sends a prompt together with an inline document.
func (m *GeminiModel) GenerateFromDocument(ctx context.Context, prompt string, data []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
			},
		},
	}
	return m.generate(ctx, contents)
}

func (m *GeminiModel) generate(ctx context.Context, contents []*genai.Content) (string, error) {
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
	}

	temp := m.cfg.temperature()
	resp, err := m.client.Models.GenerateContent(ctx, m.cfg.Model, contents, &genai.GenerateContentConfig{
		Temperature:      &temp,
		MaxOutputTokens:  int32(m.cfg.maxTokens()),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", m.wrapError(err)
	}

	text := resp.Text()
	if text == "" {
		return "", &ClassifierError{Code: ErrLLMUnavailable, Message: "empty response from Gemini", Model: m.cfg.Model, Retryable: true}
	}
	return text, nil
}

func (m *GeminiModel) wrapError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return providerError(m.cfg.Model, apiErr.Code, apiErr.Message, err)
	}
	return &ClassifierError{Code: ErrLLMUnavailable, Message: "Gemini request failed", Model: m.cfg.Model, Retryable: true, Cause: err}
}

// ============================================================================
// Groq
// ============================================================================

// GroqModel calls the Groq OpenAI-compatible chat completions API.
type GroqModel struct {
	cfg        ModelConfig
	httpClient *http.Client
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqChatRequest struct {
	Model          string              `json:"model"`
	Messages       []groqMessage       `json:"messages"`
	Temperature    float32             `json:"temperature"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	ResponseFormat *groqResponseFormat `json:"response_format,omitempty"`
}

type groqResponseFormat struct {
	Type string `json:"type"`
}

type groqChatResponse struct {
	Choices []struct {
		Message groqMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const groqSystemPrompt = "You are a Nigerian personal income tax assistant. Reply with a single JSON value and nothing else."

// NewGroqModel creates a Groq-backed model.
func NewGroqModel(cfg ModelConfig) (*GroqModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &ClassifierError{Code: ErrNotConfigured, Message: "Groq API key not configured"}
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGroqModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGroqBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &GroqModel{cfg: cfg, httpClient: httpClient}, nil
}

func (m *GroqModel) Name() string { return m.cfg.Model }

// Generate sends the prompt as a single user message in JSON mode.
func (m *GroqModel) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(groqChatRequest{
		Model: m.cfg.Model,
		Messages: []groqMessage{
			{Role: "system", Content: groqSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    m.cfg.temperature(),
		MaxTokens:      m.cfg.maxTokens(),
		ResponseFormat: &groqResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal groq request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create groq request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &ClassifierError{Code: ErrLLMUnavailable, Message: "Groq request failed", Model: m.cfg.Model, Retryable: true, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", &ClassifierError{Code: ErrLLMUnavailable, Message: "read Groq response", Model: m.cfg.Model, Retryable: true, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(body))
		var apiErr groqChatResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != nil {
			msg = apiErr.Error.Message
		}
		return "", providerError(m.cfg.Model, resp.StatusCode, msg, nil)
	}

	var parsed groqChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &ClassifierError{Code: ErrLLMUnavailable, Message: "decode Groq response", Model: m.cfg.Model, Retryable: true, Cause: err}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", &ClassifierError{Code: ErrLLMUnavailable, Message: "Groq response missing choices", Model: m.cfg.Model, Retryable: true}
	}
	return parsed.Choices[0].Message.Content, nil
}

// providerError maps an HTTP status from a model provider onto a
// ClassifierError. Throttling and server errors are retryable, other client
// errors are not.
func providerError(model string, status int, msg string, cause error) error {
	ce := &ClassifierError{
		Code:    ErrLLMUnavailable,
		Message: fmt.Sprintf("model api error (%d): %s", status, msg),
		Model:   model,
		Cause:   cause,
	}
	switch {
	case status == http.StatusTooManyRequests:
		ce.Message = fmt.Sprintf("model quota exceeded: %s", msg)
		ce.Retryable = true
	case status >= 500:
		ce.Retryable = true
	}
	return ce
}
