package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultModel is used when no validated model has been threaded in.
const DefaultModel = "gemini-2.0-flash-exp"

// ModelPriority is the ordered list of models tried during validation,
// best first.
var ModelPriority = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash-exp",
	"gemini-1.5-flash",
	"gemini-pro",
}

// Client is a thin HTTP client for the Gemini generateContent endpoint.
// The API key and model travel with each call rather than the client so
// one client serves every request regardless of whose key it carries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the provider endpoint. Tests point this at an
// httptest server.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a gateway client.
func NewClient(log *zap.Logger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		baseURL:    "https://generativelanguage.googleapis.com/v1beta",
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		log:        log.Named("gemini"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateRequest carries one completion call.
type GenerateRequest struct {
	APIKey string
	Model  string
	System string
	Prompt string
}

// Generate sends a single generateContent call and returns the
// concatenated text of the first candidate. Failures are *APIError.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return "", &APIError{Kind: KindInvalidInput, Message: ErrEmptyKey.Error()}
	}
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: req.Prompt}}}},
	}
	if req.System != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: req.System}}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", &APIError{Kind: KindInvalidInput, Model: model, Message: fmt.Sprintf("marshal request: %v", err)}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, req.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", &APIError{Kind: KindInvalidInput, Model: model, Message: err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &APIError{Kind: KindProvider, Model: model, Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &APIError{Kind: KindProvider, Model: model, Message: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := classify(resp.StatusCode, string(respBody), model)
		c.log.Debug("generate failed",
			zap.String("model", model),
			zap.Int("status", resp.StatusCode),
			zap.String("kind", string(apiErr.Kind)))
		return "", apiErr
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &APIError{Kind: KindParse, Model: model, Message: fmt.Sprintf("decode response: %v", err)}
	}
	if parsed.Error != nil {
		return "", classify(parsed.Error.Code, parsed.Error.Message, model)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", &APIError{Kind: KindProvider, Model: model, Message: "no completion returned"}
	}

	var out strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		out.WriteString(p.Text)
	}
	text := strings.TrimSpace(out.String())

	c.log.Debug("generate completed",
		zap.String("model", model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_len", len(text)))
	return text, nil
}
