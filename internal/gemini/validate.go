package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// keyPrefix is the shape every Google AI Studio key starts with.
const keyPrefix = "AIza"

// interModelDelay is the pause between model attempts during validation.
const interModelDelay = 300 * time.Millisecond

// ValidationResult reports the outcome of a key check. A rate-limited
// key is still a valid key: the model that answered 429 is reported so
// generation can use it once quota recovers.
type ValidationResult struct {
	Valid       bool   `json:"valid"`
	Model       string `json:"model,omitempty"`
	RateLimited bool   `json:"rateLimited,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Validator probes the model priority list with a minimal completion to
// find a model the key can use.
type Validator struct {
	client *Client
	models []string
	sleep  func(time.Duration)
	log    *zap.Logger
}

// NewValidator creates a Validator over the given client. The sleep
// function is injectable for tests; nil means time.Sleep.
func NewValidator(client *Client, log *zap.Logger, sleep func(time.Duration)) *Validator {
	if sleep == nil {
		sleep = time.Sleep
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{
		client: client,
		models: ModelPriority,
		sleep:  sleep,
		log:    log.Named("validator"),
	}
}

// Validate checks the key's format, then tries each model in priority
// order with a trivial prompt. The first success wins. Auth and
// permission failures abort immediately: they mean the key itself is
// bad, so trying more models only burns quota.
func (v *Validator) Validate(ctx context.Context, apiKey string) (ValidationResult, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return ValidationResult{Message: "API key is required"}, ErrEmptyKey
	}
	if !strings.HasPrefix(key, keyPrefix) {
		return ValidationResult{Message: "API key must start with " + keyPrefix}, ErrBadKeyFormat
	}

	var details []string
	for i, model := range v.models {
		if i > 0 {
			v.sleep(interModelDelay)
		}

		text, err := v.client.Generate(ctx, GenerateRequest{
			APIKey: key,
			Model:  model,
			Prompt: `Say "OK"`,
		})
		if err == nil {
			// A model that answers with no text proves nothing; keep
			// probing until one actually completes.
			if strings.TrimSpace(text) == "" {
				details = append(details, model+": empty completion")
				v.log.Debug("model returned empty completion", zap.String("model", model))
				continue
			}
			v.log.Info("key validated", zap.String("model", model))
			return ValidationResult{Valid: true, Model: model}, nil
		}

		if IsRateLimit(err) {
			// Quota exhaustion proves the key is accepted.
			v.log.Info("key valid but rate limited", zap.String("model", model))
			return ValidationResult{
				Valid:       true,
				Model:       model,
				RateLimited: true,
				Message:     "API key is valid but currently rate limited",
			}, nil
		}
		if IsAuth(err) {
			v.log.Warn("key rejected", zap.String("model", model), zap.Error(err))
			return ValidationResult{
				Message: "API key was rejected. Check that the key is active and has the Generative Language API enabled.",
			}, err
		}

		details = append(details, fmt.Sprintf("%s: %v", model, err))
		v.log.Debug("model attempt failed", zap.String("model", model), zap.Error(err))
	}

	return ValidationResult{
		Message: "No usable model found. " + strings.Join(details, "; "),
	}, fmt.Errorf("%w: %s", ErrNoUsableModel, strings.Join(details, "; "))
}
