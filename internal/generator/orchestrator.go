// Package generator orchestrates the document generation batches: the
// ten-document core run for a new project and the four-document run for
// a feature extension.
package generator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"vibedocs/internal/gemini"
	"vibedocs/internal/project"
	"vibedocs/internal/prompt"
)

// Gateway is the completion surface the orchestrator drives. Satisfied
// by *gemini.Client; tests substitute a scripted stub.
type Gateway interface {
	Generate(ctx context.Context, req gemini.GenerateRequest) (string, error)
}

// Pacing controls the delays between consecutive generation calls.
// The provider free tier throttles aggressively, so the batch spaces
// calls out rather than firing them concurrently.
type Pacing struct {
	InterCall         time.Duration
	RateLimitRecovery time.Duration
}

// DefaultPacing matches the provider's observed free-tier tolerance.
func DefaultPacing() Pacing {
	return Pacing{
		InterCall:         500 * time.Millisecond,
		RateLimitRecovery: 2 * time.Second,
	}
}

// Orchestrator runs generation batches serially. A single worker is
// deliberate: the pacing policy is the point, and document order is part
// of the output contract.
type Orchestrator struct {
	gw     Gateway
	pacing Pacing
	sleep  func(time.Duration)
	log    *zap.Logger
}

// New creates an orchestrator. A nil sleep means time.Sleep.
func New(gw Gateway, pacing Pacing, log *zap.Logger, sleep func(time.Duration)) *Orchestrator {
	if sleep == nil {
		sleep = time.Sleep
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{gw: gw, pacing: pacing, sleep: sleep, log: log.Named("generator")}
}

// CoreRequest describes a core batch run.
type CoreRequest struct {
	APIKey      string
	Model       string // validated model; empty falls back to the gateway default
	Name        string
	Description string
	AppType     project.AppType
	Template    string
}

// CoreResult is the outcome of a core batch. Docs always has all ten
// documents populated: failures leave a placeholder and a warning, never
// a hole.
type CoreResult struct {
	Docs     project.CoreDocuments
	Warnings []string
}

// GenerateCore produces the ten core documents in their fixed order.
// Individual failures never abort the batch; each failed document gets a
// placeholder so the project is always complete, and the error is
// surfaced as a warning.
func (o *Orchestrator) GenerateCore(ctx context.Context, req CoreRequest) (CoreResult, error) {
	if err := ctx.Err(); err != nil {
		return CoreResult{}, err
	}

	shared := prompt.ProjectContext(req.Name, req.Description, req.AppType, req.Template)
	var res CoreResult

	for i, kind := range project.CoreDocumentOrder {
		if i > 0 {
			o.sleep(o.pacing.InterCall)
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		system, _ := prompt.System(kind)
		text, err := o.gw.Generate(ctx, gemini.GenerateRequest{
			APIKey: req.APIKey,
			Model:  req.Model,
			System: system,
			Prompt: shared,
		})
		if err != nil {
			text = placeholder(kind, err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", kind, err))
			o.log.Warn("document generation failed",
				zap.String("kind", string(kind)),
				zap.Error(err))
			if gemini.IsRateLimit(err) {
				o.sleep(o.pacing.RateLimitRecovery)
			}
		} else {
			o.log.Info("document generated",
				zap.String("kind", string(kind)),
				zap.Int("len", len(text)))
		}
		res.Docs.Set(kind, text)
	}

	return res, nil
}

// ExtensionRequest describes an extension batch run.
type ExtensionRequest struct {
	APIKey      string
	Model       string
	ProjectName string
	ExistingPRD string
	FeatureName string
	Description string
}

// ExtensionResult is the outcome of an extension batch.
type ExtensionResult struct {
	Docs     project.ExtensionDocuments
	Warnings []string
}

// GenerateExtension produces the four extension documents. Same failure
// contract as the core batch.
func (o *Orchestrator) GenerateExtension(ctx context.Context, req ExtensionRequest) (ExtensionResult, error) {
	if err := ctx.Err(); err != nil {
		return ExtensionResult{}, err
	}

	shared := prompt.ExtensionContext(req.ProjectName, req.ExistingPRD, req.FeatureName, req.Description)
	var res ExtensionResult

	for i, kind := range project.ExtensionDocumentOrder {
		if i > 0 {
			o.sleep(o.pacing.InterCall)
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		system, _ := prompt.ExtensionSystem(kind)
		text, err := o.gw.Generate(ctx, gemini.GenerateRequest{
			APIKey: req.APIKey,
			Model:  req.Model,
			System: system,
			Prompt: shared,
		})
		if err != nil {
			text = placeholder(kind, err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", kind, err))
			o.log.Warn("extension document generation failed",
				zap.String("kind", string(kind)),
				zap.Error(err))
			if gemini.IsRateLimit(err) {
				o.sleep(o.pacing.RateLimitRecovery)
			}
		}
		res.Docs.Set(kind, text)
	}

	return res, nil
}

func placeholder(kind project.DocKind, err error) string {
	title := prompt.Titles[kind]
	if title == "" {
		title = string(kind)
	}
	return fmt.Sprintf("# %s\n\nThis document could not be generated.\n\nError: %v\n\nRegenerate it from the document view once the issue is resolved.\n", title, err)
}
