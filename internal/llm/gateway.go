package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/screenforge/screenforge/internal/config"
)

// Gateway wraps the configured provider with a pre-flight health check,
// per-call timeout, a shared rate limiter, and bounded retry with
// exponential backoff. Only transient errors are retried; backoff state is
// per call, never shared between requests.
type Gateway struct {
	provider   Provider
	model      string
	timeout    time.Duration
	maxRetries int
	limiter    *rate.Limiter
}

// NewGateway selects the provider from configuration. Callers never name a
// provider; swapping backends is a deployment change only.
func NewGateway(cfg config.LLMConfig) (*Gateway, error) {
	var p Provider
	switch cfg.Provider {
	case "openai":
		p = NewOpenAIProvider(cfg.OpenAIKey)
	case "anthropic":
		p = NewAnthropicProvider(cfg.AnthropicKey)
	case "ollama":
		p = NewOllamaProvider(cfg.OllamaURL)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	return newGateway(p, cfg), nil
}

func newGateway(p Provider, cfg config.LLMConfig) *Gateway {
	return &Gateway{
		provider:   p,
		model:      cfg.Model,
		timeout:    cfg.RequestTimeout,
		maxRetries: cfg.MaxRetries,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
	}
}

// Healthy reports provider liveness for the health surface.
func (g *Gateway) Healthy(ctx context.Context) error {
	return g.provider.Healthy(ctx)
}

// Generate runs the request through the retry loop. The pre-flight health
// check fails fast with ErrBackendUnavailable instead of hanging through
// the whole retry budget. The returned response records how many attempts
// were made.
func (g *Gateway) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := g.provider.Healthy(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if req.Model == "" {
		req.Model = g.model
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, classify(g.provider.Name(), ctx.Err())
			case <-time.After(backoff):
			}
			slog.Debug("retrying generation", "provider", g.provider.Name(), "attempt", attempt)
		}

		if err := g.limiter.Wait(ctx); err != nil {
			return nil, classify(g.provider.Name(), err)
		}

		resp, err := g.generateOnce(ctx, req)
		if err == nil {
			resp.Attempts = attempt + 1
			return resp, nil
		}
		lastErr = err

		var berr *BackendError
		if errors.As(err, &berr) && !berr.Transient {
			return nil, err
		}
	}
	return nil, fmt.Errorf("retry budget exhausted after %d attempts: %w", g.maxRetries+1, lastErr)
}

func (g *Gateway) generateOnce(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.provider.Generate(callCtx, req)
}
