package llm

import (
	"context"

	"rmf-policy-be/internal/pkg/logger"
	"rmf-policy-be/pkg/resilience"
)

type retryingProvider struct {
	next   LLMProvider
	cfg    resilience.RetryConfig
	logger logger.ILogger
}

// WithRetry retries retryable failures of next with backoff. The final
// error keeps its kind so callers still see it as retryable.
func WithRetry(next LLMProvider, maxAttempts int, log logger.ILogger) LLMProvider {
	cfg := resilience.DefaultRetryConfig()
	cfg.MaxAttempts = maxAttempts
	cfg.ShouldRetry = IsRetryable
	cfg.OnRetry = func(attempt int, err error) {
		log.Warn("LLM", "Retrying completion", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})
	}
	return &retryingProvider{next: next, cfg: cfg, logger: log}
}

func (p *retryingProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	return resilience.DoVal(ctx, p.cfg, func(ctx context.Context) (string, error) {
		return p.next.Chat(ctx, history, options...)
	})
}

func (p *retryingProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return resilience.DoVal(ctx, p.cfg, func(ctx context.Context) (string, error) {
		return p.next.Generate(ctx, prompt, options...)
	})
}
