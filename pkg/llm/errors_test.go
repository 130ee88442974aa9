package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"rmf-policy-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"rate limited", FromStatus("chat", 429, "slow down"), KindRetryable},
		{"server error", FromStatus("chat", 503, "unavailable"), KindRetryable},
		{"bad request", FromStatus("chat", 400, "bad"), KindFatal},
		{"wrapped malformed", fmt.Errorf("validate: %w", NewServiceError(KindMalformed, "chat", 0, errors.New("no json"))), KindMalformed},
		{"deadline", context.DeadlineExceeded, KindRetryable},
		{"plain", errors.New("boom"), KindFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
	assert.False(t, IsRetryable(nil))
}

type flakyProvider struct {
	failures int
	err      error
	calls    int
}

func (f *flakyProvider) Chat(_ context.Context, _ []Message, _ ...Option) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", f.err
	}
	return "done", nil
}

func (f *flakyProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return f.Chat(ctx, []Message{{Role: RoleUser, Content: prompt}}, options...)
}

func TestWithRetry_RetriesOnlyRetryable(t *testing.T) {
	flaky := &flakyProvider{failures: 1, err: FromStatus("chat", 429, "slow down")}
	p := WithRetry(flaky, 3, logger.NewNopLogger())

	out, err := p.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, 2, flaky.calls)

	fatal := &flakyProvider{failures: 5, err: FromStatus("chat", 401, "bad key")}
	p = WithRetry(fatal, 3, logger.NewNopLogger())
	_, err = p.Generate(context.Background(), "hi")
	assert.Error(t, err)
	assert.Equal(t, 1, fatal.calls)
	assert.Equal(t, KindFatal, KindOf(err))
}

func TestOptions(t *testing.T) {
	o := Apply(Options{Model: "base", MaxTokens: 100}, WithModel(""), WithTemperature(0), WithMaxTokens(1024))
	assert.Equal(t, "base", o.Model)
	require.NotNil(t, o.Temperature)
	assert.Equal(t, 0.0, *o.Temperature)
	assert.Equal(t, 1024, o.MaxTokens)
}
