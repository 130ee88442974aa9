package response

import (
	"context"
	"testing"

	"rmf-policy-be/pkg/llm"
	"rmf-policy-be/pkg/llm/llmtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRetriever struct {
	passages []string
	err      error
	k        int
}

func (s *stubRetriever) Retrieve(_ context.Context, _ string, k int) ([]string, error) {
	s.k = k
	return s.passages, s.err
}

func TestGenerator_Answer(t *testing.T) {
	retriever := &stubRetriever{passages: []string{"p1", "p2"}}
	provider := llmtest.NewProvider(llmtest.Reply{Text: "  The GOVERN function.  "})
	g := NewGenerator(retriever, provider, "SYS", "gen-model")

	answer, err := g.Answer(context.Background(), "What is GOVERN?")
	require.NoError(t, err)
	assert.Equal(t, "The GOVERN function.", answer)
	assert.Equal(t, 4, retriever.k)

	assert.Equal(t, "SYS\n\nContext:\np1\n\np2\n\nQuestion: What is GOVERN?\n\nPlease provide your response in plain text format.\n",
		provider.LastPrompt())

	opts := provider.Calls[0].Options
	assert.Equal(t, "gen-model", opts.Model)
	assert.Equal(t, 1024, opts.MaxTokens)
	require.NotNil(t, opts.Temperature)
	assert.Equal(t, 0.0, *opts.Temperature)
}

func TestGenerator_KeepsRetryableKind(t *testing.T) {
	provider := llmtest.NewProvider(llmtest.Reply{Err: llmtest.Busy()})
	g := NewGenerator(&stubRetriever{}, provider, "SYS", "")

	_, err := g.Answer(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, llm.IsRetryable(err))
}
