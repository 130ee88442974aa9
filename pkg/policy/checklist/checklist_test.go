package checklist

import (
	"context"
	"strings"
	"testing"

	"rmf-policy-be/internal/pkg/logger"
	"rmf-policy-be/pkg/llm"
	"rmf-policy-be/pkg/llm/llmtest"
	"rmf-policy-be/pkg/questionnaire"
	"rmf-policy-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var questions = []questionnaire.Question{
	{Index: 0, Title: "Accountability", Citation: "GOVERN 2.1", Query: "Who is accountable?"},
	{Index: 1, Title: "Training | Awareness", Citation: "GOVERN 2.2", Query: "How is staff trained?"},
	{Index: 2, Title: "Context", Citation: "MAP 1.1", Query: "What is the context?"},
}

func turn(idx int, c store.Compliance, content string) store.Turn {
	return store.Turn{Role: store.RoleUser, Content: content, Compliance: c, QuestionIndex: idx}
}

func TestBuildRows(t *testing.T) {
	history := []store.Turn{
		{Role: store.RoleAssistant, Content: "Who is accountable?", QuestionIndex: -1},
		turn(0, store.ComplianceCompliant, "The CRO owns AI risk."),
		turn(1, store.ComplianceNonCompliant, "We train | sometimes"),
		turn(1, store.ComplianceNonCompliant, "Some\ntraining"),
		turn(1, store.ComplianceCompliant, "Annual mandatory training for all staff."),
	}

	rows := BuildRows(questions, history)
	require.Len(t, rows, 2)

	assert.Equal(t, "Accountability", rows[0].Title)
	assert.Equal(t, "The CRO owns AI risk.", rows[0].Answer)
	assert.Equal(t, CommentAccepted, rows[0].Comments)
	assert.Equal(t, ComplianceMark, rows[0].Compliance)

	assert.Equal(t, "Training   Awareness", rows[1].Title)
	assert.Equal(t, "~~We train   sometimes~~ ~~Some training~~ Annual mandatory training for all staff.", rows[1].Answer)
	assert.Equal(t, CommentCorrected, rows[1].Comments)
}

func TestBuildRows_PendingQuestion(t *testing.T) {
	rows := BuildRows(questions, []store.Turn{turn(2, store.ComplianceNonCompliant, "no idea really")})
	require.Len(t, rows, 1)
	assert.Equal(t, "~~no idea really~~ ", rows[0].Answer)
	assert.Equal(t, CommentPending, rows[0].Comments)
	assert.Equal(t, ComplianceMark, rows[0].Compliance)
}

func TestBuildChecklist(t *testing.T) {
	history := []store.Turn{turn(0, store.ComplianceCompliant, "The CRO owns AI risk.")}

	table := BuildChecklist(questions, history)
	lines := strings.Split(strings.TrimSuffix(table, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "| Title | Citation | Query | Answer | Compliance | Comments |", lines[0])
	assert.Equal(t, "|-------|----------|-------|--------|------------|----------|", lines[1])
	assert.Equal(t, "| Accountability | GOVERN 2.1 | Who is accountable? | The CRO owns AI risk. | ✅ Compliant | Answer accepted as compliant. |", lines[2])

	// Idempotent.
	assert.Equal(t, table, BuildChecklist(questions, history))
}

func TestBuildChecklist_EmptyHistory(t *testing.T) {
	table := BuildChecklist(questions, nil)
	assert.Equal(t, 2, strings.Count(table, "\n"))
}

func TestPolicyPrompt(t *testing.T) {
	p := PolicyPrompt("# Template", "| table |", "Acme Corp")
	assert.True(t, strings.HasPrefix(p, "Here is a policy template:\n\n# Template\n\n"))
	assert.Contains(t, p, "And here is the user's checklist with answers:\n\n| table |")
	assert.Contains(t, p, "Use the organization name 'Acme Corp'.")
	assert.Contains(t, p, "Do not hallucinate")

	p = PolicyPrompt("# Template", "| table |", "")
	assert.Contains(t, p, "Leave the organization name as [Organization Name].")
}

func TestBuildPolicy(t *testing.T) {
	history := []store.Turn{turn(0, store.ComplianceCompliant, "The CRO owns AI risk.")}

	t.Run("returns completion verbatim", func(t *testing.T) {
		fake := llmtest.NewProvider(llmtest.Reply{Text: "## Purpose\n\nPolicy Details\n\n- one"})
		a := NewAssembler(fake, "policy-model", "# Template", logger.NewNopLogger())

		out, err := a.BuildPolicy(context.Background(), questions, history, "")
		require.NoError(t, err)
		assert.Equal(t, "## Purpose\n\nPolicy Details\n\n- one", out)
		assert.Equal(t, "policy-model", fake.Calls[0].Options.Model)
		assert.Contains(t, fake.LastPrompt(), "The CRO owns AI risk.")
		assert.Contains(t, fake.LastPrompt(), "[Organization Name]")
	})

	t.Run("fatal error is inlined", func(t *testing.T) {
		fake := llmtest.NewProvider(llmtest.Reply{Err: llmtest.Broken()})
		a := NewAssembler(fake, "", "# Template", logger.NewNopLogger())

		out, err := a.BuildPolicy(context.Background(), questions, history, "Acme")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "**Error generating policy**: "))
	})

	t.Run("retryable error is returned", func(t *testing.T) {
		fake := llmtest.NewProvider(llmtest.Reply{Err: llmtest.Busy()})
		a := NewAssembler(fake, "", "# Template", logger.NewNopLogger())

		_, err := a.BuildPolicy(context.Background(), questions, history, "Acme")
		require.Error(t, err)
		assert.True(t, llm.IsRetryable(err))
	})

	t.Run("missing template", func(t *testing.T) {
		fake := llmtest.NewProvider(llmtest.Reply{Text: "## Policy"})
		a := NewAssembler(fake, "", "", logger.NewNopLogger())

		_, err := a.BuildPolicy(context.Background(), questions, history, "")
		require.NoError(t, err)
		assert.Contains(t, fake.LastPrompt(), "Here is a policy template:\n\n"+TemplateNotFound)
	})
}
