package similarity

import (
	"testing"

	"rmf-policy-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func answer(idx int, c store.Compliance, title string, vec []float32) store.Turn {
	return store.Turn{
		Role:          store.RoleUser,
		Content:       "answer",
		Compliance:    c,
		Title:         title,
		QuestionIndex: idx,
		Embedding:     vec,
	}
}

func TestFindDuplicate(t *testing.T) {
	same := []float32{1, 0, 0}
	// cos ≈ 0.89
	below := []float32{0.89, 0.45596052, 0}
	above := []float32{0.95, 0.31224990, 0}

	tests := []struct {
		name    string
		history []store.Turn
		index   int
		vec     []float32
		found   bool
	}{
		{"empty history", nil, 1, same, false},
		{"identical compliant answer on other question", []store.Turn{answer(0, store.ComplianceCompliant, "Accountability", same)}, 1, same, true},
		{"same question is ignored", []store.Turn{answer(1, store.ComplianceCompliant, "Accountability", same)}, 1, same, false},
		{"non-compliant is ignored", []store.Turn{answer(0, store.ComplianceNonCompliant, "Accountability", same)}, 1, same, false},
		{"just below threshold", []store.Turn{answer(0, store.ComplianceCompliant, "Accountability", same)}, 1, below, false},
		{"just above threshold", []store.Turn{answer(0, store.ComplianceCompliant, "Accountability", same)}, 1, above, true},
		{"assistant turns ignored", []store.Turn{{Role: store.RoleAssistant, Content: "q", QuestionIndex: -1}}, 1, same, false},
	}

	d := NewDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, found := d.FindDuplicate(tt.history, tt.index, tt.vec)
			assert.Equal(t, tt.found, found)
			if found {
				assert.Equal(t, "You have already provided a similar answer for 'Accountability'. Please provide a different answer for this question.", msg)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestFindDuplicate_StrictComparison(t *testing.T) {
	vec := []float32{1, 0, 0}
	d := &Detector{threshold: 1.0}

	_, found := d.FindDuplicate([]store.Turn{answer(0, store.ComplianceCompliant, "Accountability", vec)}, 1, vec)
	assert.False(t, found)
}
