package similarity

import (
	"fmt"

	"rmf-policy-be/pkg/embedding"
	"rmf-policy-be/pkg/store"
)

// DuplicateThreshold is the cosine similarity above which two answers
// count as the same answer.
const DuplicateThreshold = 0.9

type Detector struct {
	threshold float64
}

func NewDetector() *Detector {
	return &Detector{threshold: DuplicateThreshold}
}

// FindDuplicate scans compliant answers given to other questions and
// returns a user-facing message for the first one whose similarity to vec
// is strictly above the threshold.
func (d *Detector) FindDuplicate(history []store.Turn, currentIndex int, vec []float32) (string, bool) {
	for _, t := range history {
		if !t.IsAnswer() || t.Compliance != store.ComplianceCompliant {
			continue
		}
		if t.QuestionIndex == currentIndex || len(t.Embedding) == 0 {
			continue
		}

		if embedding.CosineSimilarity(vec, t.Embedding) > d.threshold {
			return fmt.Sprintf(
				"You have already provided a similar answer for '%s'. Please provide a different answer for this question.",
				t.Title), true
		}
	}
	return "", false
}
