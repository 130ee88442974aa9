package questionnaire

// Question is one questionnaire item. The bank is immutable after loading.
type Question struct {
	Index        int    `json:"index"`
	Category     string `json:"category"`
	Title        string `json:"title"`
	Query        string `json:"query"`
	Citation     string `json:"citation"`
	Validator    string `json:"validator,omitempty"`
	SampleAnswer string `json:"sample_answer,omitempty"`
}

// Bank is the ordered, read-only question list shared by all sessions.
type Bank struct {
	questions []Question
}

func NewBank(questions []Question) *Bank {
	qs := make([]Question, len(questions))
	copy(qs, questions)
	for i := range qs {
		qs[i].Index = i
	}
	return &Bank{questions: qs}
}

func (b *Bank) Len() int {
	return len(b.questions)
}

// At returns the question at index i. ok is false when i is out of range.
func (b *Bank) At(i int) (Question, bool) {
	if i < 0 || i >= len(b.questions) {
		return Question{}, false
	}
	return b.questions[i], true
}

// All returns a copy of the questions in order.
func (b *Bank) All() []Question {
	out := make([]Question, len(b.questions))
	copy(out, b.questions)
	return out
}
