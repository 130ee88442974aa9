package checklist

import (
	"strings"

	"rmf-policy-be/pkg/questionnaire"
	"rmf-policy-be/pkg/store"
)

const (
	ComplianceMark = "✅ Compliant"

	CommentAccepted  = "Answer accepted as compliant."
	CommentCorrected = "Initially non-compliant; corrected answer accepted."
	CommentPending   = "No compliant answer accepted yet."
)

// Row is one checklist line.
type Row struct {
	Title      string `json:"title"`
	Citation   string `json:"citation"`
	Query      string `json:"query"`
	Answer     string `json:"answer"`
	Compliance string `json:"compliance"`
	Comments   string `json:"comments"`
}

// BuildRows folds the answer history into one row per attempted question,
// in question order.
func BuildRows(questions []questionnaire.Question, history []store.Turn) []Row {
	accepted := make(map[int]store.Turn)
	rejected := make(map[int][]store.Turn)

	for _, t := range history {
		if !t.IsAnswer() {
			continue
		}
		if t.Compliance == store.ComplianceCompliant {
			accepted[t.QuestionIndex] = t
		} else {
			rejected[t.QuestionIndex] = append(rejected[t.QuestionIndex], t)
		}
	}

	var rows []Row
	for idx, q := range questions {
		ok, hasAccepted := accepted[idx]
		nc := rejected[idx]
		if !hasAccepted && len(nc) == 0 {
			continue
		}

		var answer strings.Builder
		for _, t := range nc {
			answer.WriteString("~~" + sanitize(t.Content) + "~~ ")
		}

		comments := CommentAccepted
		switch {
		case hasAccepted && len(nc) > 0:
			answer.WriteString(sanitize(ok.Content))
			comments = CommentCorrected
		case hasAccepted:
			answer.WriteString(sanitize(ok.Content))
		default:
			comments = CommentPending
		}

		rows = append(rows, Row{
			Title:      sanitize(q.Title),
			Citation:   sanitize(q.Citation),
			Query:      sanitize(q.Query),
			Answer:     answer.String(),
			Compliance: ComplianceMark,
			Comments:   comments,
		})
	}
	return rows
}

// RenderTable renders rows as a markdown table.
func RenderTable(rows []Row) string {
	var sb strings.Builder
	sb.WriteString("| Title | Citation | Query | Answer | Compliance | Comments |\n")
	sb.WriteString("|-------|----------|-------|--------|------------|----------|\n")
	for _, r := range rows {
		sb.WriteString("| " + r.Title +
			" | " + r.Citation +
			" | " + r.Query +
			" | " + r.Answer +
			" | " + r.Compliance +
			" | " + r.Comments + " |\n")
	}
	return sb.String()
}

// BuildChecklist is BuildRows followed by RenderTable. Identical input
// yields byte-identical output.
func BuildChecklist(questions []questionnaire.Question, history []store.Turn) string {
	return RenderTable(BuildRows(questions, history))
}

var cellReplacer = strings.NewReplacer("|", " ", "\r\n", " ", "\n", " ", "\r", " ")

func sanitize(s string) string {
	return cellReplacer.Replace(s)
}
