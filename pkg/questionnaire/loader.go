package questionnaire

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"golang.org/x/text/unicode/norm"

	"rmf-policy-be/pkg/utils"
)

// Picker chooses one of n sample answers.
type Picker func(n int) int

// RandomPicker picks uniformly.
func RandomPicker(n int) int {
	return rand.IntN(n)
}

// LoadFile reads the question bank JSON:
//
//	{"<category>": [{"title", "queries": {"q"}, "citation", "validator", "valid_answers": {"va1", "va2"}}]}
//
// Category order and item order are preserved.
func LoadFile(path string, pick Picker) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question bank: %w", err)
	}
	defer f.Close()

	return Parse(f, pick)
}

func Parse(r io.Reader, pick Picker) (*Bank, error) {
	if pick == nil {
		pick = RandomPicker
	}

	doc, err := utils.DecodeOrdered(r)
	if err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}

	root, ok := doc.(utils.Object)
	if !ok {
		return nil, fmt.Errorf("question bank must be a JSON object of categories")
	}

	var questions []Question
	for _, category := range root {
		items, ok := category.Value.([]interface{})
		if !ok {
			return nil, fmt.Errorf("category %q must hold a list of questions", category.Key)
		}

		for i, raw := range items {
			item, ok := raw.(utils.Object)
			if !ok {
				return nil, fmt.Errorf("category %q item %d is not an object", category.Key, i)
			}

			q, err := toQuestion(category.Key, item, pick)
			if err != nil {
				return nil, fmt.Errorf("category %q item %d: %w", category.Key, i, err)
			}
			questions = append(questions, q)
		}
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("question bank is empty")
	}

	return NewBank(questions), nil
}

func toQuestion(category string, item utils.Object, pick Picker) (Question, error) {
	title := item.String("title")
	if title == "" {
		return Question{}, fmt.Errorf("missing title")
	}

	var query string
	if queries, ok := item.Get("queries"); ok {
		if qo, ok := queries.(utils.Object); ok {
			query = qo.String("q")
		}
	}
	if query == "" {
		return Question{}, fmt.Errorf("missing queries.q")
	}

	var sample string
	if va, ok := item.Get("valid_answers"); ok {
		if vo, ok := va.(utils.Object); ok && len(vo) > 0 {
			candidates := []string{vo.String("va1"), vo.String("va2")}
			sample = candidates[pick(len(candidates))]
		}
	}

	return Question{
		Category:     category,
		Title:        norm.NFC.String(title),
		Query:        norm.NFC.String(query),
		Citation:     item.String("citation"),
		Validator:    item.String("validator"),
		SampleAnswer: sample,
	}, nil
}
