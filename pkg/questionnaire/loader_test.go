package questionnaire

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBank = `{
  "Govern": [
    {
      "title": "Accountability",
      "queries": {"q": "Who is accountable for AI risk?"},
      "citation": "GOVERN 2.1",
      "validator": "Must name roles and reporting lines.",
      "valid_answers": {"va1": "The CRO owns AI risk.", "va2": "A committee owns AI risk."}
    },
    {
      "title": "Training",
      "queries": {"q": "How is staff trained?"},
      "citation": "GOVERN 2.2"
    }
  ],
  "Map": [
    {
      "title": "Cafe\u0301 context",
      "queries": {"q": "What is the context?"},
      "citation": "MAP 1.1",
      "validator": ""
    }
  ]
}`

func TestParse_PreservesOrder(t *testing.T) {
	bank, err := Parse(strings.NewReader(sampleBank), func(int) int { return 1 })
	require.NoError(t, err)
	require.Equal(t, 3, bank.Len())

	qs := bank.All()
	assert.Equal(t, "Govern", qs[0].Category)
	assert.Equal(t, "Accountability", qs[0].Title)
	assert.Equal(t, "A committee owns AI risk.", qs[0].SampleAnswer)
	assert.Equal(t, "Must name roles and reporting lines.", qs[0].Validator)

	assert.Equal(t, "Training", qs[1].Title)
	assert.Empty(t, qs[1].SampleAnswer)
	assert.Empty(t, qs[1].Validator)

	assert.Equal(t, "Map", qs[2].Category)
	assert.Equal(t, 2, qs[2].Index)
	// NFC composes e + combining acute into one rune.
	assert.Equal(t, "Caf\u00e9 context", qs[2].Title)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not an object", `[1,2]`},
		{"category not a list", `{"Govern": {"title": "x"}}`},
		{"missing query", `{"Govern": [{"title": "x", "queries": {}}]}`},
		{"missing title", `{"Govern": [{"queries": {"q": "?"}}]}`},
		{"empty", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.body), nil)
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleBank), 0o644))

	bank, err := LoadFile(path, nil)
	require.NoError(t, err)

	q, ok := bank.At(0)
	require.True(t, ok)
	assert.Contains(t, []string{"The CRO owns AI risk.", "A committee owns AI risk."}, q.SampleAnswer)

	_, ok = bank.At(3)
	assert.False(t, ok)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)
}
