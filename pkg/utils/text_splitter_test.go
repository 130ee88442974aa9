package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		chunkSize int
		overlap   int
		want      []string
	}{
		{"empty", "   ", 10, 2, nil},
		{"fits", "short text", 20, 5, []string{"short text"}},
		{"breaks on space", "aaaa bbbb cccc", 10, 0, []string{"aaaa bbbb ", "cccc"}},
		{"hard cut without separators", "abcdefghij", 4, 1, []string{"abcd", "defg", "ghij"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitText(tt.text, tt.chunkSize, tt.overlap))
		})
	}
}

func TestSplitText_RespectsSizeAndCoversText(t *testing.T) {
	text := strings.Repeat("Govern function establishes accountability. ", 200)
	chunks := SplitText(text, 2000, 250)

	assert.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 2000)
	}
	assert.True(t, strings.HasPrefix(text, chunks[0]))
	assert.True(t, strings.HasSuffix(text, chunks[len(chunks)-1]))
}

func TestSplitText_MultibyteRunes(t *testing.T) {
	text := strings.Repeat("é", 25)
	chunks := SplitText(text, 10, 0)
	assert.Len(t, chunks, 3)
	assert.Equal(t, strings.Repeat("é", 10), chunks[0])
}
