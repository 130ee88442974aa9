package utils

import "strings"

// SplitText splits text into chunks of at most chunkSize runes with overlap
// runes repeated between neighbours. A chunk prefers to end on a paragraph
// break, line break or space when one falls in its second half.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	totalLen := len(runes)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if totalLen <= chunkSize {
		return []string{text}
	}
	if overlap >= chunkSize || overlap < 0 {
		overlap = 0
	}

	var chunks []string
	for start := 0; start < totalLen; {
		end := start + chunkSize
		if end >= totalLen {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		end = breakPoint(runes, start, end)

		chunks = append(chunks, string(runes[start:end]))

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

func breakPoint(runes []rune, start, end int) int {
	half := start + (end-start)/2
	for _, sep := range []string{"\n\n", "\n", " "} {
		sepRunes := []rune(sep)
		for i := end - len(sepRunes); i > half; i-- {
			if string(runes[i:i+len(sepRunes)]) == sep {
				return i + len(sepRunes)
			}
		}
	}
	return end
}
