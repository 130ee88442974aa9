// Package stream turns assistant replies into the chunk sequence sent to
// clients.
package stream

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	SampleOpen  = "[VALID_ANSWER]"
	SampleClose = "[/VALID_ANSWER]"

	genericChunkWords = 5
)

// Style controls chunk granularity.
type Style int

const (
	// StyleWords sends one word per chunk.
	StyleWords Style = iota
	// StyleGeneric sends five words per chunk.
	StyleGeneric
	// StyleWhole sends the text in a single chunk (checklists, policies).
	StyleWhole
)

type Reply struct {
	Text         string
	SampleAnswer string
	Style        Style
}

// Chunks returns the content chunks followed by the trailer: the sample
// answer marker when present, otherwise a newline.
func (r Reply) Chunks() []string {
	var chunks []string

	switch r.Style {
	case StyleWhole:
		chunks = append(chunks, r.Text)
	default:
		size := 1
		if r.Style == StyleGeneric {
			size = genericChunkWords
		}
		words := strings.Fields(r.Text)
		for i := 0; i < len(words); i += size {
			end := i + size
			if end > len(words) {
				end = len(words)
			}
			chunks = append(chunks, strings.Join(words[i:end], " ")+" ")
		}
	}

	return append(chunks, r.Trailer())
}

func (r Reply) Trailer() string {
	if r.SampleAnswer != "" {
		return fmt.Sprintf("\n%s%s%s\n", SampleOpen, r.SampleAnswer, SampleClose)
	}
	return "\n"
}

// Emit sends every chunk through send, pausing delay after each content
// chunk. It stops early when ctx is done or send fails.
func Emit(ctx context.Context, r Reply, delay time.Duration, send func(chunk string) error) error {
	chunks := r.Chunks()
	for i, chunk := range chunks {
		if err := send(chunk); err != nil {
			return err
		}
		if i == len(chunks)-1 || delay <= 0 || r.Style == StyleWhole {
			continue
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

// SplitSample separates a received text into the visible part and the
// sample answer carried by the marker, if any.
func SplitSample(text string) (visible, sample string) {
	start := strings.Index(text, SampleOpen)
	if start < 0 {
		return text, ""
	}
	end := strings.Index(text[start:], SampleClose)
	if end < 0 {
		return text, ""
	}
	sample = text[start+len(SampleOpen) : start+end]
	visible = text[:start] + text[start+end+len(SampleClose):]
	return visible, sample
}
