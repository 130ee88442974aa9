// Package embeddingtest provides a deterministic embedding fake.
package embeddingtest

import (
	"context"
	"sync"

	"rmf-policy-be/pkg/embedding"
)

// Provider returns the vector registered for a text, or Default. Err, when
// set, is returned for every call.
type Provider struct {
	mu      sync.Mutex
	Vectors map[string][]float32
	Default []float32
	Err     error
	Calls   []string
}

var _ embedding.EmbeddingProvider = &Provider{}

func NewProvider() *Provider {
	return &Provider{Vectors: map[string][]float32{}, Default: []float32{0, 0, 1}}
}

// Set registers the vector returned for text.
func (p *Provider) Set(text string, vec ...float32) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Vectors[text] = vec
	return p
}

func (p *Provider) Generate(_ context.Context, text string, _ string) ([]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, text)
	if p.Err != nil {
		return nil, p.Err
	}
	if v, ok := p.Vectors[text]; ok {
		return append([]float32(nil), v...), nil
	}
	return append([]float32(nil), p.Default...), nil
}
