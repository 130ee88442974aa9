// Package llmtest provides scripted fakes of the model service interfaces.
package llmtest

import (
	"context"
	"sync"

	"rmf-policy-be/pkg/llm"
)

// Reply is one scripted completion result.
type Reply struct {
	Text string
	Err  error
}

// Call records one request made to the fake.
type Call struct {
	Messages []llm.Message
	Options  llm.Options
}

// Provider returns scripted replies in order. Once the script is exhausted
// the last reply repeats. A Respond func, when set, takes precedence.
type Provider struct {
	mu      sync.Mutex
	Replies []Reply
	Respond func(messages []llm.Message) (string, error)
	Calls   []Call
}

var _ llm.LLMProvider = &Provider{}

func NewProvider(replies ...Reply) *Provider {
	return &Provider{Replies: replies}
}

func (p *Provider) Chat(_ context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Calls = append(p.Calls, Call{Messages: history, Options: llm.Apply(llm.Options{}, options...)})

	if p.Respond != nil {
		return p.Respond(history)
	}
	if len(p.Replies) == 0 {
		return "", nil
	}
	r := p.Replies[0]
	if len(p.Replies) > 1 {
		p.Replies = p.Replies[1:]
	}
	return r.Text, r.Err
}

func (p *Provider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

// CallCount is safe for concurrent use.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Calls)
}

// LastPrompt returns the content of the last message of the last call.
func (p *Provider) LastPrompt() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Calls) == 0 {
		return ""
	}
	msgs := p.Calls[len(p.Calls)-1].Messages
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1].Content
}

// Busy is a retryable error as a provider would return on HTTP 429.
func Busy() error {
	return llm.FromStatus("fake.chat", 429, "rate limited")
}

// Broken is a fatal error as a provider would return on HTTP 400.
func Broken() error {
	return llm.FromStatus("fake.chat", 400, "bad request")
}
