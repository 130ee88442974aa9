package anthropic

import (
	"context"
	"errors"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"rmf-policy-be/pkg/llm"
	"rmf-policy-be/pkg/resilience"
)

const defaultMaxTokens = 2048

type Provider struct {
	client sdk.Client
	model  string
}

var _ llm.LLMProvider = &Provider{}

// NewProvider builds a Messages API provider. SDK-level retries are off,
// retries are handled by llm.WithRetry.
func NewProvider(apiKey, model string, opts ...option.RequestOption) *Provider {
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	return &Provider{
		client: sdk.NewClient(append(base, opts...)...),
		model:  model,
	}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	opts := llm.Apply(llm.Options{Model: p.model, MaxTokens: defaultMaxTokens}, options...)

	params := sdk.MessageNewParams{
		Model:     sdk.Model(opts.Model),
		MaxTokens: int64(opts.MaxTokens),
	}

	// System turns go into the dedicated system field.
	var system []sdk.TextBlockParam
	for _, m := range history {
		block := sdk.NewTextBlock(m.Content)
		switch m.Role {
		case llm.RoleSystem:
			system = append(system, sdk.TextBlockParam{Text: m.Content})
		case llm.RoleAssistant:
			params.Messages = append(params.Messages, sdk.NewAssistantMessage(block))
		default:
			params.Messages = append(params.Messages, sdk.NewUserMessage(block))
		}
	}
	if len(system) > 0 {
		params.System = system
	}
	if opts.Temperature != nil {
		params.Temperature = sdk.Float(*opts.Temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", classify(eris.Wrap(err, "anthropic: create message"))
	}

	var sb strings.Builder
	for _, b := range msg.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	if sb.Len() == 0 {
		return "", llm.NewServiceError(llm.KindMalformed, "anthropic.chat", 0, eris.New("response has no text content"))
	}
	return sb.String(), nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

func classify(err error) error {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		kind := llm.KindFatal
		if resilience.IsTransientHTTPStatus(apiErr.StatusCode) {
			kind = llm.KindRetryable
		}
		return llm.NewServiceError(kind, "anthropic.chat", apiErr.StatusCode, err)
	}
	return llm.FromTransport("anthropic.chat", err)
}
