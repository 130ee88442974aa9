package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// WatermillPublisher puts events on an in-process watermill topic as JSON
// envelopes.
type WatermillPublisher struct {
	pub   message.Publisher
	topic string
}

func NewWatermillPublisher(pub message.Publisher, topic string) *WatermillPublisher {
	return &WatermillPublisher{pub: pub, topic: topic}
}

func (p *WatermillPublisher) Publish(ctx context.Context, event Event) error {
	body, err := Encode(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", event.EventType())

	if err := p.pub.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", event.EventType(), p.topic, err)
	}
	return nil
}

// Encode marshals an event into its wire envelope.
func Encode(event Event) ([]byte, error) {
	body, err := json.Marshal(BaseEvent{
		Type:       event.EventType(),
		Data:       event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", event.EventType(), err)
	}
	return body, nil
}

// Decode is the inverse of Encode.
func Decode(body []byte) (BaseEvent, error) {
	var e BaseEvent
	if err := json.Unmarshal(body, &e); err != nil {
		return BaseEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	if e.Type == "" {
		return BaseEvent{}, fmt.Errorf("event without type")
	}
	return e, nil
}
