package service

import (
	"context"
	"time"

	"rmf-policy-be/internal/entity"
	"rmf-policy-be/internal/pkg/logger"
	"rmf-policy-be/internal/repository/contract"
	"rmf-policy-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService archives TURN_RECORDED events. With a repository the
// turns become transcript rows, otherwise they go to the transcript log.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	repo       contract.TranscriptRepository
	transcript logger.ILogger
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	repo contract.TranscriptRepository,
	transcript logger.ILogger,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		repo:       repo,
		transcript: transcript,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	event, err := events.Decode(msg.Payload)
	if err != nil {
		cs.logger.Error("TranscriptConsumer", "Failed to decode event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // redelivery cannot fix a bad payload
		return
	}

	if event.EventType() != events.TypeTurnRecorded {
		msg.Ack()
		return
	}

	entry := toTranscriptEntry(event)

	if cs.repo == nil {
		cs.transcript.Info("Transcript", entry.Role, map[string]interface{}{
			"user_id":        entry.UserId,
			"mode":           entry.Mode,
			"compliance":     entry.Compliance,
			"question_index": entry.QuestionIndex,
			"content":        entry.Content,
		})
		msg.Ack()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cs.repo.Create(ctx, entry); err != nil {
		cs.logger.Error("TranscriptConsumer", "Failed to persist transcript entry", map[string]interface{}{
			"user_id": entry.UserId,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}
	msg.Ack()
}

func toTranscriptEntry(e events.BaseEvent) *entity.TranscriptEntry {
	data := e.Payload()
	entry := &entity.TranscriptEntry{
		UserId:        events.StringField(data, "user_id"),
		Role:          events.StringField(data, "role"),
		Content:       events.StringField(data, "content"),
		Mode:          events.StringField(data, "mode"),
		Compliance:    events.StringField(data, "compliance"),
		QuestionIndex: events.IntField(data, "question_index", -1),
		CreatedAt:     e.Timestamp(),
	}
	if title := events.StringField(data, "title"); title != "" {
		entry.Metadata = map[string]interface{}{"title": title}
	}
	return entry
}
