package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rmf-policy-be/internal/entity"
	"rmf-policy-be/internal/pkg/logger"
	"rmf-policy-be/pkg/events"
	pktNats "rmf-policy-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryTranscripts struct {
	mu      sync.Mutex
	entries []*entity.TranscriptEntry
	created chan struct{}
}

func (m *memoryTranscripts) Create(_ context.Context, e *entity.TranscriptEntry) error {
	m.mu.Lock()
	m.entries = append(m.entries, e)
	m.mu.Unlock()
	m.created <- struct{}{}
	return nil
}

func (m *memoryTranscripts) FindByUserId(context.Context, string, int) ([]*entity.TranscriptEntry, error) {
	return nil, errors.New("not implemented")
}

func TestConsumerService_PersistsTurns(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	repo := &memoryTranscripts{created: make(chan struct{}, 1)}
	consumer := NewConsumerService(pubSub, "transcripts", repo, logger.NewNopLogger(), logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	pub := events.NewWatermillPublisher(pubSub, "transcripts")
	require.NoError(t, pub.Publish(ctx, events.NewPolicyGenerated("u1", "", 1, time.Now())))
	require.NoError(t, pub.Publish(ctx, events.NewTurnRecorded(events.TurnRecord{
		UserID:        "u1",
		Role:          "user",
		Content:       "The CRO owns AI risk.",
		Mode:          "policy",
		Compliance:    "Compliant",
		QuestionIndex: 0,
		Title:         "Accountability",
	}, time.Now())))

	select {
	case <-repo.created:
	case <-time.After(2 * time.Second):
		t.Fatal("transcript entry not persisted")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	require.Len(t, repo.entries, 1)
	e := repo.entries[0]
	assert.Equal(t, "u1", e.UserId)
	assert.Equal(t, 0, e.QuestionIndex)
	assert.Equal(t, "Accountability", e.Metadata["title"])
}

type fakeSubscriber struct {
	subject string
	handler pktNats.EventHandler
}

func (f *fakeSubscriber) Subscribe(_ context.Context, subject, _ string, handler pktNats.EventHandler) error {
	f.subject = subject
	f.handler = handler
	return nil
}

type recordingDelivery struct {
	userID string
	notice map[string]interface{}
}

func (r *recordingDelivery) Send(userID string, notice map[string]interface{}) {
	r.userID = userID
	r.notice = notice
}

func TestNotificationService_ForwardsPolicyGenerated(t *testing.T) {
	sub := &fakeSubscriber{}
	delivery := &recordingDelivery{}
	svc := NewNotificationService(sub, delivery, logger.NewNopLogger())

	require.NoError(t, svc.Start(context.Background()))
	assert.Equal(t, "events.POLICY_GENERATED", sub.subject)

	require.NoError(t, sub.handler(context.Background(), events.NewPolicyGenerated("u1", "Acme", 100, time.Now())))
	assert.Equal(t, "u1", delivery.userID)
	assert.Equal(t, "The policy for Acme is ready.", delivery.notice["message"])

	delivery.userID = ""
	require.NoError(t, sub.handler(context.Background(), events.BaseEvent{Type: events.TypePolicyGenerated, Data: map[string]interface{}{}}))
	assert.Empty(t, delivery.userID)
}
