package service

import (
	"context"
	"fmt"

	"rmf-policy-be/internal/pkg/logger"
	"rmf-policy-be/pkg/events"
	pktNats "rmf-policy-be/pkg/nats"
)

// NotificationDelivery pushes real-time notices to a user's open
// connections. Implemented by the websocket hub.
type NotificationDelivery interface {
	Send(userID string, notice map[string]interface{})
}

// EventSubscriber is satisfied by *pktNats.Subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

// NotificationService forwards POLICY_GENERATED events from the bus to the
// user's websocket clients, on whichever instance holds the connection.
type NotificationService struct {
	subscriber EventSubscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub EventSubscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

func (s *NotificationService) Start(ctx context.Context) error {
	subject := pktNats.Subject(events.TypePolicyGenerated)
	if err := s.subscriber.Subscribe(ctx, subject, "policy-notifier", s.handleEvent); err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	s.logger.Info("NotificationService", "Listening for generated policies", map[string]interface{}{
		"subject": subject,
	})
	return nil
}

func (s *NotificationService) handleEvent(_ context.Context, event events.Event) error {
	data := event.Payload()
	userID := events.StringField(data, "user_id")
	if userID == "" {
		s.logger.Warn("NotificationService", "Event without user_id", map[string]interface{}{
			"type": event.EventType(),
		})
		return nil
	}

	message := "Your policy is ready."
	if org := events.StringField(data, "organization_name"); org != "" {
		message = fmt.Sprintf("The policy for %s is ready.", org)
	}

	s.delivery.Send(userID, map[string]interface{}{
		"type":        event.EventType(),
		"message":     message,
		"occurred_at": event.Timestamp(),
	})
	return nil
}
