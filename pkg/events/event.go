package events

import (
	"context"
	"time"
)

const (
	TypeTurnRecorded    = "TURN_RECORDED"
	TypePolicyGenerated = "POLICY_GENERATED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "TURN_RECORDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Publisher delivers events to a bus. Publishing is best effort: callers
// log failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// TurnRecord is the payload of TURN_RECORDED.
type TurnRecord struct {
	UserID        string
	Role          string
	Content       string
	Mode          string
	Compliance    string
	QuestionIndex int
	Title         string
}

func NewTurnRecorded(r TurnRecord, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeTurnRecorded,
		Data: map[string]interface{}{
			"user_id":        r.UserID,
			"role":           r.Role,
			"content":        r.Content,
			"mode":           r.Mode,
			"compliance":     r.Compliance,
			"question_index": r.QuestionIndex,
			"title":          r.Title,
		},
		OccurredAt: at,
	}
}

func NewPolicyGenerated(userID, orgName string, length int, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypePolicyGenerated,
		Data: map[string]interface{}{
			"user_id":           userID,
			"organization_name": orgName,
			"length":            length,
		},
		OccurredAt: at,
	}
}

// StringField reads a string from a payload, "" when absent.
func StringField(data map[string]interface{}, key string) string {
	s, _ := data[key].(string)
	return s
}

// IntField reads a number from a payload that may have been through JSON.
func IntField(data map[string]interface{}, key string, fallback int) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}
