package entity

import (
	"time"

	"github.com/google/uuid"
)

// TranscriptEntry is an archived conversation turn.
type TranscriptEntry struct {
	Id            uuid.UUID
	UserId        string
	Role          string
	Content       string
	Mode          string
	Compliance    string
	QuestionIndex int
	Metadata      map[string]interface{}
	CreatedAt     time.Time
}
