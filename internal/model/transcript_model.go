package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TranscriptEntry struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        string         `gorm:"type:varchar(255);not null;index"`
	Role          string         `gorm:"type:varchar(50);not null"`
	Content       string         `gorm:"type:text;not null"`
	Mode          string         `gorm:"type:varchar(20)"`
	Compliance    string         `gorm:"type:varchar(20)"`
	QuestionIndex int            `gorm:"default:-1"`
	Metadata      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index"`
}

func (TranscriptEntry) TableName() string {
	return "transcript_entries"
}
