package contract

import (
	"context"

	"rmf-policy-be/internal/entity"
)

type TranscriptRepository interface {
	Create(ctx context.Context, entry *entity.TranscriptEntry) error
	FindByUserId(ctx context.Context, userId string, limit int) ([]*entity.TranscriptEntry, error)
}
