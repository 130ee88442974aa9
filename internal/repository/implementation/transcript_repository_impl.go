package implementation

import (
	"context"

	"rmf-policy-be/internal/entity"
	"rmf-policy-be/internal/mapper"
	"rmf-policy-be/internal/model"
	"rmf-policy-be/internal/repository/contract"
	"rmf-policy-be/internal/repository/specification"

	"gorm.io/gorm"
)

type TranscriptRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TranscriptMapper
}

func NewTranscriptRepository(db *gorm.DB) contract.TranscriptRepository {
	return &TranscriptRepositoryImpl{
		db:     db,
		mapper: mapper.NewTranscriptMapper(),
	}
}

func (r *TranscriptRepositoryImpl) Create(ctx context.Context, entry *entity.TranscriptEntry) error {
	m, err := r.mapper.ToModel(entry)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *TranscriptRepositoryImpl) FindByUserId(ctx context.Context, userId string, limit int) ([]*entity.TranscriptEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	var models []*model.TranscriptEntry
	err := specification.Apply(r.db.WithContext(ctx),
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at"},
		specification.Pagination{Limit: limit},
	).Find(&models).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.TranscriptEntry, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
