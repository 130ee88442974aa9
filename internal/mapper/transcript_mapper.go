package mapper

import (
	"encoding/json"

	"rmf-policy-be/internal/entity"
	"rmf-policy-be/internal/model"

	"gorm.io/datatypes"
)

type TranscriptMapper struct{}

func NewTranscriptMapper() *TranscriptMapper {
	return &TranscriptMapper{}
}

func (m *TranscriptMapper) ToEntity(t *model.TranscriptEntry) *entity.TranscriptEntry {
	if t == nil {
		return nil
	}

	var metadata map[string]interface{}
	if len(t.Metadata) > 0 {
		_ = json.Unmarshal(t.Metadata, &metadata)
	}

	return &entity.TranscriptEntry{
		Id:            t.Id,
		UserId:        t.UserId,
		Role:          t.Role,
		Content:       t.Content,
		Mode:          t.Mode,
		Compliance:    t.Compliance,
		QuestionIndex: t.QuestionIndex,
		Metadata:      metadata,
		CreatedAt:     t.CreatedAt,
	}
}

func (m *TranscriptMapper) ToModel(t *entity.TranscriptEntry) (*model.TranscriptEntry, error) {
	if t == nil {
		return nil, nil
	}

	var metadata datatypes.JSON
	if t.Metadata != nil {
		raw, err := json.Marshal(t.Metadata)
		if err != nil {
			return nil, err
		}
		metadata = datatypes.JSON(raw)
	}

	return &model.TranscriptEntry{
		Id:            t.Id,
		UserId:        t.UserId,
		Role:          t.Role,
		Content:       t.Content,
		Mode:          t.Mode,
		Compliance:    t.Compliance,
		QuestionIndex: t.QuestionIndex,
		Metadata:      metadata,
		CreatedAt:     t.CreatedAt,
	}, nil
}
