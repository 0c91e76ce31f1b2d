package mapper

import (
	"encoding/json"
	"time"

	"nexus-rag-be/internal/entity"
	"nexus-rag-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(e *model.Document) *entity.Document {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	var meta map[string]interface{}
	if len(e.Meta) > 0 {
		_ = json.Unmarshal(e.Meta, &meta)
	}

	return &entity.Document{
		Id:        e.Id,
		FileName:  e.FileName,
		FileType:  e.FileType,
		Meta:      meta,
		CreatedAt: e.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: e.DeletedAt.Valid,
	}
}

func (m *DocumentMapper) ToModel(e *entity.Document) *model.Document {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	var meta datatypes.JSON
	if e.Meta != nil {
		if raw, err := json.Marshal(e.Meta); err == nil {
			meta = raw
		}
	}

	return &model.Document{
		Id:        e.Id,
		FileName:  e.FileName,
		FileType:  e.FileType,
		Meta:      meta,
		CreatedAt: e.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}
