package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/praktis/backend/internal/domain/activity"
)

// ActivityModel is the persistence model for activity log records.
// Activities are append-only and pruned by expiry; there is no version
// column.
type ActivityModel struct {
	ID           uuid.UUID         `gorm:"type:uuid;primary_key"`
	OwnerID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	UserID       uuid.UUID         `gorm:"type:uuid;not null"`
	Type         string            `gorm:"type:varchar(20);not null;index"`
	Action       string            `gorm:"type:varchar(100);not null"`
	Description  string            `gorm:"type:text"`
	Priority     activity.Priority `gorm:"type:varchar(20);not null;index"`
	RelatedID    *uuid.UUID        `gorm:"type:uuid"`
	RelatedModel string            `gorm:"type:varchar(50)"`
	Metadata     activity.Metadata `gorm:"type:jsonb"`
	CreatedAt    time.Time         `gorm:"not null;index"`
	ExpiresAt    time.Time         `gorm:"not null;index"`
}

func (ActivityModel) TableName() string {
	return "activities"
}

// ToDomain converts the persistence model to a domain Activity.
func (m *ActivityModel) ToDomain() *activity.Activity {
	return &activity.Activity{
		ID:           m.ID,
		OwnerID:      m.OwnerID,
		UserID:       m.UserID,
		Type:         m.Type,
		Action:       m.Action,
		Description:  m.Description,
		Priority:     m.Priority,
		RelatedID:    m.RelatedID,
		RelatedModel: m.RelatedModel,
		Metadata:     m.Metadata,
		CreatedAt:    m.CreatedAt,
		ExpiresAt:    m.ExpiresAt,
	}
}

// ActivityModelFromDomain creates a new persistence model from a
// domain Activity.
func ActivityModelFromDomain(a *activity.Activity) *ActivityModel {
	return &ActivityModel{
		ID:           a.ID,
		OwnerID:      a.OwnerID,
		UserID:       a.UserID,
		Type:         a.Type,
		Action:       a.Action,
		Description:  a.Description,
		Priority:     a.Priority,
		RelatedID:    a.RelatedID,
		RelatedModel: a.RelatedModel,
		Metadata:     a.Metadata,
		CreatedAt:    a.CreatedAt,
		ExpiresAt:    a.ExpiresAt,
	}
}
