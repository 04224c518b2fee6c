package activity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/praktis/backend/internal/domain/shared"
)

// Retention window for activity records
const retentionDays = 60

// Priority tags activities for dashboard filtering
type Priority string

const (
	PriorityInfo      Priority = "INFO"
	PriorityImportant Priority = "IMPORTANT"
	PriorityCritical  Priority = "CRITICAL"
)

// Activity categories
const (
	TypeTask    = "TASK"
	TypeClient  = "CLIENT"
	TypeBilling = "BILLING"
	TypePayment = "PAYMENT"
	TypeUser    = "USER"
)

// Metadata is a free-form JSONB payload attached to an activity
type Metadata map[string]interface{}

// Value implements driver.Valuer interface for GORM to store as JSONB
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Metadata: unsupported type")
	}

	if len(bytes) == 0 {
		*m = Metadata{}
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// Activity is one immutable audit record. Records expire after the
// retention window and are pruned by the scheduler; they are never
// updated after creation.
type Activity struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	UserID       uuid.UUID
	Type         string
	Action       string
	Description  string
	Priority     Priority
	RelatedID    *uuid.UUID
	RelatedModel string
	Metadata     Metadata
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// New creates an activity record with the retention expiry stamped
func New(ownerID, userID uuid.UUID, activityType, action, description string, priority Priority) (*Activity, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER_ID", "Owner ID cannot be empty")
	}
	if strings.TrimSpace(action) == "" {
		return nil, shared.NewDomainError("INVALID_ACTION", "Action cannot be empty")
	}
	if priority == "" {
		priority = PriorityInfo
	}

	now := time.Now()
	return &Activity{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		UserID:      userID,
		Type:        activityType,
		Action:      action,
		Description: description,
		Priority:    priority,
		Metadata:    Metadata{},
		CreatedAt:   now,
		ExpiresAt:   now.AddDate(0, 0, retentionDays),
	}, nil
}

// WithRelated links the activity to the record it describes
func (a *Activity) WithRelated(model string, id uuid.UUID) *Activity {
	a.RelatedModel = model
	a.RelatedID = &id
	return a
}

// WithMetadata attaches extra structured context
func (a *Activity) WithMetadata(metadata Metadata) *Activity {
	a.Metadata = metadata
	return a
}

// IsExpired reports whether the record has outlived its retention window
func (a *Activity) IsExpired(now time.Time) bool {
	return a.ExpiresAt.Before(now)
}
