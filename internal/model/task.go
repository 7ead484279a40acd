package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the task lifecycle state. Tasks are never physically removed;
// delete and restore flip between the two values.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusDeleted
}

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string    `gorm:"size:255;not null"`
	Description string    `gorm:"not null"`
	AssignTo    string    `gorm:"not null"` // comma-delimited user ids
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null;index"`
	StartDate   time.Time `gorm:"type:date;not null"`
	EndDate     time.Time `gorm:"type:date;not null"`
	Flag        string    `gorm:"not null"`
	Priority    string    `gorm:"not null"`
	Status      Status    `gorm:"type:varchar(16);not null;default:'active'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Creator User `gorm:"foreignKey:CreatedBy"`
}

// AssigneeIDs parses the delimited assignee column, preserving insertion
// order. Malformed entries are skipped; the column is only ever written
// from validated payloads.
func (t *Task) AssigneeIDs() []uuid.UUID {
	if t.AssignTo == "" {
		return nil
	}
	parts := strings.Split(t.AssignTo, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// JoinAssignees encodes an assignee set for storage.
func JoinAssignees(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}
