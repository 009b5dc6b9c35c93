package syslogrepo

import (
	"time"
)

// SystemLog is one persisted log entry. Fields holds structured context as a
// JSON blob.
type SystemLog struct {
	ID        int64     `json:"id" db:"id" validate:"-"` // primary key
	Level     string    `json:"level" db:"level" validate:"required"`
	Message   string    `json:"message" db:"message" validate:"required"`
	Fields    string    `json:"fields" db:"fields" validate:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at" validate:"required"`
}
