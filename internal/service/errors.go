package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrForbidden          = errors.New("forbidden: insufficient permissions")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

type AuditEntry struct {
	UserID       uuid.UUID
	UserRole     string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	RequestID    string
	Changes      string
}
