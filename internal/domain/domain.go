package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleVet          Role = "vet"
	RoleGroomer      Role = "groomer"
	RoleReceptionist Role = "receptionist"
	RoleCustomer     Role = "customer"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleVet, RoleGroomer, RoleReceptionist, RoleCustomer:
		return true
	}
	return false
}

// IsStaff reports whether the role may perform walk-in bookings and other
// front-desk operations.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleVet || r == RoleGroomer || r == RoleReceptionist
}

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null"`
	FirstName    string `gorm:"column:first_name;type:varchar(100);not null"`
	LastName     string `gorm:"column:last_name;type:varchar(100);not null"`
	Role         Role   `gorm:"column:role;type:varchar(30);not null;index"`

	// For vet/groomer roles, links to their provider roster identity
	ProviderID *uuid.UUID `gorm:"column:provider_id;type:uuid;index"`
	// For customer role, links to their customer record
	CustomerID *uuid.UUID `gorm:"column:customer_id;type:uuid;index"`

	IsActive    bool       `gorm:"column:is_active;default:true;index"`
	LastLoginAt *time.Time `gorm:"column:last_login_at"`
}

func (User) TableName() string {
	return "users"
}

type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionRead   AuditAction = "read"
	ActionUpdate AuditAction = "update"
	ActionDelete AuditAction = "delete"
	ActionLogin  AuditAction = "login"
)

type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	// Who
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	UserRole  Role      `gorm:"column:user_role;type:varchar(30);not null"`
	IPAddress string    `gorm:"column:ip_address;type:varchar(45)"` // Supports IPv6

	// What
	Action       AuditAction `gorm:"column:action;type:varchar(20);not null;index"`
	ResourceType string      `gorm:"column:resource_type;type:varchar(50);not null;index"`
	ResourceID   string      `gorm:"column:resource_id;type:varchar(50);index"`

	RequestID string `gorm:"column:request_id;type:varchar(50);index"`
	Changes   string `gorm:"column:changes;type:text"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"` // Always "Bearer"
}

type Claims struct {
	UserID     uuid.UUID  `json:"sub"`
	Email      string     `json:"email"`
	Role       Role       `json:"role"`
	ProviderID *uuid.UUID `json:"provider_id,omitempty"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
}
