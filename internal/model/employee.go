package model

import (
	"time"

	"github.com/google/uuid"
)

// Employee roles.
const (
	RoleCashier = "cashier"
	RoleManager = "manager"
	RoleChef    = "chef"
	RoleWaiter  = "waiter"
	RoleCleaner = "cleaner"
	RoleAdmin   = "admin"
)

// Employee is owned by the staff-management collaborator; the register core
// only reads it to validate managers and to label servers.
type Employee struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string     `gorm:"not null"`
	Email     *string
	Phone     *string
	Role      string     `gorm:"type:varchar(20);not null;index"`
	BranchID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Account is a login bound to an employee. Capabilities holds names from
// the access package; the token issuer copies them into the JWT.
type Account struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	EmployeeID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	BusinessID   *uuid.UUID `gorm:"type:uuid;index"`
	Capabilities []string   `gorm:"type:jsonb;serializer:json"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
