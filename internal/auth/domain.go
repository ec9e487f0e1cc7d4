package auth

import (
	"time"

	"github.com/shipdeck/shipdeck/internal/authz"
)

// Account represents a panel login account: a primary principal or a
// restricted staff sub-user, distinguished by Role.
type Account struct {
	ID           int64
	Panel        authz.Panel
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
