package staff

import (
	"time"

	"github.com/shipdeck/shipdeck/internal/authz"
)

// Member is a restricted staff sub-user of a panel. Members log in
// through the same panel login as primary accounts; their role string
// is the panel's staff marker, which switches permission checking
// from implicit-allow to grant matching.
type Member struct {
	ID        int64       `json:"id"`
	Panel     authz.Panel `json:"panel"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}
