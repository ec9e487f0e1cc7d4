// Package orders exposes the order book the admin and supplier panels
// work from. Routes are grant-gated per panel; the Order Permission
// screen in internal/staff manages who holds those grants.
package orders

import "time"

type Order struct {
	ID            int64     `json:"id"`
	Number        string    `json:"number"`
	SupplierID    int64     `json:"supplier_id"`
	DropshipperID int64     `json:"dropshipper_id"`
	Status        string    `json:"status"`
	Total         float64   `json:"total"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// KnownStatus reports whether s is a member of the order lifecycle.
func KnownStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// terminal statuses close the order; no further transitions allowed.
func terminal(s string) bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Scope restricts queries to one supplier's orders. A zero SupplierID
// means unrestricted, which only the admin panel gets.
type Scope struct {
	SupplierID int64
}
