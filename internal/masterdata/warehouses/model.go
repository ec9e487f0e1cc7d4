package warehouses

import "time"

type Warehouse struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Address      string     `json:"address"`
	CityID       int64      `json:"city_id"`
	ContactPhone string     `json:"contact_phone"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}
