package categories

import "time"

// Category represents a product category listed on the panels.
type Category struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	ImageURL  string     `json:"image_url,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
