package pincodes

import "time"

type Pincode struct {
	ID           int64      `json:"id"`
	Code         string     `json:"code"`
	CityID       int64      `json:"city_id"`
	CODAvailable bool       `json:"cod_available"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}
