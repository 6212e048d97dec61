package types

import "time"

// Logistics captures the delivery arrangement attached to an order. Stored as
// a jsonb document; every field is optional until fulfillment fills it in.
type Logistics struct {
	DeliveryDate     *time.Time `json:"delivery_date,omitempty"`
	DeliveryTime     string     `json:"delivery_time,omitempty"`
	DeliveryLocation string     `json:"delivery_location,omitempty"`
	DriverName       string     `json:"driver_name,omitempty"`
	DeliveryPhotoRef string     `json:"delivery_photo_ref,omitempty"`
	Instructions     string     `json:"instructions,omitempty"`
	Notes            []string   `json:"notes,omitempty"`
}
