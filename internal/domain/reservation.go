package domain

import "time"

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "ACTIVE"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// Reservation records one user's booking against a ticket day. At most one
// ACTIVE reservation may exist per (user, attraction, date); the store
// enforces this with a partial unique index.
type Reservation struct {
	ID           int64             `db:"id" json:"id"`
	UserID       int64             `db:"user_id" json:"user_id"`
	AttractionID int64             `db:"attraction_id" json:"attraction_id"`
	Date         time.Time         `db:"date" json:"date"`
	Status       ReservationStatus `db:"status" json:"status"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
}

// ReservationDetail is a reservation joined with attraction display fields for
// the per-user listing.
type ReservationDetail struct {
	ID             int64             `db:"id" json:"id"`
	AttractionID   int64             `db:"attraction_id" json:"attraction_id"`
	AttractionName string            `db:"attraction_name" json:"attraction_name"`
	ImageURL       *string           `db:"image_url" json:"image_url,omitempty"`
	Date           time.Time         `db:"date" json:"date"`
	Status         ReservationStatus `db:"status" json:"status"`
}
