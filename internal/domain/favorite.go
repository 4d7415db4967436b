package domain

import (
	"time"

	"github.com/lib/pq"
)

type Favorite struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	AttractionID int64     `db:"attraction_id" json:"attraction_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// FavoriteAttraction is a favorited attraction joined with its display fields
// for the per-user favorites listing.
type FavoriteAttraction struct {
	AttractionID int64          `db:"attraction_id" json:"id"`
	Name         string         `db:"name" json:"name"`
	ImageURL     *string        `db:"image_url" json:"image_url,omitempty"`
	Description  *string        `db:"description" json:"description,omitempty"`
	Category     *string        `db:"category" json:"category,omitempty"`
	Tags         pq.StringArray `db:"tags" json:"tags"`
	SavedAt      time.Time      `db:"saved_at" json:"saved_at"`
}
