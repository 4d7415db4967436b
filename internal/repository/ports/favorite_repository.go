package ports

import (
	"context"

	"github.com/scenictrip/backend/internal/domain"
)

// FavoriteRepository tracks which (user, attraction) pairs are favorited and
// keeps the favorites counter on the engagement row synchronized. Add and
// Remove mutate both tables in one transaction.
type FavoriteRepository interface {
	// Add inserts the relation and increments the favorites counter.
	// Outcomes: ErrFavoriteExists, ErrEngagementMissing.
	Add(ctx context.Context, userID, attractionID int64) (*domain.Favorite, error)

	// Remove deletes the relation and decrements the favorites counter.
	// Outcomes: ErrFavoriteMissing, ErrEngagementMissing.
	Remove(ctx context.Context, userID, attractionID int64) error

	Exists(ctx context.Context, userID, attractionID int64) (bool, error)

	// ListByUser returns the user's favorited attractions with display
	// fields, newest first. No rows is an empty slice, not an error.
	ListByUser(ctx context.Context, userID int64) ([]domain.FavoriteAttraction, error)
}
