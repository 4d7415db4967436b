package ports

import (
	"context"

	"github.com/scenictrip/backend/internal/domain"
)

// AttractionRepository owns the attraction lifecycle. Create and Delete are
// transactional: Create inserts the attraction, its zeroed engagement row and
// an optional seeded ticket window together; Delete cascades over every
// dependent row in order before removing the attraction itself.
type AttractionRepository interface {
	// Create inserts the attraction with a zeroed engagement row. When
	// seedTotal > 0 it also seeds domain.TicketWindowDays consecutive ticket
	// days starting at today (UTC), each with seedTotal tickets. All inserts
	// commit together or not at all.
	Create(ctx context.Context, fields domain.AttractionFields, seedTotal int) (*domain.Attraction, *domain.Engagement, error)

	Update(ctx context.Context, id int64, fields domain.AttractionFields) (*domain.Attraction, error)

	// SetImageURL persists the stored object URL as the attraction image.
	SetImageURL(ctx context.Context, id int64, url string) (*domain.Attraction, error)

	// DeleteCascade removes, in one transaction, the attraction's engagement
	// row, ticket days, reservations and favorites, then the attraction.
	// Returns ErrAttractionMissing when the id does not resolve.
	DeleteCascade(ctx context.Context, id int64) error

	FindByID(ctx context.Context, id int64) (*domain.Attraction, error)
	GetDetail(ctx context.Context, id int64) (*domain.AttractionDetail, error)
	ListDetails(ctx context.Context) ([]domain.AttractionDetail, error)
}
