package ports

import (
	"context"

	"github.com/scenictrip/backend/internal/domain"
)

// AttractionCache is a best-effort read cache in front of the attraction read
// endpoints. Misses and backend failures both report !ok; implementations
// must never fail a request because the cache is down.
type AttractionCache interface {
	GetDetail(ctx context.Context, id int64) (*domain.AttractionDetail, bool)
	SetDetail(ctx context.Context, detail *domain.AttractionDetail)
	GetList(ctx context.Context) ([]domain.AttractionDetail, bool)
	SetList(ctx context.Context, items []domain.AttractionDetail)

	// Invalidate drops the cached detail for one attraction together with the
	// cached list. id <= 0 drops the list only.
	Invalidate(ctx context.Context, id int64)
}
