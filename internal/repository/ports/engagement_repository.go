package ports

import (
	"context"

	"github.com/scenictrip/backend/internal/domain"
)

type EngagementRepository interface {
	Get(ctx context.Context, attractionID int64) (*domain.Engagement, error)

	// Increment bumps one counter by one and returns the updated row.
	// Returns ErrEngagementMissing when no row exists for the attraction.
	Increment(ctx context.Context, kind domain.EngagementKind, attractionID int64) (*domain.Engagement, error)

	// Decrement lowers one counter by one, refusing to go below zero.
	// Outcomes: ErrEngagementMissing, ErrCounterAtZero.
	Decrement(ctx context.Context, kind domain.EngagementKind, attractionID int64) (*domain.Engagement, error)
}
