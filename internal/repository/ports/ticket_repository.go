package ports

import (
	"context"
	"time"

	"github.com/scenictrip/backend/internal/domain"
)

// TicketRepository owns the per-(attraction, date) capacity ledger. The
// reserve/release primitives that pair a counter mutation with a reservation
// row live on ReservationRepository so they can never run outside that
// transaction.
type TicketRepository interface {
	// CreateDay inserts a fresh ledger row with remaining = total and
	// flow = 0. A duplicate (attraction, date) surfaces as a unique
	// violation for the service to classify.
	CreateDay(ctx context.Context, attractionID int64, date time.Time, total int) (*domain.TicketDay, error)

	FindDay(ctx context.Context, attractionID int64, date time.Time) (*domain.TicketDay, error)
	ListByAttraction(ctx context.Context, attractionID int64) ([]domain.TicketDay, error)

	// UpdateRemaining corrects the remaining count of one day, recomputing
	// current_flow so the ledger invariant keeps holding.
	UpdateRemaining(ctx context.Context, attractionID int64, date time.Time, remaining int) (*domain.TicketDay, error)

	// ReplaceDay resets the day to total = remaining = newTotal, flow = 0.
	ReplaceDay(ctx context.Context, attractionID int64, date time.Time, newTotal int) (*domain.TicketDay, error)

	// DeleteDay flips every reservation for the day to CANCELLED and removes
	// the ledger row in one transaction. Returns ErrTicketDayMissing when the
	// day is absent.
	DeleteDay(ctx context.Context, attractionID int64, date time.Time) error

	// RegenerateWindow cancels all reservations for the attraction, drops its
	// ticket days and seeds a fresh domain.TicketWindowDays window starting
	// today, all in one transaction. Returns ErrAttractionMissing when the
	// attraction is absent.
	RegenerateWindow(ctx context.Context, attractionID int64, total int) ([]domain.TicketDay, error)
}
