package ports

import (
	"context"
	"time"

	"github.com/scenictrip/backend/internal/domain"
)

// ReservationRepository owns reservation rows and the paired ticket-day
// counter mutations. Reserve and Cancel are single transactions that lock the
// ticket-day row; the counter never moves without its reservation row and
// vice versa.
type ReservationRepository interface {
	// Reserve books one ticket: it locks the ticket day, verifies capacity,
	// inserts an ACTIVE reservation and decrements remaining / increments
	// flow. Outcomes: ErrAttractionMissing, ErrTicketDayMissing,
	// ErrTicketsExhausted, ErrReservationExists.
	Reserve(ctx context.Context, userID, attractionID int64, date time.Time) (*domain.Reservation, error)

	// Cancel deletes the user's reservation for the (attraction, date) pair
	// and restores the ticket-day counters in the same transaction. Returns
	// ErrReservationMissing when no active reservation matches.
	Cancel(ctx context.Context, userID, attractionID int64, date time.Time) error

	// ListByUser returns the user's reservations joined with attraction
	// display fields, oldest first. No rows is an empty slice, not an error.
	ListByUser(ctx context.Context, userID int64) ([]domain.ReservationDetail, error)
}
