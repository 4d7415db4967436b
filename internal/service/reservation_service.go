package service

import (
	"context"
	"errors"
	"time"

	"github.com/scenictrip/backend/internal/domain"
	"github.com/scenictrip/backend/internal/repository/ports"
)

var (
	ErrTicketsExhausted         = errors.New("tickets sold out for that date")
	ErrReservationAlreadyExists = errors.New("reservation already exists for that date")
	ErrReservationNotFound      = errors.New("reservation not found")
)

type ReservationService struct {
	reservations ports.ReservationRepository
	cache        ports.AttractionCache
}

func NewReservationService(reservationRepo ports.ReservationRepository, cache ports.AttractionCache) *ReservationService {
	return &ReservationService{
		reservations: reservationRepo,
		cache:        cache,
	}
}

// Reserve books one ticket for the user on the given date. The repository
// locks the ticket-day row, so concurrent reservations against the last
// ticket resolve to exactly one winner.
func (s *ReservationService) Reserve(ctx context.Context, userID, attractionID int64, date time.Time) (*domain.Reservation, error) {
	reservation, err := s.reservations.Reserve(ctx, userID, attractionID, domain.NormalizeDate(date))
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrAttractionMissing):
			return nil, ErrAttractionNotFound
		case errors.Is(err, ports.ErrTicketDayMissing):
			return nil, ErrTicketDayNotFound
		case errors.Is(err, ports.ErrTicketsExhausted):
			return nil, ErrTicketsExhausted
		case errors.Is(err, ports.ErrReservationExists):
			return nil, ErrReservationAlreadyExists
		default:
			return nil, err
		}
	}
	s.cache.Invalidate(ctx, attractionID)
	return reservation, nil
}

// Cancel releases the user's reservation and returns the ticket to the pool.
func (s *ReservationService) Cancel(ctx context.Context, userID, attractionID int64, date time.Time) error {
	if err := s.reservations.Cancel(ctx, userID, attractionID, domain.NormalizeDate(date)); err != nil {
		if errors.Is(err, ports.ErrReservationMissing) {
			return ErrReservationNotFound
		}
		return err
	}
	s.cache.Invalidate(ctx, attractionID)
	return nil
}

func (s *ReservationService) ListByUser(ctx context.Context, userID int64) ([]domain.ReservationDetail, error) {
	return s.reservations.ListByUser(ctx, userID)
}
