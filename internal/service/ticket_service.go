package service

import (
	"context"
	"errors"
	"time"

	"github.com/scenictrip/backend/internal/domain"
	"github.com/scenictrip/backend/internal/repository/ports"
)

var (
	ErrTicketDayNotFound   = errors.New("no tickets exist for that date")
	ErrTicketDayExists     = errors.New("tickets already exist for that date")
	ErrRemainingOutOfRange = errors.New("remaining tickets out of range")
)

type TicketService struct {
	tickets     ports.TicketRepository
	attractions ports.AttractionRepository
	cache       ports.AttractionCache
}

func NewTicketService(ticketRepo ports.TicketRepository, attractionRepo ports.AttractionRepository, cache ports.AttractionCache) *TicketService {
	return &TicketService{
		tickets:     ticketRepo,
		attractions: attractionRepo,
		cache:       cache,
	}
}

// CreateDay opens a fresh ticket day with the full allocation remaining.
func (s *TicketService) CreateDay(ctx context.Context, attractionID int64, date time.Time, total int) (*domain.TicketDay, error) {
	if total < 0 {
		return nil, ErrTotalNegative
	}
	if err := s.requireAttraction(ctx, attractionID); err != nil {
		return nil, err
	}

	day, err := s.tickets.CreateDay(ctx, attractionID, domain.NormalizeDate(date), total)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrTicketDayExists
		}
		return nil, err
	}
	s.cache.Invalidate(ctx, attractionID)
	return day, nil
}

func (s *TicketService) GetDay(ctx context.Context, attractionID int64, date time.Time) (*domain.TicketDay, error) {
	day, err := s.tickets.FindDay(ctx, attractionID, domain.NormalizeDate(date))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTicketDayNotFound
		}
		return nil, err
	}
	return day, nil
}

func (s *TicketService) ListDays(ctx context.Context, attractionID int64) ([]domain.TicketDay, error) {
	if err := s.requireAttraction(ctx, attractionID); err != nil {
		return nil, err
	}
	return s.tickets.ListByAttraction(ctx, attractionID)
}

// SetRemaining corrects the remaining count of one day. Flow is recomputed so
// the ledger keeps balancing against the total.
func (s *TicketService) SetRemaining(ctx context.Context, attractionID int64, date time.Time, remaining int) (*domain.TicketDay, error) {
	if remaining < 0 {
		return nil, ErrRemainingOutOfRange
	}

	day, err := s.tickets.UpdateRemaining(ctx, attractionID, domain.NormalizeDate(date), remaining)
	if err != nil {
		if isNotFound(err) {
			// The update matches nothing both when the day is absent and when
			// remaining exceeds the total; look the day up to tell them apart.
			if _, findErr := s.tickets.FindDay(ctx, attractionID, domain.NormalizeDate(date)); findErr != nil {
				return nil, ErrTicketDayNotFound
			}
			return nil, ErrRemainingOutOfRange
		}
		return nil, err
	}
	s.cache.Invalidate(ctx, attractionID)
	return day, nil
}

// ReplaceDay resets the day to a new total with nothing consumed.
func (s *TicketService) ReplaceDay(ctx context.Context, attractionID int64, date time.Time, newTotal int) (*domain.TicketDay, error) {
	if newTotal < 0 {
		return nil, ErrTotalNegative
	}

	day, err := s.tickets.ReplaceDay(ctx, attractionID, domain.NormalizeDate(date), newTotal)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTicketDayNotFound
		}
		return nil, err
	}
	s.cache.Invalidate(ctx, attractionID)
	return day, nil
}

// DeleteDay removes the day's ledger row. Reservations held against the day
// are flipped to CANCELLED rather than deleted.
func (s *TicketService) DeleteDay(ctx context.Context, attractionID int64, date time.Time) error {
	if err := s.tickets.DeleteDay(ctx, attractionID, domain.NormalizeDate(date)); err != nil {
		if errors.Is(err, ports.ErrTicketDayMissing) {
			return ErrTicketDayNotFound
		}
		return err
	}
	s.cache.Invalidate(ctx, attractionID)
	return nil
}

// RegenerateWeek discards the attraction's ticket days and reservations and
// seeds a fresh week starting today.
func (s *TicketService) RegenerateWeek(ctx context.Context, attractionID int64, total int) ([]domain.TicketDay, error) {
	if total < 0 {
		return nil, ErrTotalNegative
	}

	days, err := s.tickets.RegenerateWindow(ctx, attractionID, total)
	if err != nil {
		if errors.Is(err, ports.ErrAttractionMissing) {
			return nil, ErrAttractionNotFound
		}
		return nil, err
	}
	s.cache.Invalidate(ctx, attractionID)
	return days, nil
}

func (s *TicketService) requireAttraction(ctx context.Context, attractionID int64) error {
	if _, err := s.attractions.FindByID(ctx, attractionID); err != nil {
		if isNotFound(err) {
			return ErrAttractionNotFound
		}
		return err
	}
	return nil
}
