package service

import (
	"context"
	"errors"

	"github.com/scenictrip/backend/internal/domain"
	"github.com/scenictrip/backend/internal/repository/ports"
)

var (
	ErrUnknownCounter = errors.New("unknown engagement counter")
	ErrCounterAtZero  = errors.New("counter is already zero")
)

type EngagementService struct {
	engagements ports.EngagementRepository
	cache       ports.AttractionCache
}

func NewEngagementService(engagementRepo ports.EngagementRepository, cache ports.AttractionCache) *EngagementService {
	return &EngagementService{
		engagements: engagementRepo,
		cache:       cache,
	}
}

func (s *EngagementService) Get(ctx context.Context, attractionID int64) (*domain.Engagement, error) {
	engagement, err := s.engagements.Get(ctx, attractionID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAttractionNotFound
		}
		return nil, err
	}
	return engagement, nil
}

func (s *EngagementService) Increment(ctx context.Context, kind domain.EngagementKind, attractionID int64) (*domain.Engagement, error) {
	if !kind.Valid() {
		return nil, ErrUnknownCounter
	}

	engagement, err := s.engagements.Increment(ctx, kind, attractionID)
	if err != nil {
		if errors.Is(err, ports.ErrEngagementMissing) {
			return nil, ErrAttractionNotFound
		}
		return nil, err
	}
	s.cache.Invalidate(ctx, attractionID)
	return engagement, nil
}

func (s *EngagementService) Decrement(ctx context.Context, kind domain.EngagementKind, attractionID int64) (*domain.Engagement, error) {
	if !kind.Valid() {
		return nil, ErrUnknownCounter
	}

	engagement, err := s.engagements.Decrement(ctx, kind, attractionID)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrEngagementMissing):
			return nil, ErrAttractionNotFound
		case errors.Is(err, ports.ErrCounterAtZero):
			return nil, ErrCounterAtZero
		default:
			return nil, err
		}
	}
	s.cache.Invalidate(ctx, attractionID)
	return engagement, nil
}
