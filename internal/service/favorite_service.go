package service

import (
	"context"
	"errors"

	"github.com/scenictrip/backend/internal/domain"
	"github.com/scenictrip/backend/internal/repository/ports"
)

var (
	ErrFavoriteAlreadyExists = errors.New("attraction already saved to favorites")
	ErrFavoriteNotFound      = errors.New("favorite not found")
)

type FavoriteService struct {
	favorites   ports.FavoriteRepository
	attractions ports.AttractionRepository
	cache       ports.AttractionCache
}

func NewFavoriteService(favoriteRepo ports.FavoriteRepository, attractionRepo ports.AttractionRepository, cache ports.AttractionCache) *FavoriteService {
	return &FavoriteService{
		favorites:   favoriteRepo,
		attractions: attractionRepo,
		cache:       cache,
	}
}

// Save favorites the attraction for the user and bumps its favorites counter.
func (s *FavoriteService) Save(ctx context.Context, userID, attractionID int64) (*domain.Favorite, error) {
	if _, err := s.attractions.FindByID(ctx, attractionID); err != nil {
		if isNotFound(err) {
			return nil, ErrAttractionNotFound
		}
		return nil, err
	}

	favorite, err := s.favorites.Add(ctx, userID, attractionID)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrFavoriteExists):
			return nil, ErrFavoriteAlreadyExists
		case errors.Is(err, ports.ErrEngagementMissing):
			return nil, ErrAttractionNotFound
		default:
			return nil, err
		}
	}
	s.cache.Invalidate(ctx, attractionID)
	return favorite, nil
}

// Remove unfavorites the attraction and lowers its favorites counter.
func (s *FavoriteService) Remove(ctx context.Context, userID, attractionID int64) error {
	if err := s.favorites.Remove(ctx, userID, attractionID); err != nil {
		switch {
		case errors.Is(err, ports.ErrFavoriteMissing):
			return ErrFavoriteNotFound
		case errors.Is(err, ports.ErrEngagementMissing):
			return ErrAttractionNotFound
		default:
			return err
		}
	}
	s.cache.Invalidate(ctx, attractionID)
	return nil
}

func (s *FavoriteService) IsFavorited(ctx context.Context, userID, attractionID int64) (bool, error) {
	return s.favorites.Exists(ctx, userID, attractionID)
}

func (s *FavoriteService) ListByUser(ctx context.Context, userID int64) ([]domain.FavoriteAttraction, error) {
	return s.favorites.ListByUser(ctx, userID)
}
