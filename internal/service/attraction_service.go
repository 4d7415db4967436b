package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/scenictrip/backend/internal/domain"
	"github.com/scenictrip/backend/internal/repository/ports"
)

var (
	ErrAttractionNotFound = errors.New("attraction not found")
	ErrNameRequired       = errors.New("attraction name is required")
	ErrTotalNegative      = errors.New("total tickets must not be negative")
	ErrStorageDisabled    = errors.New("image storage is not configured")
)

type AttractionService struct {
	attractions ports.AttractionRepository
	cache       ports.AttractionCache
	storage     ports.ObjectStorage
	imageBucket string
}

func NewAttractionService(attractionRepo ports.AttractionRepository, cache ports.AttractionCache, storage ports.ObjectStorage, imageBucket string) *AttractionService {
	return &AttractionService{
		attractions: attractionRepo,
		cache:       cache,
		storage:     storage,
		imageBucket: imageBucket,
	}
}

// Create inserts the attraction together with its zeroed engagement row and,
// when seedTotal > 0, a seeded week of ticket days.
func (s *AttractionService) Create(ctx context.Context, fields domain.AttractionFields, seedTotal int) (*domain.Attraction, *domain.Engagement, error) {
	fields.Name = strings.TrimSpace(fields.Name)
	if fields.Name == "" {
		return nil, nil, ErrNameRequired
	}
	if seedTotal < 0 {
		return nil, nil, ErrTotalNegative
	}

	attraction, engagement, err := s.attractions.Create(ctx, fields, seedTotal)
	if err != nil {
		return nil, nil, err
	}
	s.cache.Invalidate(ctx, 0)
	return attraction, engagement, nil
}

func (s *AttractionService) Update(ctx context.Context, id int64, fields domain.AttractionFields) (*domain.Attraction, error) {
	attraction, err := s.attractions.Update(ctx, id, fields)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAttractionNotFound
		}
		return nil, err
	}
	s.cache.Invalidate(ctx, id)
	return attraction, nil
}

func (s *AttractionService) Delete(ctx context.Context, id int64) error {
	if err := s.attractions.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, ports.ErrAttractionMissing) {
			return ErrAttractionNotFound
		}
		return err
	}
	s.cache.Invalidate(ctx, id)
	return nil
}

func (s *AttractionService) List(ctx context.Context) ([]domain.AttractionDetail, error) {
	if items, ok := s.cache.GetList(ctx); ok {
		return items, nil
	}

	items, err := s.attractions.ListDetails(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetList(ctx, items)
	return items, nil
}

func (s *AttractionService) GetByID(ctx context.Context, id int64) (*domain.AttractionDetail, error) {
	if detail, ok := s.cache.GetDetail(ctx, id); ok {
		return detail, nil
	}

	detail, err := s.attractions.GetDetail(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAttractionNotFound
		}
		return nil, err
	}
	s.cache.SetDetail(ctx, detail)
	return detail, nil
}

// UploadImage stores the image under a random object name and persists the
// resulting URL on the attraction.
func (s *AttractionService) UploadImage(ctx context.Context, id int64, filename, contentType string, reader io.Reader, size int64) (*domain.Attraction, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	if _, err := s.attractions.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return nil, ErrAttractionNotFound
		}
		return nil, err
	}

	objectName := fmt.Sprintf("attractions/%d/%s%s", id, uuid.NewString(), path.Ext(filename))
	url, err := s.storage.Upload(ctx, s.imageBucket, objectName, contentType, reader, size)
	if err != nil {
		return nil, err
	}

	attraction, err := s.attractions.SetImageURL(ctx, id, url)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrAttractionNotFound
		}
		return nil, err
	}
	s.cache.Invalidate(ctx, id)
	return attraction, nil
}
