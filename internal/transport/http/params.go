package http

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/scenictrip/backend/internal/domain"
)

// parseID reads a positive integer route parameter.
func parseID(c echo.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return id, nil
}

// parseDate accepts YYYY-MM-DD or an RFC3339 timestamp and normalizes to UTC
// midnight.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("date is required")
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return domain.NormalizeDate(t), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return domain.NormalizeDate(t), nil
	}
	return time.Time{}, errors.New("date must be YYYY-MM-DD or RFC3339")
}
