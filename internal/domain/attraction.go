package domain

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// TagDelimiter is the full-width comma used when clients submit tags as a
// single string instead of an array.
const TagDelimiter = "，"

type Attraction struct {
	ID          int64          `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	ImageURL    *string        `db:"image_url" json:"image_url,omitempty"`
	Description *string        `db:"description" json:"description,omitempty"`
	Category    *string        `db:"category" json:"category,omitempty"`
	Tags        pq.StringArray `db:"tags" json:"tags"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// AttractionFields carries the mutable attraction attributes for create and
// update operations. Tags are already normalized to their array form.
type AttractionFields struct {
	Name        string
	ImageURL    *string
	Description *string
	Category    *string
	Tags        []string
}

// AttractionDetail joins an attraction with its ticket-day and engagement
// children for read endpoints.
type AttractionDetail struct {
	Attraction
	Tickets    []TicketDay `json:"tickets"`
	Engagement Engagement  `json:"engagement"`
}

// SplitTags normalizes tag input that arrived as one delimited string. Empty
// segments and surrounding whitespace are dropped.
func SplitTags(raw string) []string {
	parts := strings.Split(raw, TagDelimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
