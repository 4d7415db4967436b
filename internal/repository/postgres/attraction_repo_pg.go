package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/scenictrip/backend/internal/domain"
	"github.com/scenictrip/backend/internal/repository/ports"
)

type AttractionRepository struct {
	db *sqlx.DB
}

func NewAttractionRepo(db *sqlx.DB) *AttractionRepository {
	return &AttractionRepository{db: db}
}

const attractionColumns = `id, name, image_url, description, category, tags, created_at`

func (r *AttractionRepository) Create(ctx context.Context, fields domain.AttractionFields, seedTotal int) (*domain.Attraction, *domain.Engagement, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertAttraction = `
		INSERT INTO attraction (name, image_url, description, category, tags)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + attractionColumns

	var attraction domain.Attraction
	err = tx.QueryRowxContext(ctx, insertAttraction,
		fields.Name, fields.ImageURL, fields.Description, fields.Category,
		pq.Array(fields.Tags),
	).StructScan(&attraction)
	if err != nil {
		return nil, nil, err
	}

	const insertEngagement = `
		INSERT INTO attraction_engagement (attraction_id, likes, shares, favorites)
		VALUES ($1, 0, 0, 0)
		RETURNING attraction_id, likes, shares, favorites
	`
	var engagement domain.Engagement
	err = tx.QueryRowxContext(ctx, insertEngagement, attraction.ID).StructScan(&engagement)
	if err != nil {
		return nil, nil, err
	}

	if seedTotal > 0 {
		if _, err = seedWindowTx(ctx, tx, attraction.ID, seedTotal, domain.NormalizeDate(time.Now())); err != nil {
			return nil, nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, err
	}
	return &attraction, &engagement, nil
}

func (r *AttractionRepository) Update(ctx context.Context, id int64, fields domain.AttractionFields) (*domain.Attraction, error) {
	const query = `
		UPDATE attraction
		SET name = COALESCE(NULLIF($2, ''), name),
		    image_url = COALESCE($3, image_url),
		    description = COALESCE($4, description),
		    category = COALESCE($5, category),
		    tags = COALESCE($6, tags)
		WHERE id = $1
		RETURNING ` + attractionColumns

	var attraction domain.Attraction
	err := r.db.QueryRowxContext(ctx, query, id,
		fields.Name, fields.ImageURL, fields.Description, fields.Category,
		pq.Array(fields.Tags),
	).StructScan(&attraction)
	if err != nil {
		return nil, err
	}
	return &attraction, nil
}

func (r *AttractionRepository) SetImageURL(ctx context.Context, id int64, url string) (*domain.Attraction, error) {
	const query = `
		UPDATE attraction
		SET image_url = $2
		WHERE id = $1
		RETURNING ` + attractionColumns

	var attraction domain.Attraction
	if err := r.db.QueryRowxContext(ctx, query, id, url).StructScan(&attraction); err != nil {
		return nil, err
	}
	return &attraction, nil
}

// DeleteCascade removes dependents in order (engagement, ticket days,
// reservations, favorites) before the attraction row itself, all in one
// transaction.
func (r *AttractionRepository) DeleteCascade(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var exists int64
	err = tx.GetContext(ctx, &exists, `SELECT id FROM attraction WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			err = ports.ErrAttractionMissing
		}
		return err
	}

	for _, stmt := range []string{
		`DELETE FROM attraction_engagement WHERE attraction_id = $1`,
		`DELETE FROM ticket_day WHERE attraction_id = $1`,
		`DELETE FROM reservation WHERE attraction_id = $1`,
		`DELETE FROM user_favorite WHERE attraction_id = $1`,
		`DELETE FROM attraction WHERE id = $1`,
	} {
		if _, err = tx.ExecContext(ctx, stmt, id); err != nil {
			return err
		}
	}

	err = tx.Commit()
	return err
}

func (r *AttractionRepository) FindByID(ctx context.Context, id int64) (*domain.Attraction, error) {
	const query = `SELECT ` + attractionColumns + ` FROM attraction WHERE id = $1`

	var attraction domain.Attraction
	if err := r.db.GetContext(ctx, &attraction, query, id); err != nil {
		return nil, err
	}
	return &attraction, nil
}

func (r *AttractionRepository) GetDetail(ctx context.Context, id int64) (*domain.AttractionDetail, error) {
	attraction, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := domain.AttractionDetail{Attraction: *attraction, Tickets: []domain.TicketDay{}}

	const ticketQuery = `
		SELECT id, attraction_id, date, total_tickets, remaining_tickets, current_flow
		FROM ticket_day
		WHERE attraction_id = $1
		ORDER BY date
	`
	if err := r.db.SelectContext(ctx, &detail.Tickets, ticketQuery, id); err != nil {
		return nil, err
	}

	const engagementQuery = `
		SELECT attraction_id, likes, shares, favorites
		FROM attraction_engagement
		WHERE attraction_id = $1
	`
	if err := r.db.GetContext(ctx, &detail.Engagement, engagementQuery, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *AttractionRepository) ListDetails(ctx context.Context) ([]domain.AttractionDetail, error) {
	const query = `SELECT ` + attractionColumns + ` FROM attraction ORDER BY id`

	var attractions []domain.Attraction
	if err := r.db.SelectContext(ctx, &attractions, query); err != nil {
		return nil, err
	}

	details := make([]domain.AttractionDetail, 0, len(attractions))
	index := make(map[int64]int, len(attractions))
	for _, a := range attractions {
		index[a.ID] = len(details)
		details = append(details, domain.AttractionDetail{Attraction: a, Tickets: []domain.TicketDay{}})
	}
	if len(details) == 0 {
		return details, nil
	}

	// Children are fetched in bulk and stitched in, one query per table.
	const ticketQuery = `
		SELECT id, attraction_id, date, total_tickets, remaining_tickets, current_flow
		FROM ticket_day
		ORDER BY attraction_id, date
	`
	var tickets []domain.TicketDay
	if err := r.db.SelectContext(ctx, &tickets, ticketQuery); err != nil {
		return nil, err
	}
	for _, t := range tickets {
		if i, ok := index[t.AttractionID]; ok {
			details[i].Tickets = append(details[i].Tickets, t)
		}
	}

	const engagementQuery = `
		SELECT attraction_id, likes, shares, favorites
		FROM attraction_engagement
	`
	var engagements []domain.Engagement
	if err := r.db.SelectContext(ctx, &engagements, engagementQuery); err != nil {
		return nil, err
	}
	for _, e := range engagements {
		if i, ok := index[e.AttractionID]; ok {
			details[i].Engagement = e
		}
	}
	return details, nil
}

var _ ports.AttractionRepository = (*AttractionRepository)(nil)
