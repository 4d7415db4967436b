package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/scenictrip/backend/internal/domain"
	"github.com/scenictrip/backend/internal/repository/ports"
)

type EngagementRepository struct {
	db *sqlx.DB
}

func NewEngagementRepo(db *sqlx.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

const engagementColumns = `attraction_id, likes, shares, favorites`

func (r *EngagementRepository) Get(ctx context.Context, attractionID int64) (*domain.Engagement, error) {
	const query = `
		SELECT ` + engagementColumns + `
		FROM attraction_engagement
		WHERE attraction_id = $1
	`
	var engagement domain.Engagement
	if err := r.db.GetContext(ctx, &engagement, query, attractionID); err != nil {
		return nil, err
	}
	return &engagement, nil
}

func (r *EngagementRepository) Increment(ctx context.Context, kind domain.EngagementKind, attractionID int64) (*domain.Engagement, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown engagement kind %q", kind)
	}

	// kind is validated against the closed enum above, so interpolating the
	// column name is safe.
	query := fmt.Sprintf(`
		UPDATE attraction_engagement
		SET %[1]s = %[1]s + 1
		WHERE attraction_id = $1
		RETURNING `+engagementColumns, kind)

	var engagement domain.Engagement
	if err := r.db.QueryRowxContext(ctx, query, attractionID).StructScan(&engagement); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrEngagementMissing
		}
		return nil, err
	}
	return &engagement, nil
}

// Decrement refuses to move a counter below zero. The guarded UPDATE touches
// no row either when the attraction has no engagement row or when the counter
// is already zero; a follow-up existence check inside the same transaction
// tells the two apart against one consistent snapshot.
func (r *EngagementRepository) Decrement(ctx context.Context, kind domain.EngagementKind, attractionID int64) (*domain.Engagement, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown engagement kind %q", kind)
	}

	query := fmt.Sprintf(`
		UPDATE attraction_engagement
		SET %[1]s = %[1]s - 1
		WHERE attraction_id = $1 AND %[1]s > 0
		RETURNING `+engagementColumns, kind)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var engagement domain.Engagement
	err = tx.QueryRowxContext(ctx, query, attractionID).StructScan(&engagement)
	if err == nil {
		if err = tx.Commit(); err != nil {
			return nil, err
		}
		return &engagement, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var exists int64
	err = tx.GetContext(ctx, &exists, `SELECT attraction_id FROM attraction_engagement WHERE attraction_id = $1`, attractionID)
	if errors.Is(err, sql.ErrNoRows) {
		err = ports.ErrEngagementMissing
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	err = ports.ErrCounterAtZero
	return nil, err
}

var _ ports.EngagementRepository = (*EngagementRepository)(nil)
