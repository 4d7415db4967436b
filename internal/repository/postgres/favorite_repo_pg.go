package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/scenictrip/backend/internal/domain"
	"github.com/scenictrip/backend/internal/repository/ports"
)

type FavoriteRepository struct {
	db *sqlx.DB
}

func NewFavoriteRepo(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add inserts the (user, attraction) relation and bumps the favorites counter
// in one transaction, so the relation count and the counter can never drift.
func (r *FavoriteRepository) Add(ctx context.Context, userID, attractionID int64) (*domain.Favorite, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertFavorite = `
		INSERT INTO user_favorite (user_id, attraction_id)
		VALUES ($1, $2)
		RETURNING id, user_id, attraction_id, created_at
	`
	var favorite domain.Favorite
	err = tx.QueryRowxContext(ctx, insertFavorite, userID, attractionID).StructScan(&favorite)
	if err != nil {
		if uniqueViolation(err) {
			err = ports.ErrFavoriteExists
		}
		return nil, err
	}

	const bumpCounter = `
		UPDATE attraction_engagement
		SET favorites = favorites + 1
		WHERE attraction_id = $1
	`
	var res sql.Result
	res, err = tx.ExecContext(ctx, bumpCounter, attractionID)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		err = ports.ErrEngagementMissing
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, attractionID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const deleteFavorite = `
		DELETE FROM user_favorite
		WHERE user_id = $1 AND attraction_id = $2
	`
	res, err := tx.ExecContext(ctx, deleteFavorite, userID, attractionID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		err = ports.ErrFavoriteMissing
		return err
	}

	const dropCounter = `
		UPDATE attraction_engagement
		SET favorites = favorites - 1
		WHERE attraction_id = $1 AND favorites > 0
	`
	res, err = tx.ExecContext(ctx, dropCounter, attractionID)
	if err != nil {
		return err
	}
	affected, err = res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		err = ports.ErrEngagementMissing
		return err
	}

	err = tx.Commit()
	return err
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, attractionID int64) (bool, error) {
	const query = `
		SELECT id FROM user_favorite
		WHERE user_id = $1 AND attraction_id = $2
	`
	var id int64
	err := r.db.GetContext(ctx, &id, query, userID, attractionID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int64) ([]domain.FavoriteAttraction, error) {
	const query = `
		SELECT
			f.attraction_id,
			a.name,
			a.image_url,
			a.description,
			a.category,
			a.tags,
			f.created_at AS saved_at
		FROM user_favorite f
		JOIN attraction a ON a.id = f.attraction_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, f.id DESC
	`
	items := make([]domain.FavoriteAttraction, 0)
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, err
	}
	return items, nil
}

var _ ports.FavoriteRepository = (*FavoriteRepository)(nil)
