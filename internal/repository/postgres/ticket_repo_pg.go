package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/scenictrip/backend/internal/domain"
	"github.com/scenictrip/backend/internal/repository/ports"
)

type TicketRepository struct {
	db *sqlx.DB
}

func NewTicketRepo(db *sqlx.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketDayColumns = `id, attraction_id, date, total_tickets, remaining_tickets, current_flow`

func (r *TicketRepository) CreateDay(ctx context.Context, attractionID int64, date time.Time, total int) (*domain.TicketDay, error) {
	const query = `
		INSERT INTO ticket_day (attraction_id, date, total_tickets, remaining_tickets, current_flow)
		VALUES ($1, $2, $3, $3, 0)
		RETURNING ` + ticketDayColumns

	var day domain.TicketDay
	err := r.db.QueryRowxContext(ctx, query, attractionID, domain.NormalizeDate(date), total).StructScan(&day)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *TicketRepository) FindDay(ctx context.Context, attractionID int64, date time.Time) (*domain.TicketDay, error) {
	const query = `
		SELECT ` + ticketDayColumns + `
		FROM ticket_day
		WHERE attraction_id = $1 AND date = $2
	`
	var day domain.TicketDay
	if err := r.db.GetContext(ctx, &day, query, attractionID, domain.NormalizeDate(date)); err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *TicketRepository) ListByAttraction(ctx context.Context, attractionID int64) ([]domain.TicketDay, error) {
	const query = `
		SELECT ` + ticketDayColumns + `
		FROM ticket_day
		WHERE attraction_id = $1
		ORDER BY date
	`
	days := make([]domain.TicketDay, 0)
	if err := r.db.SelectContext(ctx, &days, query, attractionID); err != nil {
		return nil, err
	}
	return days, nil
}

// UpdateRemaining recomputes current_flow from the corrected remaining count
// so remaining + flow == total keeps holding.
func (r *TicketRepository) UpdateRemaining(ctx context.Context, attractionID int64, date time.Time, remaining int) (*domain.TicketDay, error) {
	const query = `
		UPDATE ticket_day
		SET remaining_tickets = $3,
		    current_flow = total_tickets - $3
		WHERE attraction_id = $1 AND date = $2 AND $3 BETWEEN 0 AND total_tickets
		RETURNING ` + ticketDayColumns

	var day domain.TicketDay
	err := r.db.QueryRowxContext(ctx, query, attractionID, domain.NormalizeDate(date), remaining).StructScan(&day)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *TicketRepository) ReplaceDay(ctx context.Context, attractionID int64, date time.Time, newTotal int) (*domain.TicketDay, error) {
	const query = `
		UPDATE ticket_day
		SET total_tickets = $3,
		    remaining_tickets = $3,
		    current_flow = 0
		WHERE attraction_id = $1 AND date = $2
		RETURNING ` + ticketDayColumns

	var day domain.TicketDay
	err := r.db.QueryRowxContext(ctx, query, attractionID, domain.NormalizeDate(date), newTotal).StructScan(&day)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// DeleteDay flips the day's reservations to CANCELLED instead of erasing
// them, preserving the cancellation audit trail, then removes the ledger row.
func (r *TicketRepository) DeleteDay(ctx context.Context, attractionID int64, date time.Time) error {
	day := domain.NormalizeDate(date)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const cancelReservations = `
		UPDATE reservation
		SET status = 'CANCELLED'
		WHERE attraction_id = $1 AND date = $2
	`
	if _, err = tx.ExecContext(ctx, cancelReservations, attractionID, day); err != nil {
		return err
	}

	var res sql.Result
	res, err = tx.ExecContext(ctx, `DELETE FROM ticket_day WHERE attraction_id = $1 AND date = $2`, attractionID, day)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		err = ports.ErrTicketDayMissing
		return err
	}

	err = tx.Commit()
	return err
}

// RegenerateWindow rebuilds the attraction's ticket window from scratch. All
// reservations against the attraction are flipped to CANCELLED since the days
// they point at are destroyed.
func (r *TicketRepository) RegenerateWindow(ctx context.Context, attractionID int64, total int) ([]domain.TicketDay, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var exists int64
	err = tx.GetContext(ctx, &exists, `SELECT id FROM attraction WHERE id = $1`, attractionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ports.ErrAttractionMissing
		}
		return nil, err
	}

	const cancelAll = `
		UPDATE reservation
		SET status = 'CANCELLED'
		WHERE attraction_id = $1 AND status = 'ACTIVE'
	`
	if _, err = tx.ExecContext(ctx, cancelAll, attractionID); err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM ticket_day WHERE attraction_id = $1`, attractionID); err != nil {
		return nil, err
	}

	days, err := seedWindowTx(ctx, tx, attractionID, total, domain.NormalizeDate(time.Now()))
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return days, nil
}

// seedWindowTx inserts domain.TicketWindowDays consecutive ledger rows
// starting at from, each with remaining = total and flow = 0. Shared by
// attraction creation and window regeneration; runs inside the caller's
// transaction.
func seedWindowTx(ctx context.Context, tx *sqlx.Tx, attractionID int64, total int, from time.Time) ([]domain.TicketDay, error) {
	const query = `
		INSERT INTO ticket_day (attraction_id, date, total_tickets, remaining_tickets, current_flow)
		VALUES ($1, $2, $3, $3, 0)
		RETURNING ` + ticketDayColumns

	days := make([]domain.TicketDay, 0, domain.TicketWindowDays)
	for i := 0; i < domain.TicketWindowDays; i++ {
		var day domain.TicketDay
		if err := tx.QueryRowxContext(ctx, query, attractionID, from.AddDate(0, 0, i), total).StructScan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

var _ ports.TicketRepository = (*TicketRepository)(nil)
