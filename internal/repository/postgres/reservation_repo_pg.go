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

type ReservationRepository struct {
	db *sqlx.DB
}

func NewReservationRepo(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Reserve books one ticket inside a single transaction. The ticket-day row is
// read FOR UPDATE so concurrent attempts against the same day serialize on
// the row lock; the capacity check and the counter write happen under that
// lock, which rules out lost updates on remaining_tickets.
func (r *ReservationRepository) Reserve(ctx context.Context, userID, attractionID int64, date time.Time) (*domain.Reservation, error) {
	day := domain.NormalizeDate(date)

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

	const lockDay = `
		SELECT id, remaining_tickets
		FROM ticket_day
		WHERE attraction_id = $1 AND date = $2
		FOR UPDATE
	`
	var ticketDayID int64
	var remaining int
	err = tx.QueryRowxContext(ctx, lockDay, attractionID, day).Scan(&ticketDayID, &remaining)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ports.ErrTicketDayMissing
		}
		return nil, err
	}

	if remaining <= 0 {
		err = ports.ErrTicketsExhausted
		return nil, err
	}

	const insertReservation = `
		INSERT INTO reservation (user_id, attraction_id, date, status)
		VALUES ($1, $2, $3, 'ACTIVE')
		RETURNING id, user_id, attraction_id, date, status, created_at
	`
	var reservation domain.Reservation
	err = tx.QueryRowxContext(ctx, insertReservation, userID, attractionID, day).StructScan(&reservation)
	if err != nil {
		if uniqueViolation(err) {
			err = ports.ErrReservationExists
		}
		return nil, err
	}

	const takeTicket = `
		UPDATE ticket_day
		SET remaining_tickets = remaining_tickets - 1,
		    current_flow = current_flow + 1
		WHERE id = $1
	`
	if _, err = tx.ExecContext(ctx, takeTicket, ticketDayID); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Cancel deletes the user's reservation row and gives the ticket back to the
// day's ledger in the same transaction. User-initiated cancellation removes
// the row outright; only admin-side day deletion keeps CANCELLED rows around.
func (r *ReservationRepository) Cancel(ctx context.Context, userID, attractionID int64, date time.Time) error {
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

	const deleteReservation = `
		DELETE FROM reservation
		WHERE user_id = $1 AND attraction_id = $2 AND date = $3 AND status = 'ACTIVE'
	`
	res, err := tx.ExecContext(ctx, deleteReservation, userID, attractionID, day)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		err = ports.ErrReservationMissing
		return err
	}

	const restoreTicket = `
		UPDATE ticket_day
		SET remaining_tickets = remaining_tickets + 1,
		    current_flow = current_flow - 1
		WHERE attraction_id = $1 AND date = $2 AND current_flow > 0
	`
	if _, err = tx.ExecContext(ctx, restoreTicket, attractionID, day); err != nil {
		return err
	}

	err = tx.Commit()
	return err
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.ReservationDetail, error) {
	const query = `
		SELECT
			r.id,
			r.attraction_id,
			a.name AS attraction_name,
			a.image_url,
			r.date,
			r.status
		FROM reservation r
		JOIN attraction a ON a.id = r.attraction_id
		WHERE r.user_id = $1
		ORDER BY r.id
	`
	items := make([]domain.ReservationDetail, 0)
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, err
	}
	return items, nil
}

var _ ports.ReservationRepository = (*ReservationRepository)(nil)
