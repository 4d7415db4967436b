// Package ports defines the repository interfaces the services depend on,
// together with the sentinel outcomes of the multi-statement transactional
// operations. Single-statement methods surface raw store errors
// (sql.ErrNoRows, *pgconn.PgError) and leave classification to the service
// layer; composite methods cannot, because several statements can miss a row
// for different reasons, so they report these sentinels instead.
package ports

import "errors"

var (
	// ErrAttractionMissing is returned when a composite operation cannot
	// resolve its parent attraction.
	ErrAttractionMissing = errors.New("attraction does not exist")

	// ErrTicketDayMissing is returned when no ticket day exists for the
	// requested (attraction, date) pair. Reservations never create one
	// implicitly.
	ErrTicketDayMissing = errors.New("no ticket day for this date")

	// ErrTicketsExhausted is returned when a reservation is attempted against
	// a day with no remaining tickets.
	ErrTicketsExhausted = errors.New("no remaining tickets")

	// ErrReservationExists is returned when the caller already holds an
	// active reservation for the (attraction, date) pair.
	ErrReservationExists = errors.New("reservation already exists")

	// ErrReservationMissing is returned by cancellation when no matching
	// reservation exists.
	ErrReservationMissing = errors.New("reservation does not exist")

	// ErrFavoriteExists is returned when the (user, attraction) pair is
	// already favorited.
	ErrFavoriteExists = errors.New("favorite already exists")

	// ErrFavoriteMissing is returned by unfavorite when the pair is absent.
	ErrFavoriteMissing = errors.New("favorite does not exist")

	// ErrEngagementMissing signals the engagement row for an attraction is
	// gone. The row is created with the attraction, so its absence is a
	// consistency bug upstream and is never repaired silently.
	ErrEngagementMissing = errors.New("engagement row does not exist")

	// ErrCounterAtZero is returned when decrementing a counter that is
	// already zero.
	ErrCounterAtZero = errors.New("counter is already zero")
)
