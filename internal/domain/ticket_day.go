package domain

import "time"

// TicketDay is the capacity ledger for one (attraction, date) pair. After
// every successful mutation the row must satisfy
// remaining_tickets + current_flow == total_tickets.
type TicketDay struct {
	ID               int64     `db:"id" json:"id"`
	AttractionID     int64     `db:"attraction_id" json:"attraction_id"`
	Date             time.Time `db:"date" json:"date"`
	TotalTickets     int       `db:"total_tickets" json:"total_tickets"`
	RemainingTickets int       `db:"remaining_tickets" json:"remaining_tickets"`
	CurrentFlow      int       `db:"current_flow" json:"current_flow"`
}

// Consistent reports whether the capacity ledger invariant holds.
func (t TicketDay) Consistent() bool {
	return t.RemainingTickets >= 0 &&
		t.RemainingTickets <= t.TotalTickets &&
		t.RemainingTickets+t.CurrentFlow == t.TotalTickets
}

// TicketWindowDays is the length of the ticket window seeded at attraction
// creation and by week regeneration.
const TicketWindowDays = 7

// NormalizeDate truncates a timestamp to UTC midnight, the canonical form for
// ticket-day and reservation dates.
func NormalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
