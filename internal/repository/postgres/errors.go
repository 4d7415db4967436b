package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// uniqueViolation reports whether err is a Postgres unique-constraint
// violation. Composite transactional methods use it to translate constraint
// hits into ports sentinels; single-statement methods let the raw error
// through for the service layer to classify.
func uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
