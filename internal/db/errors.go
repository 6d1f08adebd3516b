package db

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsCode reports whether err is a postgres error with the given SQLSTATE.
func IsCode(err error, code string) bool {
	var e *pgconn.PgError
	return errors.As(err, &e) && e.Code == code
}

// IsMalformedID reports whether err was caused by an id that is not a
// valid uuid. Lookups treat it the same as a missing row.
func IsMalformedID(err error) bool {
	return IsCode(err, pgerrcode.InvalidTextRepresentation)
}
