package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Error kinds returned by the gateway. Every failure leaving the package wraps exactly one of them.
var (
	ErrUnavailable      = errors.New("datastore unavailable")
	ErrConflict         = errors.New("unique constraint violated")
	ErrMissingReference = errors.New("referenced row does not exist")
	ErrQuery            = errors.New("query failed")
)

// Error carries the classified kind together with the driver cause. Only the kind is exposed
// through errors.Is; the cause is available for logging via Error() and Cause().
type Error struct {
	Op         string
	Kind       error
	Constraint string
	cause      error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.cause)
}

// Unwrap exposes the kind only.
func (e *Error) Unwrap() error { return e.Kind }

// Cause returns the underlying driver error.
func (e *Error) Cause() error { return e.cause }

// Classify maps a driver error into one of the gateway kinds. sql.ErrNoRows passes through
// untouched so repositories can decide what "missing" means for them.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return err
	}
	var already *Error
	if errors.As(err, &already) {
		return err
	}

	if code, constraint, ok := sqlState(err); ok {
		switch {
		case code == pgerrcode.UniqueViolation:
			return &Error{Op: op, Kind: ErrConflict, Constraint: constraint, cause: err}
		case code == pgerrcode.ForeignKeyViolation:
			return &Error{Op: op, Kind: ErrMissingReference, Constraint: constraint, cause: err}
		case pgerrcode.IsConnectionException(code),
			pgerrcode.IsInsufficientResources(code),
			pgerrcode.IsOperatorIntervention(code):
			return &Error{Op: op, Kind: ErrUnavailable, cause: err}
		default:
			return &Error{Op: op, Kind: ErrQuery, cause: err}
		}
	}

	if isConnectivity(err) {
		return &Error{Op: op, Kind: ErrUnavailable, cause: err}
	}
	return &Error{Op: op, Kind: ErrQuery, cause: err}
}

func sqlState(err error) (code, constraint string, ok bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, true
	}
	return "", "", false
}

func isConnectivity(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
