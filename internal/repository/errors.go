package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Error kinds reported by repositories. Classified errors keep the original
// driver error in their chain so both can be matched with errors.Is.
var (
	ErrNotFound            = errors.New("record not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrBackendUnavailable  = errors.New("backend unavailable")
)

// Error attaches an error kind and the failing operation to a persistence error.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// classifyError tags err with its kind. Unrecognised errors are returned unchanged.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return err
	}
	if kind := errorKind(err); kind != nil {
		return &Error{Kind: kind, Op: op, Err: err}
	}
	return err
}

func errorKind(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrConstraintViolation
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505", pgErr.Code == "23503", pgErr.Code == "23502", pgErr.Code == "23514":
			return ErrConstraintViolation
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57P"):
			return ErrBackendUnavailable
		}
		return nil
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return ErrBackendUnavailable
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrBackendUnavailable
	}

	switch {
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone), errors.Is(err, context.DeadlineExceeded):
		return ErrBackendUnavailable
	}

	// sqlite reports constraint failures only through the message
	message := err.Error()
	switch {
	case strings.Contains(message, "UNIQUE constraint failed"),
		strings.Contains(message, "FOREIGN KEY constraint failed"),
		strings.Contains(message, "NOT NULL constraint failed"):
		return ErrConstraintViolation
	}

	return nil
}
