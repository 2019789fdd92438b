package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/raja1702/computer-storage-solutions/internal/domain/analytics"
)

// MapError maps store failures into analytics error codes. Errors that
// already carry a code pass through unchanged.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var coded *analytics.Error
	if errors.As(err, &coded) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return analytics.Wrap(analytics.CodeCanceled, op, err)
	case errors.Is(err, context.DeadlineExceeded):
		return analytics.Wrap(analytics.CodeUnavailable, op, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return analytics.Wrap(analytics.CodeNotFound, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		code := strings.TrimSpace(pgErr.Code)
		switch {
		case code == "40001", code == "40P01", code == "55P03", code == "57014":
			return analytics.Wrap(analytics.CodeUnavailable, op, err) // serialization/deadlock/lock/query_canceled
		case strings.HasPrefix(code, "08"), strings.HasPrefix(code, "53"), strings.HasPrefix(code, "57P"):
			return analytics.Wrap(analytics.CodeUnavailable, op, err) // connection/resources/shutdown
		}
		return analytics.Wrap(analytics.CodeInternal, op, err)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "connection"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "temporar"):
		return analytics.Wrap(analytics.CodeUnavailable, op, err)
	default:
		return analytics.Wrap(analytics.CodeInternal, op, err)
	}
}
