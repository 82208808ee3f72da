package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/schemawalk/schemawalk/internal/errs"
)

// mapError translates pgx / pgconn native errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return errs.Wrap(kindForSQLState(pgErr.Code), fmt.Sprintf("%s: %s", msg, pgErr.Message), err)
	}

	// Network, TLS, and auth handshake failures surface here.
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

// kindForSQLState maps a server-side SQLSTATE to an error kind.
func kindForSQLState(code string) errs.ErrKind {
	switch {
	case strings.HasPrefix(code, "08"): // connection exception
		return errs.ErrKindConnectionFailed
	case strings.HasPrefix(code, "28"): // invalid authorization
		return errs.ErrKindPermissionDenied
	case code == "42501": // insufficient privilege
		return errs.ErrKindPermissionDenied
	case code == "57014": // query canceled (statement_timeout)
		return errs.ErrKindTimeout
	default:
		return errs.ErrKindQueryFailed
	}
}
