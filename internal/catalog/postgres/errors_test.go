package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/schemawalk/schemawalk/internal/errs"
)

func TestKindForSQLState(t *testing.T) {
	tests := []struct {
		code string
		want errs.ErrKind
	}{
		{"08006", errs.ErrKindConnectionFailed}, // connection failure
		{"08001", errs.ErrKindConnectionFailed},
		{"28P01", errs.ErrKindPermissionDenied}, // invalid password
		{"28000", errs.ErrKindPermissionDenied},
		{"42501", errs.ErrKindPermissionDenied}, // insufficient privilege
		{"57014", errs.ErrKindTimeout},          // statement_timeout
		{"42P01", errs.ErrKindQueryFailed},      // undefined table
		{"XX000", errs.ErrKindQueryFailed},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, kindForSQLState(tt.code))
		})
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
	}{
		{"deadline", context.DeadlineExceeded, errs.IsTimeout},
		{"canceled", context.Canceled, errs.IsTimeout},
		{"no rows", pgx.ErrNoRows, errs.IsNotFound},
		{"server error", &pgconn.PgError{Code: "42501", Message: "permission denied"}, errs.IsPermissionDenied},
		{"statement timeout", &pgconn.PgError{Code: "57014", Message: "canceling statement"}, errs.IsTimeout},
		{"network error", assert.AnError, errs.IsConnectionFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.pred(mapError(tt.err, "op")))
		})
	}

	assert.Nil(t, mapError(nil, "op"))
}
