package minio

import (
	"context"
	"net/http"
	"testing"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"

	"github.com/schemawalk/schemawalk/internal/errs"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
	}{
		{"deadline", context.DeadlineExceeded, errs.IsTimeout},
		{"canceled", context.Canceled, errs.IsTimeout},
		{"404", miniogo.ErrorResponse{StatusCode: http.StatusNotFound, Code: "NoSuchKey"}, errs.IsNotFound},
		{"403", miniogo.ErrorResponse{StatusCode: http.StatusForbidden, Code: "AccessDenied"}, errs.IsPermissionDenied},
		{"401", miniogo.ErrorResponse{StatusCode: http.StatusUnauthorized}, errs.IsPermissionDenied},
		{"400", miniogo.ErrorResponse{StatusCode: http.StatusBadRequest}, errs.IsInvalidInput},
		{"NoSuchBucket without status", miniogo.ErrorResponse{Code: "NoSuchBucket"}, errs.IsNotFound},
		{"SlowDown", miniogo.ErrorResponse{Code: "SlowDown"}, errs.IsTimeout},
		{"unmapped s3 code", miniogo.ErrorResponse{Code: "InternalError", StatusCode: http.StatusInternalServerError}, errs.IsConnectionFailed},
		{"network error", assert.AnError, errs.IsConnectionFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.pred(mapError(tt.err, "op")))
		})
	}

	assert.Nil(t, mapError(nil, "op"))
}
