package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
)

func TestSentinelForPgCode(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{pgerrcode.UniqueViolation, adapter.ErrConflict},
		{pgerrcode.ForeignKeyViolation, adapter.ErrBadRequest},
		{pgerrcode.NotNullViolation, adapter.ErrBadRequest},
		{pgerrcode.InvalidTextRepresentation, adapter.ErrBadRequest},
		{pgerrcode.UndefinedTable, adapter.ErrSchemaMismatch},
		{pgerrcode.UndefinedColumn, adapter.ErrSchemaMismatch},
		{pgerrcode.InsufficientPrivilege, adapter.ErrForbidden},
		{pgerrcode.InvalidPassword, adapter.ErrForbidden},
		{pgerrcode.ConnectionException, adapter.ErrUnavailable},
		{pgerrcode.CannotConnectNow, adapter.ErrUnavailable},
		{pgerrcode.TooManyConnections, adapter.ErrUnavailable},
		{pgerrcode.DivisionByZero, adapter.ErrBadRequest},
		{pgerrcode.InternalError, adapter.ErrInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := sentinelForPgCode(tt.code); !errors.Is(got, tt.want) {
				t.Fatalf("sentinelForPgCode(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestClassifyPostgresError(t *testing.T) {
	if classifyPostgresError("op", nil) != nil {
		t.Fatalf("nil error must stay nil")
	}

	err := classifyPostgresError("insert users", pgError(pgerrcode.UniqueViolation))
	if !errors.Is(err, adapter.ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}
	var original interface{ SQLState() string }
	if !errors.As(err, &original) || original.SQLState() != pgerrcode.UniqueViolation {
		t.Fatalf("original pg error must stay reachable: %v", err)
	}

	if err = classifyPostgresError("select", context.DeadlineExceeded); !errors.Is(err, adapter.ErrUnavailable) {
		t.Fatalf("deadline error = %v, want ErrUnavailable", err)
	}
}
