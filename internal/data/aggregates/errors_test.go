package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/raja1702/computer-storage-solutions/internal/domain/analytics"
)

func TestMapError_Nil(t *testing.T) {
	if err := MapError("op", nil); err != nil {
		t.Fatalf("want=nil got=%v", err)
	}
}

func TestMapError_Context(t *testing.T) {
	err := MapError("op", fmt.Errorf("query: %w", context.Canceled))
	if !analytics.IsCode(err, analytics.CodeCanceled) {
		t.Fatalf("expected canceled code, got %q (%v)", analytics.CodeOf(err), err)
	}
	err = MapError("op", context.DeadlineExceeded)
	if !analytics.IsCode(err, analytics.CodeUnavailable) {
		t.Fatalf("expected unavailable code, got %q (%v)", analytics.CodeOf(err), err)
	}
}

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", gorm.ErrRecordNotFound)
	if !analytics.IsCode(err, analytics.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", analytics.CodeOf(err), err)
	}
}

func TestMapError_PgCodes(t *testing.T) {
	cases := map[string]analytics.ErrorCode{
		"40001": analytics.CodeUnavailable,
		"40P01": analytics.CodeUnavailable,
		"08006": analytics.CodeUnavailable,
		"57P01": analytics.CodeUnavailable,
		"42P01": analytics.CodeInternal,
	}
	for code, want := range cases {
		err := MapError("op", &pgconn.PgError{Code: code, Message: "x"})
		if got := analytics.CodeOf(err); got != want {
			t.Fatalf("pg code %s: want=%q got=%q", code, want, got)
		}
	}
}

func TestMapError_MessageHeuristics(t *testing.T) {
	err := MapError("op", errors.New("dial tcp: i/o timeout"))
	if !analytics.IsCode(err, analytics.CodeUnavailable) {
		t.Fatalf("expected unavailable code, got %q (%v)", analytics.CodeOf(err), err)
	}
	err = MapError("op", errors.New("no such column: foo"))
	if !analytics.IsCode(err, analytics.CodeInternal) {
		t.Fatalf("expected internal code, got %q (%v)", analytics.CodeOf(err), err)
	}
}

func TestMapError_PassthroughCodedError(t *testing.T) {
	in := analytics.NewError(analytics.CodeDataIntegrity, "op", "missing product", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough coded error")
	}
}
