package aggregates

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yungbote/collective-backend/internal/data/repos/memstore"
	domainagg "github.com/yungbote/collective-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

func TestMapError_Validation(t *testing.T) {
	err := MapError("op", ValidationError("bad input"))
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_Rejected(t *testing.T) {
	err := MapError("op", RejectedError("Participant cannot be deleted"))
	if !domainagg.IsCode(err, domainagg.CodeValidationRejected) {
		t.Fatalf("expected validation_rejected code, got %q (%v)", domainagg.CodeOf(err), err)
	}
	if got := domainagg.MessageOf(err); got != "Participant cannot be deleted" {
		t.Fatalf("message: want=%q got=%q", "Participant cannot be deleted", got)
	}
	if !errors.Is(err, ErrValidationRejected) {
		t.Fatalf("expected sentinel to stay reachable")
	}
}

func TestMapError_Conflict(t *testing.T) {
	err := MapError("op", ConflictError("stale"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_NotFound(t *testing.T) {
	for _, in := range []error{gorm.ErrRecordNotFound, NotFoundError("collective hash not found")} {
		err := MapError("op", in)
		if !domainagg.IsCode(err, domainagg.CodeNotFound) {
			t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
		}
	}
}

func TestMapError_StoreErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domainagg.ErrorCode
	}{
		{"pg unique", &pgconn.PgError{Code: "23505"}, domainagg.CodeConflict},
		{"pg serialization", &pgconn.PgError{Code: "40001"}, domainagg.CodeRetryable},
		{"wrapped pg deadlock", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "40P01"}), domainagg.CodeRetryable},
		{"sqlite unique", errors.New("UNIQUE constraint failed: link.source, link.tag, link.seq"), domainagg.CodeConflict},
		{"memstore duplicate", memstore.ErrDuplicateSeq, domainagg.CodeConflict},
		{"unknown", errors.New("connection reset by peer"), domainagg.CodeSubstrateFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := MapError("op", tc.err)
			if !domainagg.IsCode(err, tc.want) {
				t.Fatalf("want=%s got=%q (%v)", tc.want, domainagg.CodeOf(err), err)
			}
		})
	}
}

func TestMapError_AnnotatesAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "inner", "retry", errors.New("boom"))
	out := MapError("outer", in)
	if !domainagg.IsCode(out, domainagg.CodeRetryable) {
		t.Fatalf("expected code to survive, got %v", out)
	}
	if got := out.Error(); got != "outer: inner: retry (retryable)" {
		t.Fatalf("breadcrumb: got=%q", got)
	}
}

func TestMapError_BuildsBreadcrumb(t *testing.T) {
	err := MapError("commit_ledger", errors.New("disk full"))
	err = MapError("create_collective_ledger", err)
	err = MapError("create_collective", err)
	want := "create_collective: create_collective_ledger: commit_ledger: disk full (substrate_failure)"
	if err.Error() != want {
		t.Fatalf("breadcrumb: want=%q got=%q", want, err.Error())
	}
}
