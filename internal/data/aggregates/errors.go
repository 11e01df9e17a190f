package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/collective-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

var (
	// ErrValidation indicates caller input validation failure.
	ErrValidation = errors.New("aggregate validation")
	// ErrValidationRejected indicates an admission-control rejection at write time.
	ErrValidationRejected = errors.New("aggregate validation rejected")
	// ErrInvariant indicates a local precondition failed before any write.
	ErrInvariant = errors.New("aggregate invariant violation")
	// ErrNotFound indicates an absent or wrong-typed address.
	ErrNotFound = errors.New("aggregate not found")
	// ErrConflict indicates a concurrency or uniqueness conflict.
	ErrConflict = errors.New("aggregate conflict")
	// ErrRetryable indicates transient retryable failure.
	ErrRetryable = errors.New("aggregate retryable")
)

// ValidationError tags an error as validation failure.
func ValidationError(msg string) error {
	return errors.Join(ErrValidation, errors.New(strings.TrimSpace(msg)))
}

// RejectedError tags an error as an authorization rejection.
func RejectedError(msg string) error {
	return errors.Join(ErrValidationRejected, errors.New(strings.TrimSpace(msg)))
}

// InvariantError tags an error as invariant violation.
func InvariantError(msg string) error {
	return errors.Join(ErrInvariant, errors.New(strings.TrimSpace(msg)))
}

// NotFoundError tags an error as not found.
func NotFoundError(msg string) error {
	return errors.Join(ErrNotFound, errors.New(strings.TrimSpace(msg)))
}

// ConflictError tags an error as conflict failure.
func ConflictError(msg string) error {
	return errors.Join(ErrConflict, errors.New(strings.TrimSpace(msg)))
}

// RetryableError tags an error as retryable failure.
func RetryableError(msg string) error {
	return errors.Join(ErrRetryable, errors.New(strings.TrimSpace(msg)))
}

// MapError maps infrastructure/domain failures into aggregate error codes.
// Aggregate errors keep their code and get op prefixed to their breadcrumb.
// Unclassified storage errors are substrate failures.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) {
		return domainagg.Annotate(op, aggErr)
	}
	switch {
	case errors.Is(err, ErrValidation):
		return tagged(domainagg.CodeValidation, op, err, ErrValidation)
	case errors.Is(err, ErrValidationRejected):
		return tagged(domainagg.CodeValidationRejected, op, err, ErrValidationRejected)
	case errors.Is(err, ErrInvariant):
		return tagged(domainagg.CodeInvariantViolation, op, err, ErrInvariant)
	case errors.Is(err, ErrNotFound):
		return tagged(domainagg.CodeNotFound, op, err, ErrNotFound)
	case errors.Is(err, ErrConflict):
		return tagged(domainagg.CodeConflict, op, err, ErrConflict)
	case errors.Is(err, ErrRetryable):
		return tagged(domainagg.CodeRetryable, op, err, ErrRetryable)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domainagg.Wrap(domainagg.CodeNotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return domainagg.Wrap(domainagg.CodeConflict, op, err) // unique_violation
		case "40001", "40P01", "55P03":
			return domainagg.Wrap(domainagg.CodeRetryable, op, err) // serialization/deadlock/lock_not_available
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "unique constraint"):
		return domainagg.Wrap(domainagg.CodeConflict, op, err)
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "database is locked"):
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	default:
		return domainagg.Wrap(domainagg.CodeSubstrateFailure, op, err)
	}
}

// tagged wraps a sentinel-joined error, keeping only the human message.
func tagged(code domainagg.ErrorCode, op string, err error, sentinel error) error {
	return domainagg.NewError(code, op, joinedMessage(err, sentinel), err)
}

func joinedMessage(err error, sentinel error) string {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, 2)
	for _, inner := range joined.Unwrap() {
		if inner == nil || inner == sentinel {
			continue
		}
		if msg := strings.TrimSpace(inner.Error()); msg != "" {
			parts = append(parts, msg)
		}
	}
	if len(parts) == 0 {
		return sentinel.Error()
	}
	return strings.Join(parts, "; ")
}
