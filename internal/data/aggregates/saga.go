package aggregates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/yungbote/collective-backend/internal/platform/dbctx"
	"github.com/yungbote/collective-backend/internal/platform/logger"
)

// Compensator collects undo steps for effects a write transaction cannot
// roll back on its own, such as links in an external graph index.
type Compensator interface {
	OnFailure(name string, undo func(ctx context.Context) error)
}

const (
	sagaStatusRunning      = "running"
	sagaStatusSucceeded    = "succeeded"
	sagaStatusFailed       = "failed"
	sagaStatusCompensating = "compensating"
	sagaStatusCompensated  = "compensated"
)

type compensation struct {
	name string
	undo func(ctx context.Context) error
}

type saga struct {
	mu     sync.Mutex
	op     string
	status string
	steps  []compensation
	log    *logger.Logger
	hooks  Hooks
}

func newSaga(op string, deps BaseDeps) *saga {
	return &saga{
		op:     op,
		status: sagaStatusRunning,
		log:    deps.Log.With("saga", op),
		hooks:  deps.Hooks,
	}
}

func (s *saga) OnFailure(name string, undo func(ctx context.Context) error) {
	if undo == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, compensation{name: strings.TrimSpace(name), undo: undo})
}

func (s *saga) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *saga) setStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// unwind runs the registered steps newest first. Every step runs even when
// an earlier one fails.
func (s *saga) unwind(ctx context.Context) error {
	s.mu.Lock()
	steps := append([]compensation(nil), s.steps...)
	s.status = sagaStatusCompensating
	s.mu.Unlock()

	var errs []error
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		if err := step.undo(ctx); err != nil {
			s.log.Warn("compensation failed", "step", step.name, "error", err)
			s.hooks.ObserveCompensation(step.name, sagaStatusFailed)
			errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
			continue
		}
		s.hooks.ObserveCompensation(step.name, sagaStatusCompensated)
	}
	if len(errs) > 0 {
		s.setStatus(sagaStatusFailed)
		return errors.Join(errs...)
	}
	s.setStatus(sagaStatusCompensated)
	return nil
}

// executeSaga runs fn as one write transaction and unwinds the saga's
// compensations after the transaction has rolled back. The original error is
// returned; compensation failures are logged.
func executeSaga(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context, comp Compensator) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	deps = deps.withDefaults()
	s := newSaga(op, deps)
	err := executeWrite(ctx, deps, op, func(dbc dbctx.Context) error {
		return fn(dbc, s)
	})
	if err == nil {
		s.setStatus(sagaStatusSucceeded)
		return nil
	}
	if uerr := s.unwind(context.WithoutCancel(ctx)); uerr != nil {
		deps.Log.Error("saga left partial state", "op", op, "status", s.Status(), "error", uerr)
	}
	return err
}
