// Package stage implements the generic idempotent executor behind every
// pipeline stage: skip items whose durable completion signal is already set,
// run the stage action for the rest in the caller's order, persist each
// success before moving on, and never let one item's failure abort the run.
package stage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"kaiku/internal/logging"
)

// Report tallies one stage run.
type Report struct {
	Total       int
	Completed   int
	AlreadyDone int
	Failed      int
}

// Remaining returns the number of items still pending after the run.
func (r Report) Remaining() int {
	return r.Total - r.Completed - r.AlreadyDone
}

func (r Report) String() string {
	return fmt.Sprintf("total=%d completed=%d already_done=%d failed=%d",
		r.Total, r.Completed, r.AlreadyDone, r.Failed)
}

// Actions defines one stage over items of type T.
type Actions[T any] struct {
	// Name identifies the stage in logs.
	Name string
	// ID returns the item identity used in logs and failure reports.
	ID func(T) string
	// Done reports whether the item's durable completion signal is set.
	Done func(T) bool
	// Execute performs the stage's side effect for one item.
	Execute func(context.Context, T) error
	// Persist records the durable completion signal after Execute succeeds.
	// A persistence failure aborts the run: continuing without a durable
	// signal would redo completed work on the next start.
	Persist func(context.Context, T) error
	// Advance, if set, is called once per visited item (for progress output).
	Advance func()
}

// Run executes the stage over items in the given order. Item-level failures
// are logged and counted but do not stop the run; cancellation is honored
// between items so an interrupt never leaves a half-persisted entry behind.
func Run[T any](ctx context.Context, logger *slog.Logger, items []T, actions Actions[T]) (Report, error) {
	if actions.Execute == nil || actions.Done == nil || actions.ID == nil {
		return Report{}, errors.New("stage: Execute, Done, and ID are required")
	}

	runID := uuid.NewString()
	log := logging.NewComponentLogger(logger, actions.Name).With(
		logging.String(logging.FieldRunID, runID))

	report := Report{Total: len(items)}
	log.Info("stage started", logging.Int("items", report.Total))

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			log.Warn("stage interrupted", logging.String("report", report.String()))
			return report, err
		}

		id := actions.ID(item)
		if actions.Done(item) {
			report.AlreadyDone++
			log.Debug("already done", logging.String(logging.FieldItemID, id))
			advance(actions)
			continue
		}

		if err := actions.Execute(ctx, item); err != nil {
			report.Failed++
			log.Error("item failed",
				logging.String(logging.FieldItemID, id),
				logging.Error(err))
			advance(actions)
			continue
		}

		if actions.Persist != nil {
			if err := actions.Persist(ctx, item); err != nil {
				return report, fmt.Errorf("stage %s: persist completion for %s: %w", actions.Name, id, err)
			}
		}
		report.Completed++
		log.Debug("item completed", logging.String(logging.FieldItemID, id))
		advance(actions)
	}

	log.Info("stage finished", logging.String("report", report.String()))
	return report, nil
}

func advance[T any](actions Actions[T]) {
	if actions.Advance != nil {
		actions.Advance()
	}
}
