// Package saga runs an ordered list of steps. When a step fails, the
// compensations of the already succeeded steps run in reverse order.
package saga

import (
	"context"
	"errors"
	"fmt"

	"github.com/livebingo/backend/internal/common"
	"github.com/livebingo/backend/pkg/xcontext"
)

type ActionFunc func(ctx context.Context) error

type Step struct {
	Name   string
	Action ActionFunc

	// Compensate undoes Action. It is optional.
	Compensate ActionFunc
}

type Workflow struct {
	name  string
	steps []Step
}

func New(name string) *Workflow {
	return &Workflow{name: name}
}

func (w *Workflow) AddStep(step Step) *Workflow {
	w.steps = append(w.steps, step)
	return w
}

// StepError is returned by Run when a step fails.
type StepError struct {
	Workflow string
	Step     string
	Err      error

	// CompensationErrors contains the failures of compensations, keyed by
	// step name.
	CompensationErrors map[string]error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("workflow %s failed at step %s: %v", e.Workflow, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Run executes steps in order. A failed compensation is logged and does not
// prevent the remaining compensations from running.
func (w *Workflow) Run(ctx context.Context) error {
	done := []Step{}
	for _, step := range w.steps {
		xcontext.Logger(ctx).Debugf("Workflow %s: run step %s", w.name, step.Name)

		if err := step.Action(ctx); err != nil {
			xcontext.Logger(ctx).Errorf("Workflow %s: step %s failed: %v", w.name, step.Name, err)
			countStep(w.name, step.Name, "failure")

			return &StepError{
				Workflow:           w.name,
				Step:               step.Name,
				Err:                err,
				CompensationErrors: w.compensate(ctx, done),
			}
		}

		countStep(w.name, step.Name, "success")
		done = append(done, step)
	}

	return nil
}

// compensate runs on a context detached from the cancellation of ctx, so a
// canceled request still rolls back.
func (w *Workflow) compensate(ctx context.Context, done []Step) map[string]error {
	ctx = xcontext.Inherit(context.Background(), ctx)
	failures := map[string]error{}
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}

		if err := step.Compensate(ctx); err != nil {
			xcontext.Logger(ctx).Errorf("Workflow %s: cannot compensate step %s: %v", w.name, step.Name, err)
			countCompensation(w.name, step.Name, "failure")
			failures[step.Name] = err
			continue
		}

		xcontext.Logger(ctx).Infof("Workflow %s: compensated step %s", w.name, step.Name)
		countCompensation(w.name, step.Name, "success")
	}

	return failures
}

// IsStepError reports whether err was returned by a failed step.
func IsStepError(err error) bool {
	var stepErr *StepError
	return errors.As(err, &stepErr)
}

func countStep(workflow, step, result string) {
	common.PromCounters[common.SagaStepTotal].WithLabelValues(workflow, step, result).Inc()
}

func countCompensation(workflow, step, result string) {
	common.PromCounters[common.SagaCompensationTotal].WithLabelValues(workflow, step, result).Inc()
}
