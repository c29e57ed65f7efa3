package saga

import (
	"context"
	"fmt"
	"strings"
)

// Step is one forward action with its compensating action. Compensate undoes
// a completed Run and is only invoked when a later step fails.
type Step struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Execution runs steps in declared order. On failure it compensates the
// already-completed steps in exact reverse order of completion and reports
// the outcome as a value, so callers can tell a clean rollback apart from an
// incomplete one.
type Execution struct {
	steps []Step
}

// Result describes one finished execution.
//
// CompletedSteps lists what actually ran before the failure, in order, and is
// kept intact through compensation for audit purposes. A nil Err means every
// step completed. A non-nil CompensationErr means rollback itself failed
// partway and manual recovery is required.
type Result struct {
	CompletedSteps   []string
	CompensatedSteps []string
	FailedStep       string
	Err              error
	CompensationErr  error
}

func New(steps ...Step) *Execution {
	return &Execution{steps: steps}
}

func (e *Execution) Add(step Step) {
	e.steps = append(e.steps, step)
}

// Run executes the steps. The failed step itself is never compensated, only
// the steps completed before it.
func (e *Execution) Run(ctx context.Context) Result {
	res := Result{}

	for i, step := range e.steps {
		if err := step.Run(ctx); err != nil {
			res.FailedStep = step.Name
			res.Err = err
			res.CompensationErr = e.compensate(ctx, i-1, &res)
			return res
		}
		res.CompletedSteps = append(res.CompletedSteps, step.Name)
	}

	return res
}

// compensate rolls back steps [from..0] in reverse order of completion.
func (e *Execution) compensate(ctx context.Context, from int, res *Result) error {
	for i := from; i >= 0; i-- {
		step := e.steps[i]
		if step.Compensate == nil {
			res.CompensatedSteps = append(res.CompensatedSteps, step.Name)
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			return fmt.Errorf("compensation of step %q failed: %w", step.Name, err)
		}
		res.CompensatedSteps = append(res.CompensatedSteps, step.Name)
	}
	return nil
}

// Failed reports whether the execution stopped on a step error.
func (r Result) Failed() bool {
	return r.Err != nil
}

// AsError converts a failed result into a SagaError, or nil on success.
func (r Result) AsError() error {
	if r.Err == nil {
		return nil
	}
	return &SagaError{Result: r}
}

// SagaError is the failure of one execution, carrying the failed step and
// what was rolled back.
type SagaError struct {
	Result Result
}

func (e *SagaError) Error() string {
	msg := fmt.Sprintf("saga failed at step %q: %v", e.Result.FailedStep, e.Result.Err)
	if len(e.Result.CompensatedSteps) > 0 {
		msg += fmt.Sprintf(" (compensated: %s)", strings.Join(e.Result.CompensatedSteps, ", "))
	}
	if e.Result.CompensationErr != nil {
		msg += fmt.Sprintf("; rollback incomplete: %v", e.Result.CompensationErr)
	}
	return msg
}

func (e *SagaError) Unwrap() error {
	return e.Result.Err
}
