package reconcile

import (
	"context"
	"errors"
	"fmt"
)

// ErrMutatorRequired is returned when the adapter cannot write to the destination.
var ErrMutatorRequired = errors.New("adapter does not implement Mutator interface")

// ApplyPlan executes the actions of a plan serially, in plan order.
//
// A failed mutation aborts the remaining actions and is returned wrapped, together with the
// counts of what had already been written; earlier writes are not rolled back. With
// opts.ContinueOnError the failure is recorded in the result instead and the run goes on.
func ApplyPlan(ctx context.Context, mutator Mutator, plan *ReconcilePlan, opts ReconcileOptions) (*ApplyResult, error) {
	result := &ApplyResult{}

	if opts.DryRun {
		return result, nil
	}

	for _, action := range plan.Actions {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		err := applyAction(ctx, mutator, action, result)
		if err == nil {
			continue
		}

		if !opts.ContinueOnError {
			return result, fmt.Errorf("failed to %s key %s: %w", action.Type, action.Key, err)
		}
		result.Failures = append(result.Failures, Failure{
			Type:  action.Type,
			Key:   action.Key,
			Error: err.Error(),
		})
	}

	return result, nil
}

func applyAction(ctx context.Context, mutator Mutator, action Action, result *ApplyResult) error {
	switch action.Type {
	case ActionSoftDelete:
		if err := mutator.SoftDelete(ctx, action.Destination); err != nil {
			return err
		}
		result.SoftDeleted++
	case ActionUpdate:
		if err := mutator.Update(ctx, action.Destination, action.Source); err != nil {
			return err
		}
		result.Updated++
	case ActionCreate:
		outcome, err := mutator.Create(ctx, action.Source)
		if err != nil {
			return err
		}
		switch outcome {
		case OutcomeReinstated:
			result.Reinstated++
		case OutcomeUnchanged:
			result.Unchanged++
		default:
			result.Inserted++
		}
	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
	return nil
}

// ReconcileAndApply is a convenience wrapper that snapshots, plans and applies.
// It returns the plan, the apply result and any error.
func ReconcileAndApply(ctx context.Context, adapter Adapter, opts ReconcileOptions) (*ReconcilePlan, *ApplyResult, error) {
	mutator, ok := adapter.(Mutator)
	if !ok && !opts.DryRun {
		return nil, nil, fmt.Errorf("%s: %w", adapter.Name(), ErrMutatorRequired)
	}

	snap, err := BuildSnapshot(ctx, adapter)
	if err != nil {
		return nil, nil, err
	}

	plan := Plan(snap, adapter)

	if opts.DryRun {
		return plan, &ApplyResult{}, nil
	}

	result, err := ApplyPlan(ctx, mutator, plan, opts)
	return plan, result, err
}
