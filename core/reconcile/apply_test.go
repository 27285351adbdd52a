package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingMutator records calls and fails on the configured keys.
type recordingMutator struct {
	mockAdapter
	calls    []string
	failKeys map[string]error
	outcomes map[string]CreateOutcome
}

func (r *recordingMutator) Update(ctx context.Context, dest DestItem, src SourceItem) error {
	key := dest.(mockItem).key()
	r.calls = append(r.calls, "update:"+key)
	return r.failKeys[key]
}

func (r *recordingMutator) SoftDelete(ctx context.Context, dest DestItem) error {
	key := dest.(mockItem).key()
	r.calls = append(r.calls, "soft_delete:"+key)
	return r.failKeys[key]
}

func (r *recordingMutator) Create(ctx context.Context, src SourceItem) (CreateOutcome, error) {
	key := src.(mockItem).key()
	r.calls = append(r.calls, "create:"+key)
	if err := r.failKeys[key]; err != nil {
		return "", err
	}
	if outcome, ok := r.outcomes[key]; ok {
		return outcome, nil
	}
	return OutcomeInserted, nil
}

func newRecordingMutator() *recordingMutator {
	return &recordingMutator{
		mockAdapter: mockAdapter{
			source:      items("1", "2", "4", "5", "6"),
			destination: destItems("1", "2", "3"),
			mismatches:  map[string][]string{"1": {"stock"}},
		},
		failKeys: map[string]error{},
		outcomes: map[string]CreateOutcome{
			"5": OutcomeReinstated,
			"6": OutcomeUnchanged,
		},
	}
}

func TestApplyPlan_ExecutesInOrder(t *testing.T) {
	m := newRecordingMutator()
	plan := Plan(NewSnapshot(m, m.source, m.destination), m)

	result, err := ApplyPlan(context.Background(), m, plan, ReconcileOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"update:1", "soft_delete:3", "create:4", "create:5", "create:6"}, m.calls)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.SoftDeleted)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Reinstated)
	assert.Equal(t, 1, result.Unchanged)
	assert.Equal(t, 4, result.Executed())
	assert.Empty(t, result.Failures)
}

func TestApplyPlan_DryRun(t *testing.T) {
	m := newRecordingMutator()
	plan := Plan(NewSnapshot(m, m.source, m.destination), m)

	result, err := ApplyPlan(context.Background(), m, plan, ReconcileOptions{DryRun: true})
	require.NoError(t, err)
	assert.Empty(t, m.calls)
	assert.Equal(t, 0, result.Executed())
}

func TestApplyPlan_FailureIsFatal(t *testing.T) {
	m := newRecordingMutator()
	m.failKeys["3"] = errors.New("deadlock")
	plan := Plan(NewSnapshot(m, m.source, m.destination), m)

	result, err := ApplyPlan(context.Background(), m, plan, ReconcileOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "soft_delete key 3")
	assert.Contains(t, err.Error(), "deadlock")

	// Earlier writes stand, later ones never run
	assert.Equal(t, []string{"update:1", "soft_delete:3"}, m.calls)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.SoftDeleted)
}

func TestApplyPlan_ContinueOnError(t *testing.T) {
	m := newRecordingMutator()
	m.failKeys["1"] = errors.New("timeout")
	m.failKeys["4"] = errors.New("constraint")
	plan := Plan(NewSnapshot(m, m.source, m.destination), m)

	result, err := ApplyPlan(context.Background(), m, plan, ReconcileOptions{ContinueOnError: true})
	require.NoError(t, err)

	assert.Len(t, m.calls, 5)
	assert.Equal(t, []string{"1", "4"}, result.FailedKeys())
	assert.Equal(t, ActionUpdate, result.Failures[0].Type)
	assert.Equal(t, "constraint", result.Failures[1].Error)
	assert.Equal(t, 1, result.SoftDeleted)
}

func TestApplyPlan_CancelledContext(t *testing.T) {
	m := newRecordingMutator()
	plan := Plan(NewSnapshot(m, m.source, m.destination), m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ApplyPlan(ctx, m, plan, ReconcileOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, m.calls)
}

func TestReconcileAndApply(t *testing.T) {
	t.Run("Requires Mutator", func(t *testing.T) {
		adapter := &mockAdapter{}
		_, _, err := ReconcileAndApply(context.Background(), adapter, ReconcileOptions{})
		assert.ErrorIs(t, err, ErrMutatorRequired)
	})

	t.Run("Dry run without Mutator", func(t *testing.T) {
		adapter := &mockAdapter{source: items("1"), destination: destItems("2")}
		plan, result, err := ReconcileAndApply(context.Background(), adapter, ReconcileOptions{DryRun: true})
		require.NoError(t, err)
		assert.Len(t, plan.Actions, 2)
		assert.Equal(t, 0, result.Executed())
	})

	t.Run("Full run", func(t *testing.T) {
		m := newRecordingMutator()
		plan, result, err := ReconcileAndApply(context.Background(), m, ReconcileOptions{})
		require.NoError(t, err)
		assert.Equal(t, 5, len(plan.Actions))
		assert.Equal(t, 4, result.Executed())
	})
}
