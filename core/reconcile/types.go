package reconcile

import "time"

// SourceItem represents a source-of-truth record with arbitrary fields.
// Adapters define the concrete type.
type SourceItem any

// DestItem represents a destination record with arbitrary fields.
// Adapters define the concrete type.
type DestItem any

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionUpdate rewrites a matched destination record from its source.
	ActionUpdate ActionType = "update"
	// ActionSoftDelete flags a destination record without a source as deleted.
	ActionSoftDelete ActionType = "soft_delete"
	// ActionCreate inserts (or reinstates) a destination record for a new source record.
	ActionCreate ActionType = "create"
)

// Action represents a planned mutation operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the join key.
	Key string `json:"key"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`

	// Source is set for update and create actions.
	Source SourceItem `json:"-"`

	// Destination is set for update and soft delete actions.
	Destination DestItem `json:"-"`
}

// ReconcilePlan contains the planned actions of one run, in execution order.
type ReconcilePlan struct {
	// Actions are ordered destination-first (updates and deletes), then creates in source order.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`

	// DuplicateSourceKeys lists keys seen more than once in the source extract.
	DuplicateSourceKeys []string `json:"duplicate_source_keys,omitempty"`

	// DuplicateDestinationKeys lists keys seen more than once in the destination extract.
	DuplicateDestinationKeys []string `json:"duplicate_destination_keys,omitempty"`
}

// PlanSummary provides aggregate statistics for a reconcile plan.
type PlanSummary struct {
	SourceItems      int `json:"source_items"`
	DestinationItems int `json:"destination_items"`
	Matched          int `json:"matched"`
	InSync           int `json:"in_sync"`
	Updates          int `json:"updates"`
	SoftDeletes      int `json:"soft_deletes"`
	Creates          int `json:"creates"`
}

// Failure records one mutation that failed under ContinueOnError.
type Failure struct {
	Type  ActionType `json:"type"`
	Key   string     `json:"key"`
	Error string     `json:"error"`
}

// ApplyResult counts what ApplyPlan actually wrote.
type ApplyResult struct {
	Updated     int       `json:"updated"`
	SoftDeleted int       `json:"soft_deleted"`
	Inserted    int       `json:"inserted"`
	Reinstated  int       `json:"reinstated"`
	Unchanged   int       `json:"unchanged"`
	Failures    []Failure `json:"failures,omitempty"`
}

// Executed returns the number of successful writes.
func (r *ApplyResult) Executed() int {
	return r.Updated + r.SoftDeleted + r.Inserted + r.Reinstated
}

// FailedKeys returns the keys of all failed mutations, in execution order.
func (r *ApplyResult) FailedKeys() []string {
	keys := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		keys = append(keys, f.Key)
	}
	return keys
}

// ReconcileOptions controls how a plan is applied.
type ReconcileOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// ContinueOnError records failed mutations and keeps going instead of aborting.
	ContinueOnError bool
}

// Snapshot holds both extracts of one run, indexed by key.
type Snapshot struct {
	// Source is the source extract in read order.
	Source []SourceItem

	// Destination is the destination extract in read order.
	Destination []DestItem

	// SourceIndex maps key to the first source item with that key.
	SourceIndex map[string]SourceItem

	// DestIndex maps key to the first destination item with that key.
	DestIndex map[string]DestItem

	// Built is the timestamp when this snapshot was read.
	Built time.Time
}
