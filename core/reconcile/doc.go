// Package reconcile provides a generic engine for reconciling a destination data set
// against a source of truth.
//
// The engine replaces a nested scan over both extracts with a key-indexed join:
//   - Both extracts are loaded once (source first, then destination) into a Snapshot.
//   - Each destination record is looked up in the source index; each source record in the
//     destination index.
//   - Plan turns the comparison into an ordered list of actions; ApplyPlan executes them.
//
// # Architecture
//
// 1. Engine: classifies each key as matched, destination-only or source-only and asks the
// adapter whether a matched pair differs.
//
// 2. Adapter: model-specific loading, keying and field comparison.
//
// 3. Mutator: model-specific writes (update, soft delete, create). Adapters that only
// report need not implement it.
//
// # Ordering
//
// Updates and soft deletes are planned in destination order, creates in source order, and
// ApplyPlan executes strictly serially. Identical inputs produce the same sequence of writes.
//
// # Failure
//
// A failed write aborts the rest of the plan by default; writes already made stay made.
// ReconcileOptions.ContinueOnError collects failures in the ApplyResult instead.
//
// # Usage Example
//
//	adapter := productsync.NewAdapter(sourceDB, destDB, logger)
//	plan, result, err := reconcile.ReconcileAndApply(ctx, adapter, reconcile.ReconcileOptions{})
package reconcile
