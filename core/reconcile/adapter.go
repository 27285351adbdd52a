package reconcile

import "context"

// Adapter defines the interface for model-specific reconciliation logic.
// Each adapter implements how to load, key, and compare records for one catalog
// (e.g., EPOS products against storefront products).
type Adapter interface {
	// Name returns the unique name of this adapter (e.g., "products").
	Name() string

	// LoadSource loads the full source-of-truth extract.
	// Order is preserved: creates are planned in source order.
	LoadSource(ctx context.Context) ([]SourceItem, error)

	// LoadDestination loads the full destination extract, excluding soft-deleted records.
	// Order is preserved: updates and deletes are planned in destination order.
	LoadDestination(ctx context.Context) ([]DestItem, error)

	// SourceKey returns the join key of a source item.
	SourceKey(item SourceItem) string

	// DestKey returns the join key of a destination item.
	DestKey(item DestItem) string

	// CompareFields returns a description of every field that requires the destination
	// to be rewritten from the source. An empty result means the pair is in sync.
	CompareFields(dest DestItem, src SourceItem) []string
}

// CreateOutcome describes what a Mutator did for a source item without a live destination.
type CreateOutcome string

const (
	// OutcomeInserted means a new destination record was inserted.
	OutcomeInserted CreateOutcome = "inserted"
	// OutcomeReinstated means a soft-deleted destination record was revived instead.
	OutcomeReinstated CreateOutcome = "reinstated"
	// OutcomeUnchanged means a soft-deleted twin exists and already reflects the source.
	OutcomeUnchanged CreateOutcome = "unchanged"
)

// Mutator is implemented by adapters that can write to the destination.
// Each call is one independently durable write (or a short sequence of them for
// linked records); there is no transaction spanning calls.
type Mutator interface {
	// Update rewrites a matched destination record from its source.
	Update(ctx context.Context, dest DestItem, src SourceItem) error

	// SoftDelete hides a destination record that has no source.
	SoftDelete(ctx context.Context, dest DestItem) error

	// Create materialises a source record that has no live destination.
	Create(ctx context.Context, src SourceItem) (CreateOutcome, error)
}
