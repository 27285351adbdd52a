package reconcile

import (
	"context"
	"fmt"
	"time"
)

// BuildSnapshot reads the source extract, then the destination extract, and indexes both.
// Reads are sequential; a run holds exactly one connection to each store.
func BuildSnapshot(ctx context.Context, adapter Adapter) (*Snapshot, error) {
	source, err := adapter.LoadSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s source: %w", adapter.Name(), err)
	}

	destination, err := adapter.LoadDestination(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s destination: %w", adapter.Name(), err)
	}

	return NewSnapshot(adapter, source, destination), nil
}

// NewSnapshot indexes already loaded extracts. The first item wins for a repeated key.
func NewSnapshot(adapter Adapter, source []SourceItem, destination []DestItem) *Snapshot {
	snap := &Snapshot{
		Source:      source,
		Destination: destination,
		SourceIndex: make(map[string]SourceItem, len(source)),
		DestIndex:   make(map[string]DestItem, len(destination)),
		Built:       time.Now(),
	}

	for _, item := range source {
		key := adapter.SourceKey(item)
		if _, exists := snap.SourceIndex[key]; !exists {
			snap.SourceIndex[key] = item
		}
	}
	for _, item := range destination {
		key := adapter.DestKey(item)
		if _, exists := snap.DestIndex[key]; !exists {
			snap.DestIndex[key] = item
		}
	}

	return snap
}
