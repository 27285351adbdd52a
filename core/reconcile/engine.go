package reconcile

import (
	"fmt"
	"strings"
)

// Plan classifies every record of the snapshot and returns the actions needed to bring the
// destination in line with the source.
//
//   - destination without source: soft delete
//   - matched pair with differences: update
//   - source without destination: create
//
// Matched pairs without differences produce no action.
func Plan(snap *Snapshot, adapter Adapter) *ReconcilePlan {
	plan := &ReconcilePlan{}
	plan.Summary.SourceItems = len(snap.Source)
	plan.Summary.DestinationItems = len(snap.Destination)

	// Destination pass, in destination order. Every destination record is evaluated,
	// including repeated keys, each against the single source record for its key.
	seenDest := make(map[string]struct{}, len(snap.Destination))
	for _, dest := range snap.Destination {
		key := adapter.DestKey(dest)
		if _, dup := seenDest[key]; dup {
			plan.DuplicateDestinationKeys = append(plan.DuplicateDestinationKeys, key)
		}
		seenDest[key] = struct{}{}

		src, matched := snap.SourceIndex[key]
		if !matched {
			plan.Actions = append(plan.Actions, Action{
				Type:        ActionSoftDelete,
				Key:         key,
				Reason:      "missing in source",
				Destination: dest,
			})
			plan.Summary.SoftDeletes++
			continue
		}

		plan.Summary.Matched++
		mismatch := adapter.CompareFields(dest, src)
		if len(mismatch) == 0 {
			plan.Summary.InSync++
			continue
		}

		plan.Actions = append(plan.Actions, Action{
			Type:        ActionUpdate,
			Key:         key,
			Reason:      fmt.Sprintf("mismatch: %s", strings.Join(mismatch, "; ")),
			Source:      src,
			Destination: dest,
		})
		plan.Summary.Updates++
	}

	// Source pass, in source order.
	seenSource := make(map[string]struct{}, len(snap.Source))
	for _, src := range snap.Source {
		key := adapter.SourceKey(src)
		if _, dup := seenSource[key]; dup {
			plan.DuplicateSourceKeys = append(plan.DuplicateSourceKeys, key)
			continue
		}
		seenSource[key] = struct{}{}

		if _, exists := snap.DestIndex[key]; exists {
			continue
		}

		plan.Actions = append(plan.Actions, Action{
			Type:   ActionCreate,
			Key:    key,
			Reason: "missing in destination",
			Source: src,
		})
		plan.Summary.Creates++
	}

	return plan
}
