package domain

import (
	"reflect"
	"sort"
)

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for change notifications.
type StateDiff struct {
	// Changed holds the new value of every added or modified slice.
	Changed map[string]any `json:"changed,omitempty"`

	// Removed lists slices present in the old state only.
	Removed []string `json:"removed,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// It returns nil when both hold the same slices with deeply equal values.
func Diff(oldState, newState State) *StateDiff {
	diff := &StateDiff{}

	// Added or modified
	for _, k := range newState.keys {
		newVal := newState.values[k]
		oldVal, exists := oldState.values[k]
		if !exists || !reflect.DeepEqual(oldVal, newVal) {
			if diff.Changed == nil {
				diff.Changed = make(map[string]any)
			}
			diff.Changed[k] = newVal
		}
	}

	// Deletions
	for _, k := range oldState.keys {
		if _, exists := newState.values[k]; !exists {
			diff.Removed = append(diff.Removed, k)
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d == nil || (len(d.Changed) == 0 && len(d.Removed) == 0)
}

// Slices returns the names of all touched slices, sorted.
func (d *StateDiff) Slices() []string {
	if d == nil {
		return nil
	}
	out := make([]string, 0, len(d.Changed)+len(d.Removed))
	for k := range d.Changed {
		out = append(out, k)
	}
	out = append(out, d.Removed...)
	sort.Strings(out)
	return out
}
