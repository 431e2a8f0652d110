// Package request computes the effective form of a templated request:
// headers and parameters with their {{variable}} references substituted
// against an environment, plus the fully resolved request the runner
// executes.
package request

import (
	"github.com/hoppscotch/hopp-cli/packages/clierror"
	"github.com/hoppscotch/hopp-cli/packages/core/collection"
	"github.com/hoppscotch/hopp-cli/packages/template"
)

// Outcome records one entry's substitution attempt, field by field. The
// full list, successes included, rides on a PARSING_ERROR so the caller
// can point at every broken template in a single pass instead of only the
// first.
type Outcome struct {
	Entry collection.KeyValue

	Key      string
	Value    string
	KeyErr   error
	ValueErr error
}

// OK reports whether both fields substituted cleanly.
func (o Outcome) OK() bool {
	return o.KeyErr == nil && o.ValueErr == nil
}

// ResolveEntries substitutes template variables in every active, non-empty
// entry against vars, preserving order. Validation is all-or-nothing: one
// failing field invalidates the whole set and yields a PARSING_ERROR whose
// Data is the complete []Outcome. On success each resolved entry is
// returned with Active forced to true, since only active entries survive
// the filter.
func ResolveEntries(entries []collection.KeyValue, vars map[string]string) ([]collection.KeyValue, error) {
	outcomes := make([]Outcome, 0, len(entries))
	for _, e := range entries {
		if e.Key == "" || !e.Active {
			continue
		}
		o := Outcome{Entry: e}
		o.Key, o.KeyErr = template.Parse(e.Key, vars)
		o.Value, o.ValueErr = template.Parse(e.Value, vars)
		outcomes = append(outcomes, o)
	}

	for _, o := range outcomes {
		if !o.OK() {
			return nil, clierror.New(clierror.CodeParsingError, outcomes)
		}
	}

	resolved := make([]collection.KeyValue, 0, len(outcomes))
	for _, o := range outcomes {
		resolved = append(resolved, collection.KeyValue{Key: o.Key, Value: o.Value, Active: true})
	}
	return resolved, nil
}

// ToMap folds entries into a plain key to value view with the same
// active/non-empty filter as ResolveEntries. Later duplicates overwrite
// earlier ones.
func ToMap(entries []collection.KeyValue) map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Key == "" || !e.Active {
			continue
		}
		m[e.Key] = e.Value
	}
	return m
}
