// Package template substitutes {{variable}} references in request metadata
// against an environment's bindings. Values may themselves contain
// references, so expansion is applied recursively up to a fixed depth.
// Parsing is deterministic for non-dynamic input and performs no I/O.
package template

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var referencePattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// maxExpansionDepth bounds recursive expansion of variable values that
// reference other variables.
const maxExpansionDepth = 10

// Error reports why a template string could not be parsed.
type Error struct {
	// Input is the original template string.
	Input string
	// Missing lists every unresolved reference in Input, including unknown
	// function names. Empty when the failure is an expansion loop.
	Missing []string
	// TooDeep is set when expansion exceeded maxExpansionDepth, which
	// indicates variables referencing each other in a cycle.
	TooDeep bool
}

func (e *Error) Error() string {
	if e.TooDeep {
		return fmt.Sprintf("template %q: expansion exceeded %d levels", e.Input, maxExpansionDepth)
	}
	return fmt.Sprintf("template %q: unresolved: %s", e.Input, strings.Join(e.Missing, ", "))
}

// Parse substitutes every {{name}} reference in input against vars and
// every {{fn(args)}} reference against the dynamic-value registry. It
// fails if any reference cannot be resolved, naming all of them.
func Parse(input string, vars map[string]string) (string, error) {
	out := input
	for i := 0; i < maxExpansionDepth; i++ {
		missing := map[string]bool{}
		next := referencePattern.ReplaceAllStringFunc(out, func(match string) string {
			expr := strings.TrimSpace(match[2 : len(match)-2])

			if strings.Contains(expr, "(") {
				result, err := defaultRegistry.Call(expr)
				if err != nil {
					missing[expr] = true
					return match
				}
				return result
			}

			if val, ok := vars[expr]; ok {
				return val
			}
			missing[expr] = true
			return match
		})

		if len(missing) > 0 {
			return "", &Error{Input: input, Missing: sortedKeys(missing)}
		}
		if next == out {
			return out, nil
		}
		out = next
	}
	return "", &Error{Input: input, TooDeep: true}
}

// Lenient is the best-effort variant of Parse: unresolved references are
// left verbatim and no error is returned. It is meant for display and log
// paths only, never for resolving the values a request is sent with.
func Lenient(input string, vars map[string]string) string {
	out := input
	for i := 0; i < maxExpansionDepth; i++ {
		next := referencePattern.ReplaceAllStringFunc(out, func(match string) string {
			expr := strings.TrimSpace(match[2 : len(match)-2])

			if strings.Contains(expr, "(") {
				if result, err := defaultRegistry.Call(expr); err == nil {
					return result
				}
				return match
			}
			if val, ok := vars[expr]; ok {
				return val
			}
			return match
		})
		if next == out {
			return out
		}
		out = next
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
