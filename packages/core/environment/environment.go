// Package environment defines the canonical shape of an environment
// document: a named, ordered set of variable bindings that templates
// resolve against.
package environment

// Variable is one binding. Secret marks values that must not be echoed in
// verbose output.
type Variable struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Secret bool   `json:"secret,omitempty"`
}

// Environment is a named set of variables. Variables keeps its document
// order; duplicate keys are allowed and resolved last-write-wins.
type Environment struct {
	V    int    `json:"v,omitempty"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`

	Variables []Variable `json:"variables"`
}

// Vars folds the variables into a plain key to value mapping. Later
// duplicates overwrite earlier ones.
func (e *Environment) Vars() map[string]string {
	vars := make(map[string]string, len(e.Variables))
	for _, v := range e.Variables {
		vars[v.Key] = v.Value
	}
	return vars
}
