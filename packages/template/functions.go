package template

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Func produces a dynamic value from string arguments.
type Func func(args []string) (string, error)

// Registry maps function names usable in {{fn(args)}} references to their
// implementations.
type Registry struct {
	funcs map[string]Func
}

var defaultRegistry = NewRegistry()

func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}
	r.funcs["uuid"] = funcUUID
	r.funcs["timestamp"] = funcTimestamp
	r.funcs["timestampISO"] = funcTimestampISO
	r.funcs["randomInt"] = funcRandomInt
	r.funcs["randomAlphanumeric"] = funcRandomAlphanumeric
	return r
}

// Register adds or replaces a function on the default registry.
func Register(name string, fn Func) {
	defaultRegistry.funcs[name] = fn
}

var funcCallPattern = regexp.MustCompile(`^(\w+)\((.*)\)$`)

// Call evaluates a fn(args) expression. Unknown functions and malformed
// call expressions are errors.
func (r *Registry) Call(expr string) (string, error) {
	matches := funcCallPattern.FindStringSubmatch(expr)
	if matches == nil {
		return "", fmt.Errorf("malformed function call: %s", expr)
	}

	name := matches[1]
	fn, ok := r.funcs[name]
	if !ok {
		return "", fmt.Errorf("unknown function: %s", name)
	}

	var args []string
	if matches[2] != "" {
		args = splitArgs(matches[2])
	}
	return fn(args)
}

func splitArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := byte(0)

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case !inQuote && (ch == '"' || ch == '\''):
			inQuote = true
			quoteChar = ch
		case inQuote && ch == quoteChar:
			inQuote = false
			quoteChar = 0
		case !inQuote && ch == ',':
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}

	if current.Len() > 0 {
		args = append(args, strings.TrimSpace(current.String()))
	}
	return args
}

func funcUUID(_ []string) (string, error) {
	return uuid.New().String(), nil
}

func funcTimestamp(_ []string) (string, error) {
	return strconv.FormatInt(time.Now().Unix(), 10), nil
}

func funcTimestampISO(_ []string) (string, error) {
	return time.Now().UTC().Format(time.RFC3339), nil
}

func funcRandomInt(args []string) (string, error) {
	lo, hi := 0, 100
	if len(args) >= 2 {
		var err error
		if lo, err = strconv.Atoi(args[0]); err != nil {
			return "", fmt.Errorf("randomInt: min %q is not an integer", args[0])
		}
		if hi, err = strconv.Atoi(args[1]); err != nil {
			return "", fmt.Errorf("randomInt: max %q is not an integer", args[1])
		}
	}
	if hi < lo {
		return "", fmt.Errorf("randomInt: max %d is below min %d", hi, lo)
	}
	return strconv.Itoa(rand.Intn(hi-lo+1) + lo), nil
}

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func funcRandomAlphanumeric(args []string) (string, error) {
	length := 8
	if len(args) >= 1 {
		var err error
		if length, err = strconv.Atoi(args[0]); err != nil {
			return "", fmt.Errorf("randomAlphanumeric: length %q is not an integer", args[0])
		}
	}
	result := make([]byte, length)
	for i := range result {
		result[i] = alphanumeric[rand.Intn(len(alphanumeric))]
	}
	return string(result), nil
}
