package request

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoppscotch/hopp-cli/packages/clierror"
	"github.com/hoppscotch/hopp-cli/packages/core/collection"
)

func TestResolveEntries(t *testing.T) {
	entries := []collection.KeyValue{
		{Key: "X", Value: "{{token}}", Active: true},
	}
	vars := map[string]string{"token": "abc"}

	resolved, err := ResolveEntries(entries, vars)
	require.NoError(t, err)
	assert.Equal(t, []collection.KeyValue{
		{Key: "X", Value: "abc", Active: true},
	}, resolved)
}

func TestResolveEntriesFiltersInactiveAndEmptyKeys(t *testing.T) {
	entries := []collection.KeyValue{
		{Key: "", Value: "{{not-even-looked-at}}", Active: true},
		{Key: "Off", Value: "{{also-ignored}}", Active: false},
		{Key: "Kept", Value: "plain", Active: true},
	}

	resolved, err := ResolveEntries(entries, nil)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "Kept", resolved[0].Key)
}

func TestResolveEntriesAllOrNothing(t *testing.T) {
	entries := []collection.KeyValue{
		{Key: "Good", Value: "{{present}}", Active: true},
		{Key: "Bad", Value: "{{missing}}", Active: true},
	}
	vars := map[string]string{"present": "v"}

	resolved, err := ResolveEntries(entries, vars)
	assert.Nil(t, resolved)
	require.Error(t, err)

	var cliErr *clierror.Error
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, clierror.CodeParsingError, cliErr.Code)

	// The failure carries every considered entry, successes included.
	outcomes, ok := cliErr.Data.([]Outcome)
	require.True(t, ok)
	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[0].OK())
	assert.False(t, outcomes[1].OK())
	assert.Equal(t, "Bad", outcomes[1].Entry.Key)
}

func TestResolveEntriesFailingKeyTemplate(t *testing.T) {
	entries := []collection.KeyValue{
		{Key: "{{header-name}}", Value: "ok", Active: true},
	}

	_, err := ResolveEntries(entries, nil)
	require.Error(t, err)
	assert.True(t, clierror.HasCode(err, clierror.CodeParsingError))
}

func TestResolveEntriesPreservesOrder(t *testing.T) {
	entries := []collection.KeyValue{
		{Key: "A", Value: "1", Active: true},
		{Key: "skip", Value: "x", Active: false},
		{Key: "B", Value: "2", Active: true},
		{Key: "C", Value: "3", Active: true},
	}

	resolved, err := ResolveEntries(entries, nil)
	require.NoError(t, err)
	keys := make([]string, len(resolved))
	for i, e := range resolved {
		keys[i] = e.Key
	}
	assert.Equal(t, []string{"A", "B", "C"}, keys)
}

func TestResolveEntriesIdempotent(t *testing.T) {
	entries := []collection.KeyValue{
		{Key: "X", Value: "{{v}}", Active: true},
	}
	vars := map[string]string{"v": "1"}

	first, err := ResolveEntries(entries, vars)
	require.NoError(t, err)
	second, err := ResolveEntries(entries, vars)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestToMap(t *testing.T) {
	entries := []collection.KeyValue{
		{Key: "A", Value: "first", Active: true},
		{Key: "", Value: "dropped", Active: true},
		{Key: "B", Value: "kept", Active: true},
		{Key: "A", Value: "second", Active: true},
		{Key: "C", Value: "inactive", Active: false},
	}

	assert.Equal(t, map[string]string{
		"A": "second",
		"B": "kept",
	}, ToMap(entries))
}
