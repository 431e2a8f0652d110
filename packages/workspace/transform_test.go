package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformCollectionMalformedRequestPayload(t *testing.T) {
	raw := []byte(`{
		"id": "c", "title": "Broken", "data": "",
		"folders": [],
		"requests": [{"id": "r", "title": "bad", "request": "{{{not json"}]
	}`)

	_, err := transformCollection(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestTransformCollectionMalformedData(t *testing.T) {
	raw := []byte(`{"id": "c", "title": "Broken", "data": "not json", "folders": [], "requests": []}`)

	_, err := transformCollection(raw)
	assert.Error(t, err)
}

func TestTransformEnvironmentMalformed(t *testing.T) {
	_, err := transformEnvironment([]byte(`[]`))
	assert.Error(t, err)
}
