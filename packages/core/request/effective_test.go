package request

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoppscotch/hopp-cli/packages/clierror"
	"github.com/hoppscotch/hopp-cli/packages/core/collection"
)

func TestEffectiveRequest(t *testing.T) {
	req := &collection.Request{
		Name:     "Create user",
		Method:   "POST",
		Endpoint: "https://{{host}}/users",
		Params: []collection.KeyValue{
			{Key: "notify", Value: "true", Active: true},
		},
		Headers: []collection.KeyValue{
			{Key: "Accept", Value: "application/json", Active: true},
		},
		Body: collection.Body{
			ContentType: "application/json",
			Body:        `{"name": "{{userName}}"}`,
		},
	}
	vars := map[string]string{"host": "api.example.com", "userName": "ada"}

	eff, err := EffectiveRequest(req, Inherited{}, vars)
	require.NoError(t, err)
	assert.Equal(t, "POST", eff.Method)
	assert.Equal(t, "https://api.example.com/users?notify=true", eff.URL)
	assert.Equal(t, "application/json", eff.Headers["Accept"])
	assert.Equal(t, "application/json", eff.Headers["Content-Type"])
	assert.Equal(t, `{"name": "ada"}`, eff.Body)
}

func TestEffectiveRequestUnresolvedEndpoint(t *testing.T) {
	req := &collection.Request{
		Method:   "GET",
		Endpoint: "https://{{unknownHost}}/x",
	}

	_, err := EffectiveRequest(req, Inherited{}, nil)
	require.Error(t, err)
	assert.True(t, clierror.HasCode(err, clierror.CodeParsingError))
}

func TestEffectiveRequestBasicAuth(t *testing.T) {
	req := &collection.Request{
		Method:   "GET",
		Endpoint: "https://api.example.com/me",
		Auth: collection.Auth{
			Type:     "basic",
			Active:   true,
			Username: "{{user}}",
			Password: "{{pass}}",
		},
	}
	vars := map[string]string{"user": "ada", "pass": "pw"}

	eff, err := EffectiveRequest(req, Inherited{}, vars)
	require.NoError(t, err)
	expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("ada:pw"))
	assert.Equal(t, expected, eff.Headers["Authorization"])
}

func TestEffectiveRequestBearerAuth(t *testing.T) {
	req := &collection.Request{
		Method:   "GET",
		Endpoint: "https://api.example.com/me",
		Auth: collection.Auth{
			Type:   "bearer",
			Active: true,
			Token:  "{{token}}",
		},
	}

	eff, err := EffectiveRequest(req, Inherited{}, map[string]string{"token": "t0k"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer t0k", eff.Headers["Authorization"])
}

func TestEffectiveRequestInheritedAuth(t *testing.T) {
	req := &collection.Request{
		Method:   "GET",
		Endpoint: "https://api.example.com/me",
		Auth:     collection.Auth{Type: "inherit", Active: true},
	}
	inherited := Inherited{
		Auth: collection.Auth{Type: "bearer", Active: true, Token: "folder-token"},
		Headers: []collection.KeyValue{
			{Key: "X-Team", Value: "core", Active: true},
		},
	}

	eff, err := EffectiveRequest(req, inherited, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer folder-token", eff.Headers["Authorization"])
	assert.Equal(t, "core", eff.Headers["X-Team"])
}

func TestEffectiveRequestRequestHeaderOverridesInherited(t *testing.T) {
	req := &collection.Request{
		Method:   "GET",
		Endpoint: "https://api.example.com/me",
		Headers: []collection.KeyValue{
			{Key: "X-Team", Value: "request", Active: true},
		},
	}
	inherited := Inherited{
		Headers: []collection.KeyValue{
			{Key: "X-Team", Value: "folder", Active: true},
		},
	}

	eff, err := EffectiveRequest(req, inherited, nil)
	require.NoError(t, err)
	assert.Equal(t, "request", eff.Headers["X-Team"])
}

func TestEffectiveRequestAPIKeyAuth(t *testing.T) {
	t.Run("in headers", func(t *testing.T) {
		req := &collection.Request{
			Method:   "GET",
			Endpoint: "https://api.example.com/me",
			Auth: collection.Auth{
				Type:   "api-key",
				Active: true,
				Key:    "X-Api-Key",
				Value:  "{{apiKey}}",
				AddTo:  collection.AddToHeaders,
			},
		}

		eff, err := EffectiveRequest(req, Inherited{}, map[string]string{"apiKey": "k"})
		require.NoError(t, err)
		assert.Equal(t, "k", eff.Headers["X-Api-Key"])
	})

	t.Run("in query params", func(t *testing.T) {
		req := &collection.Request{
			Method:   "GET",
			Endpoint: "https://api.example.com/me",
			Auth: collection.Auth{
				Type:   "api-key",
				Active: true,
				Key:    "api_key",
				Value:  "k",
				AddTo:  collection.AddToQueryParams,
			},
		}

		eff, err := EffectiveRequest(req, Inherited{}, nil)
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/me?api_key=k", eff.URL)
	})
}

func TestEffectiveRequestInactiveAuthIgnored(t *testing.T) {
	req := &collection.Request{
		Method:   "GET",
		Endpoint: "https://api.example.com/me",
		Auth:     collection.Auth{Type: "bearer", Active: false, Token: "t"},
	}

	eff, err := EffectiveRequest(req, Inherited{}, nil)
	require.NoError(t, err)
	_, has := eff.Headers["Authorization"]
	assert.False(t, has)
}
