package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoppscotch/hopp-cli/packages/clierror"
)

func collectionPayload(t *testing.T) []byte {
	t.Helper()

	requestDoc := map[string]any{
		"v":        "1",
		"name":     "Get user",
		"method":   "GET",
		"endpoint": "https://api.example.com/users/{{userId}}",
		"headers": []map[string]any{
			{"key": "Accept", "value": "application/json", "active": true},
		},
	}
	requestJSON, err := json.Marshal(requestDoc)
	require.NoError(t, err)

	dataJSON, err := json.Marshal(map[string]any{
		"auth":    map[string]any{"authType": "bearer", "authActive": true, "token": "{{token}}"},
		"headers": []map[string]any{{"key": "X-Team", "value": "core", "active": true}},
	})
	require.NoError(t, err)

	payload, err := json.Marshal(map[string]any{
		"id":    "col-1",
		"title": "Users",
		"data":  string(dataJSON),
		"folders": []map[string]any{
			{"id": "f-1", "title": "Admin", "data": "", "folders": []any{}, "requests": []any{}},
		},
		"requests": []map[string]any{
			{"id": "r-1", "title": "Get user", "request": string(requestJSON)},
		},
	})
	require.NoError(t, err)
	return payload
}

func TestClientCollection(t *testing.T) {
	payload := collectionPayload(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/access-tokens/collection/col-1", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok")
	cols, err := client.Collection(context.Background(), "col-1")
	require.NoError(t, err)
	require.Len(t, cols, 1)

	col := cols[0]
	assert.Equal(t, "Users", col.Name)
	assert.Equal(t, "bearer", col.Auth.Type)
	require.Len(t, col.Headers, 1)
	assert.Equal(t, "X-Team", col.Headers[0].Key)
	require.Len(t, col.Requests, 1)
	assert.Equal(t, "https://api.example.com/users/{{userId}}", col.Requests[0].Endpoint)
	require.Len(t, col.Folders, 1)
	// Folder without packed data defaults to inherited auth.
	assert.Equal(t, "inherit", col.Folders[0].Auth.Type)
}

func TestClientEnvironment(t *testing.T) {
	payload, err := json.Marshal(map[string]any{
		"id":   "env-1",
		"name": "staging",
		"variables": []map[string]any{
			{"key": "host", "value": "api.example.com", "secret": false},
			{"key": "token", "value": "", "secret": true},
		},
	})
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/access-tokens/environment/env-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok")
	env, err := client.Environment(context.Background(), "env-1")
	require.NoError(t, err)
	assert.Equal(t, "staging", env.Name)
	require.Len(t, env.Variables, 2)
	assert.True(t, env.Variables[1].Secret)
}

func TestClientTrailingSlashServerURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/access-tokens/environment/e", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "e", "name": "n", "variables": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "tok")
	_, err := client.Environment(context.Background(), "e")
	require.NoError(t, err)
}

func TestClientNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok")
	_, err := client.Collection(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, clierror.HasCode(err, clierror.CodeInvalidServerURL))

	var cliErr *clierror.Error
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, server.URL, cliErr.Data)
}

func TestClientNonJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>login page</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok")
	_, err := client.Collection(context.Background(), "col-1")
	require.Error(t, err)
	assert.True(t, clierror.HasCode(err, clierror.CodeInvalidServerURL))
}

func TestClientStructuredReason(t *testing.T) {
	tests := []struct {
		name     string
		reason   string
		wantCode clierror.Code
		wantData any
	}{
		{"expired token carries the token", "TOKEN_EXPIRED", clierror.CodeTokenExpired, "tok"},
		{"invalid token carries the token", "TOKEN_INVALID", clierror.CodeTokenInvalid, "tok"},
		{"other reasons carry the identifier", "INVALID_ID", clierror.Code("INVALID_ID"), "col-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"reason": "` + tt.reason + `"}`))
			}))
			defer server.Close()

			client := NewClient(server.URL, "tok")
			_, err := client.Collection(context.Background(), "col-1")
			require.Error(t, err)

			var cliErr *clierror.Error
			require.ErrorAs(t, err, &cliErr)
			assert.Equal(t, tt.wantCode, cliErr.Code)
			assert.Equal(t, tt.wantData, cliErr.Data)
		})
	}
}

func TestClientUnclassifiedRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok")
	_, err := client.Collection(context.Background(), "col-1")
	require.Error(t, err)

	// No structured reason: the error stays untyped so the acquirer can
	// fall back to the local file.
	var cliErr *clierror.Error
	assert.False(t, errors.As(err, &cliErr))
}

func TestClientConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, "tok")
	_, err := client.Collection(context.Background(), "col-1")
	require.Error(t, err)
	assert.True(t, clierror.HasCode(err, clierror.CodeServerConnectionRefused))
}

func TestClientMalformedServerURL(t *testing.T) {
	client := NewClient("not-a-url", "tok")
	_, err := client.Collection(context.Background(), "col-1")
	require.Error(t, err)
	assert.True(t, clierror.HasCode(err, clierror.CodeInvalidServerURL))
}

func TestClientDefaultServerURL(t *testing.T) {
	client := NewClient("", "tok")
	assert.Equal(t, DefaultServerURL, client.serverURL)
}
