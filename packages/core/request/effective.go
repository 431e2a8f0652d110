package request

import (
	"encoding/base64"
	"net/url"

	"github.com/hoppscotch/hopp-cli/packages/clierror"
	"github.com/hoppscotch/hopp-cli/packages/core/collection"
	"github.com/hoppscotch/hopp-cli/packages/template"
)

// Inherited carries the auth and headers a request picks up from its
// enclosing folders. A request whose auth type is "inherit" uses
// Inherited.Auth; folder headers apply under the request's own.
type Inherited struct {
	Auth    collection.Auth
	Headers []collection.KeyValue
}

// Effective is a request after template substitution, ready to execute.
type Effective struct {
	Name    string
	Method  string
	URL     string
	Headers map[string]string
	Body    string
}

// EffectiveRequest resolves req against vars: endpoint, parameters,
// headers, body and auth. Any unresolvable template fails the whole
// request with a PARSING_ERROR.
func EffectiveRequest(req *collection.Request, inherited Inherited, vars map[string]string) (*Effective, error) {
	endpoint, err := parseField(req.Endpoint, vars)
	if err != nil {
		return nil, err
	}

	// Folder headers first so the request's own entries win in the map.
	headerEntries := make([]collection.KeyValue, 0, len(inherited.Headers)+len(req.Headers))
	headerEntries = append(headerEntries, inherited.Headers...)
	headerEntries = append(headerEntries, req.Headers...)
	resolvedHeaders, err := ResolveEntries(headerEntries, vars)
	if err != nil {
		return nil, err
	}
	headers := ToMap(resolvedHeaders)

	resolvedParams, err := ResolveEntries(req.Params, vars)
	if err != nil {
		return nil, err
	}

	body, err := parseField(req.Body.Body, vars)
	if err != nil {
		return nil, err
	}
	if body != "" && req.Body.ContentType != "" {
		headers["Content-Type"] = req.Body.ContentType
	}

	auth := req.Auth
	if auth.Type == "inherit" {
		auth = inherited.Auth
	}
	authParams, err := applyAuth(auth, headers, vars)
	if err != nil {
		return nil, err
	}
	resolvedParams = append(resolvedParams, authParams...)

	finalURL, err := buildURL(endpoint, resolvedParams)
	if err != nil {
		return nil, clierror.Wrap(clierror.CodeInvalidArgument, endpoint, err)
	}

	return &Effective{
		Name:    req.Name,
		Method:  req.Method,
		URL:     finalURL,
		Headers: headers,
		Body:    body,
	}, nil
}

// applyAuth sets the Authorization header (or returns extra query params
// for api-key auth sent in the query string). Credential fields are
// templated like any other metadata.
func applyAuth(auth collection.Auth, headers map[string]string, vars map[string]string) ([]collection.KeyValue, error) {
	if !auth.Active {
		return nil, nil
	}

	switch auth.Type {
	case "basic":
		user, err := parseField(auth.Username, vars)
		if err != nil {
			return nil, err
		}
		pass, err := parseField(auth.Password, vars)
		if err != nil {
			return nil, err
		}
		headers["Authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))

	case "bearer":
		token, err := parseField(auth.Token, vars)
		if err != nil {
			return nil, err
		}
		headers["Authorization"] = "Bearer " + token

	case "api-key":
		key, err := parseField(auth.Key, vars)
		if err != nil {
			return nil, err
		}
		value, err := parseField(auth.Value, vars)
		if err != nil {
			return nil, err
		}
		if auth.AddTo == collection.AddToQueryParams {
			return []collection.KeyValue{{Key: key, Value: value, Active: true}}, nil
		}
		headers[key] = value
	}
	return nil, nil
}

func buildURL(endpoint string, params []collection.KeyValue) (string, error) {
	if len(params) == 0 {
		return endpoint, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for _, p := range params {
		q.Add(p.Key, p.Value)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func parseField(input string, vars map[string]string) (string, error) {
	if input == "" {
		return "", nil
	}
	out, err := template.Parse(input, vars)
	if err != nil {
		return "", clierror.Wrap(clierror.CodeParsingError, input, err)
	}
	return out, nil
}
