// Package workspace fetches collections and environments from a remote
// Hoppscotch workspace through its access-token endpoint and transforms
// the wire payloads into the same canonical documents a local file yields.
package workspace

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/tidwall/gjson"

	"github.com/hoppscotch/hopp-cli/packages/clierror"
	"github.com/hoppscotch/hopp-cli/packages/core/collection"
	"github.com/hoppscotch/hopp-cli/packages/core/environment"
	"github.com/hoppscotch/hopp-cli/packages/http"
)

// DefaultServerURL is the hosted workspace endpoint used when no server
// is configured.
const DefaultServerURL = "https://api.hoppscotch.io"

// ResourceType selects which kind of document an identifier names.
type ResourceType string

const (
	ResourceCollection  ResourceType = "collection"
	ResourceEnvironment ResourceType = "environment"
)

// Client talks to one workspace server with one access token.
type Client struct {
	serverURL string
	token     string
	httpc     *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests
// that need custom timeouts or TLS settings.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// NewClient returns a client for serverURL (DefaultServerURL when empty)
// authenticating with token.
func NewClient(serverURL, token string, opts ...Option) *Client {
	c := &Client{
		serverURL: serverURL,
		token:     token,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.serverURL == "" {
		c.serverURL = DefaultServerURL
	}
	if c.httpc == nil {
		c.httpc = http.NewClient()
	}
	return c
}

// Collection fetches and transforms the collection identified by id.
func (c *Client) Collection(ctx context.Context, id string) ([]*collection.Collection, error) {
	raw, err := c.fetch(ctx, ResourceCollection, id)
	if err != nil {
		return nil, err
	}
	return transformCollection(raw)
}

// Environment fetches and transforms the environment identified by id.
func (c *Client) Environment(ctx context.Context, id string) (*environment.Environment, error) {
	raw, err := c.fetch(ctx, ResourceEnvironment, id)
	if err != nil {
		return nil, err
	}
	return transformEnvironment(raw)
}

// fetch performs the authenticated GET and classifies failures into the
// error taxonomy. A plain (non *clierror.Error) return signals an
// unclassified failure the caller may fall back from.
func (c *Client) fetch(ctx context.Context, rt ResourceType, id string) ([]byte, error) {
	url := c.resourceURL(rt, id)
	if err := http.ValidateURL(url); err != nil {
		return nil, clierror.Wrap(clierror.CodeInvalidServerURL, c.serverURL, err)
	}

	resp, err := c.httpc.Get(ctx, url, map[string]string{
		"Authorization": "Bearer " + c.token,
	})
	if err != nil {
		return nil, c.classifyTransport(err)
	}

	if resp.StatusCode == 404 {
		return nil, clierror.New(clierror.CodeInvalidServerURL, c.serverURL)
	}

	if !resp.IsSuccess() {
		return nil, c.classifyRejection(resp.Body, id)
	}

	if !resp.IsJSON() {
		return nil, clierror.New(clierror.CodeInvalidServerURL, c.serverURL)
	}

	return resp.Body, nil
}

func (c *Client) resourceURL(rt ResourceType, id string) string {
	base := c.serverURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + "v1/access-tokens/" + string(rt) + "/" + id
}

// classifyTransport maps network-level failures: a refused connection and
// an unresolvable host are both fatal, everything else stays unclassified.
func (c *Client) classifyTransport(err error) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return clierror.Wrap(clierror.CodeServerConnectionRefused, c.serverURL, err)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return clierror.Wrap(clierror.CodeInvalidServerURL, c.serverURL, err)
	}
	return err
}

// classifyRejection inspects a non-2xx body for the structured reason
// field. Token-related reasons carry the access token as context for
// diagnostic display; other reasons carry the resource identifier. A body
// without a reason stays unclassified.
func (c *Client) classifyRejection(body []byte, id string) error {
	reason := gjson.GetBytes(body, "reason")
	if !reason.Exists() || reason.String() == "" {
		return errors.New("workspace request rejected: " + strings.TrimSpace(string(body)))
	}

	code := clierror.Code(reason.String())
	data := any(id)
	if code == clierror.CodeTokenExpired || code == clierror.CodeTokenInvalid {
		data = c.token
	}
	return clierror.New(code, data)
}
