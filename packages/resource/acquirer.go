// Package resource acquires a named collection or environment from either
// the local filesystem or a remote workspace, with a deterministic
// fallback: a local file always wins, the network is tried only when an
// access token is present and no file exists, and only classified remote
// failures are fatal.
package resource

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hoppscotch/hopp-cli/packages/clierror"
	"github.com/hoppscotch/hopp-cli/packages/core/collection"
	"github.com/hoppscotch/hopp-cli/packages/core/environment"
	"github.com/hoppscotch/hopp-cli/packages/workspace"
)

// ProbeFunc reports whether pathOrID names an existing local file. It must
// not fail: any probe error counts as "not local".
type ProbeFunc func(pathOrID string) bool

// WarnFunc receives diagnostics for non-fatal conditions, such as an
// unclassified remote failure that triggered the local fallback.
type WarnFunc func(format string, args ...any)

// Acquirer resolves path-or-identifier arguments into documents. All
// knobs, including the server URL and the existence probe, are injected
// at construction so tests can override them.
type Acquirer struct {
	serverURL string
	token     string
	probe     ProbeFunc
	client    *workspace.Client
	warn      WarnFunc
}

type Option func(*Acquirer)

// WithServerURL overrides the workspace server (the hosted endpoint is
// used by default).
func WithServerURL(url string) Option {
	return func(a *Acquirer) {
		a.serverURL = url
	}
}

// WithAccessToken enables remote fetching for identifiers that do not
// exist locally.
func WithAccessToken(token string) Option {
	return func(a *Acquirer) {
		a.token = token
	}
}

// WithProbe replaces the filesystem existence probe.
func WithProbe(probe ProbeFunc) Option {
	return func(a *Acquirer) {
		a.probe = probe
	}
}

// WithWarnFunc installs the diagnostics hook.
func WithWarnFunc(warn WarnFunc) Option {
	return func(a *Acquirer) {
		a.warn = warn
	}
}

// WithClient replaces the workspace client, mainly for tests.
func WithClient(client *workspace.Client) Option {
	return func(a *Acquirer) {
		a.client = client
	}
}

func New(opts ...Option) *Acquirer {
	a := &Acquirer{
		probe: fileExists,
		warn:  func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.client == nil && a.token != "" {
		a.client = workspace.NewClient(a.serverURL, a.token)
	}
	return a
}

// Collections acquires the collection list named by pathOrID. When the
// probe finds a local file, the network is never consulted, even with a
// token configured.
func (a *Acquirer) Collections(ctx context.Context, pathOrID string) ([]*collection.Collection, error) {
	exists := a.probe(pathOrID)

	if a.token != "" && !exists {
		cols, err := a.client.Collection(ctx, pathOrID)
		if err == nil {
			return cols, nil
		}
		if fatal(err) {
			return nil, fmt.Errorf("acquiring collection %q: %w", pathOrID, err)
		}
		a.warn("workspace fetch for collection %q failed, falling back to local file: %v", pathOrID, err)
	}

	return collection.ReadFile(pathOrID, exists)
}

// Environment acquires the environment named by pathOrID with the same
// probe-then-decide protocol as Collections.
func (a *Acquirer) Environment(ctx context.Context, pathOrID string) (*environment.Environment, error) {
	exists := a.probe(pathOrID)

	if a.token != "" && !exists {
		env, err := a.client.Environment(ctx, pathOrID)
		if err == nil {
			return env, nil
		}
		if fatal(err) {
			return nil, fmt.Errorf("acquiring environment %q: %w", pathOrID, err)
		}
		a.warn("workspace fetch for environment %q failed, falling back to local file: %v", pathOrID, err)
	}

	return environment.ReadFile(pathOrID, exists)
}

// fatal reports whether a remote failure carries a classification from the
// error taxonomy. Unclassified failures permit the local fallback.
func fatal(err error) bool {
	var cliErr *clierror.Error
	return errors.As(err, &cliErr)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
