// Package runner walks collections depth-first and executes each request
// after template resolution, collecting per-request results and a latency
// summary for the run.
package runner

import (
	"context"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hoppscotch/hopp-cli/packages/core/collection"
	"github.com/hoppscotch/hopp-cli/packages/core/request"
	"github.com/hoppscotch/hopp-cli/packages/http"
)

// Config controls one Runner.
type Config struct {
	// Delay is the fixed pause between requests; zero disables pacing.
	Delay time.Duration
}

type Runner struct {
	client  *http.Client
	limiter *rate.Limiter
}

type RunnerOption func(*Runner)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) RunnerOption {
	return func(r *Runner) {
		r.client = client
	}
}

func NewRunner(cfg *Config, opts ...RunnerOption) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = http.NewClient()
	}
	if cfg != nil && cfg.Delay > 0 {
		r.limiter = rate.NewLimiter(rate.Every(cfg.Delay), 1)
	}
	return r
}

// RequestResult is the outcome of one executed request.
type RequestResult struct {
	// Path is the folder path to the request, "folder / subfolder" style.
	Path     string
	Name     string
	Method   string
	URL      string
	Status   string
	Code     int
	Duration time.Duration
	// Err is set when the request could not be resolved or executed.
	Err error
}

// Passed reports whether the request counts as passing: it executed and
// the response was in the 2xx or 3xx family.
func (r *RequestResult) Passed() bool {
	return r.Err == nil && r.Code >= 200 && r.Code < 400
}

// RunResult aggregates one run over a set of collections.
type RunResult struct {
	Source   string
	Results  []*RequestResult
	Passed   int
	Failed   int
	Duration time.Duration
	Latency  *LatencySummary
}

// Run executes every request in cols, in document order, resolving
// templates against vars. Request-level failures are recorded, not
// returned; the error return covers run-level aborts like context
// cancellation.
func (rn *Runner) Run(ctx context.Context, source string, cols []*collection.Collection, vars map[string]string) (*RunResult, error) {
	result := &RunResult{Source: source}
	latencies := newLatencyRecorder()
	start := time.Now()

	for _, col := range cols {
		inherited := request.Inherited{Auth: col.Auth, Headers: col.Headers}
		if err := rn.walk(ctx, col, col.Name, inherited, vars, result, latencies); err != nil {
			return nil, err
		}
	}

	result.Duration = time.Since(start)
	result.Latency = latencies.summary()
	return result, nil
}

func (rn *Runner) walk(ctx context.Context, col *collection.Collection, path string, inherited request.Inherited, vars map[string]string, result *RunResult, latencies *latencyRecorder) error {
	for _, req := range col.Requests {
		if err := ctx.Err(); err != nil {
			return err
		}
		if rn.limiter != nil {
			if err := rn.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		rr := rn.execute(ctx, req, path, inherited, vars)
		result.Results = append(result.Results, rr)
		if rr.Passed() {
			result.Passed++
		} else {
			result.Failed++
		}
		if rr.Err == nil {
			latencies.record(rr.Duration)
		}
	}

	for _, folder := range col.Folders {
		// Folders without their own auth pass the inherited one down.
		next := request.Inherited{
			Auth:    folder.Auth,
			Headers: append(append([]collection.KeyValue{}, inherited.Headers...), folder.Headers...),
		}
		if folder.Auth.Type == "" || folder.Auth.Type == "inherit" {
			next.Auth = inherited.Auth
		}
		if err := rn.walk(ctx, folder, joinPath(path, folder.Name), next, vars, result, latencies); err != nil {
			return err
		}
	}
	return nil
}

func (rn *Runner) execute(ctx context.Context, req *collection.Request, path string, inherited request.Inherited, vars map[string]string) *RequestResult {
	rr := &RequestResult{
		Path:   path,
		Name:   req.Name,
		Method: req.Method,
	}

	eff, err := request.EffectiveRequest(req, inherited, vars)
	if err != nil {
		rr.Err = err
		return rr
	}
	rr.URL = eff.URL

	resp, err := rn.client.Do(ctx, &http.Request{
		Method:  eff.Method,
		URL:     eff.URL,
		Headers: eff.Headers,
		Body:    eff.Body,
	})
	if err != nil {
		rr.Err = err
		return rr
	}

	rr.Status = resp.Status
	rr.Code = resp.StatusCode
	rr.Duration = resp.Duration
	return rr
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return strings.TrimSpace(parent) + " / " + strings.TrimSpace(name)
}
