package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/hoppscotch/hopp-cli/packages/runner"
)

// JSONOutput represents the complete JSON report
type JSONOutput struct {
	Summary  JSONSummary   `json:"summary"`
	Requests []JSONRequest `json:"requests"`
	Duration float64       `json:"duration"`
	Time     string        `json:"time"`
}

// JSONSummary represents the run summary
type JSONSummary struct {
	Total   int          `json:"total"`
	Passed  int          `json:"passed"`
	Failed  int          `json:"failed"`
	Latency *JSONLatency `json:"latency,omitempty"`
}

// JSONLatency reports the latency distribution in milliseconds
type JSONLatency struct {
	Min  float64 `json:"min"`
	Mean float64 `json:"mean"`
	P95  float64 `json:"p95"`
	P99  float64 `json:"p99"`
	Max  float64 `json:"max"`
}

// JSONRequest represents a single executed request
type JSONRequest struct {
	Path     string  `json:"path"`
	Name     string  `json:"name"`
	Method   string  `json:"method"`
	URL      string  `json:"url,omitempty"`
	Status   int     `json:"status,omitempty"`
	Passed   bool    `json:"passed"`
	Duration float64 `json:"duration"`
	Error    string  `json:"error,omitempty"`
}

// JSONFormatter formats run results as JSON
type JSONFormatter struct {
	writer  io.Writer
	results []JSONRequest
	latency *runner.LatencySummary
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		results: make([]JSONRequest, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

func (f *JSONFormatter) FormatResult(result *runner.RunResult) {
	for _, r := range result.Results {
		req := JSONRequest{
			Path:     r.Path,
			Name:     r.Name,
			Method:   r.Method,
			URL:      r.URL,
			Status:   r.Code,
			Passed:   r.Passed(),
			Duration: float64(r.Duration.Milliseconds()),
		}
		if r.Err != nil {
			req.Error = r.Err.Error()
		}
		f.results = append(f.results, req)
	}
	f.latency = result.Latency
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are included in individual request results
}

// Flush writes the accumulated JSON report
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	var passed, failed int
	for _, r := range f.results {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}

	out := JSONOutput{
		Summary: JSONSummary{
			Total:  len(f.results),
			Passed: passed,
			Failed: failed,
		},
		Requests: f.results,
		Duration: float64(totalDuration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}

	if f.latency != nil {
		ms := func(d time.Duration) float64 { return float64(d.Microseconds()) / 1000 }
		out.Summary.Latency = &JSONLatency{
			Min:  ms(f.latency.Min),
			Mean: ms(f.latency.Mean),
			P95:  ms(f.latency.P95),
			P99:  ms(f.latency.P99),
			Max:  ms(f.latency.Max),
		}
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
