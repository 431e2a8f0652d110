package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/hoppscotch/hopp-cli/packages/clierror"
	"github.com/hoppscotch/hopp-cli/packages/core/request"
	"github.com/hoppscotch/hopp-cli/packages/runner"
)

// StatusDecoration maps an HTTP status family to its display color:
// green for 2xx, yellow for 3xx, red for anything else.
func StatusDecoration(code int) *color.Color {
	switch {
	case code >= 200 && code < 300:
		return color.New(color.FgGreen)
	case code >= 300 && code < 400:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("hopp"), version)
}

func (f *ConsoleFormatter) FormatResult(result *runner.RunResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n\n", bold("Running: "+result.Source))

	for _, r := range result.Results {
		if r.Err != nil {
			fmt.Fprintf(f.writer, "  %s %s / %s %s\n", red("x"), r.Path, r.Name, red(fmt.Sprintf("(%v)", r.Err)))
			f.formatParsingDiagnostics(r.Err)
			continue
		}

		symbol := green("✓")
		if !r.Passed() {
			symbol = red("✗")
		}

		status := StatusDecoration(r.Code).SprintFunc()
		fmt.Fprintf(f.writer, "  %s %s / %s %s %s %s\n",
			symbol, r.Path, r.Name, r.Method, status(r.Status),
			cyan(fmt.Sprintf("(%dms)", r.Duration.Milliseconds())))

		if f.verbose {
			fmt.Fprintf(f.writer, "    %s\n", r.URL)
		}
	}

	fmt.Fprintf(f.writer, "\nRequests: ")
	if result.Passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", result.Passed)))
	}
	if result.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", result.Failed)))
	}
	fmt.Fprintf(f.writer, "%d total\n", result.Passed+result.Failed)
	fmt.Fprintf(f.writer, "Time:     %dms\n", result.Duration.Milliseconds())

	if result.Latency != nil {
		round := 10 * time.Microsecond
		fmt.Fprintf(f.writer, "Latency:  min %s  mean %s  p95 %s  p99 %s  max %s\n",
			result.Latency.Min.Round(round),
			result.Latency.Mean.Round(round),
			result.Latency.P95.Round(round),
			result.Latency.P99.Round(round),
			result.Latency.Max.Round(round))
	}
	fmt.Fprintf(f.writer, "\n")
}

// formatParsingDiagnostics renders the per-entry outcome list carried by a
// PARSING_ERROR so every broken template is visible at once.
func (f *ConsoleFormatter) formatParsingDiagnostics(err error) {
	var cliErr *clierror.Error
	if !errors.As(err, &cliErr) || cliErr.Code != clierror.CodeParsingError {
		return
	}
	outcomes, ok := cliErr.Data.([]request.Outcome)
	if !ok {
		return
	}

	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	for _, o := range outcomes {
		if o.OK() {
			fmt.Fprintf(f.writer, "      %s %s: %s\n", green("ok"), o.Entry.Key, o.Entry.Value)
			continue
		}
		if o.KeyErr != nil {
			fmt.Fprintf(f.writer, "      %s key %q: %v\n", red("!!"), o.Entry.Key, o.KeyErr)
		}
		if o.ValueErr != nil {
			fmt.Fprintf(f.writer, "      %s %s: %v\n", red("!!"), o.Entry.Key, o.ValueErr)
		}
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}
