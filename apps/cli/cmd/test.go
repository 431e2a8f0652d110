package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/hoppscotch/hopp-cli/packages/clierror"
	"github.com/hoppscotch/hopp-cli/packages/core/config"
	"github.com/hoppscotch/hopp-cli/packages/core/environment"
	"github.com/hoppscotch/hopp-cli/packages/history"
	"github.com/hoppscotch/hopp-cli/packages/http"
	"github.com/hoppscotch/hopp-cli/packages/output"
	"github.com/hoppscotch/hopp-cli/packages/resource"
	"github.com/hoppscotch/hopp-cli/packages/runner"
)

var testCmd = &cobra.Command{
	Use:   "test <collection.json|id>",
	Short: "Run requests from a collection against an environment",
	Long: `Run every request in a collection, resolving {{variable}} templates
against the selected environment.

The argument is a local JSON file or, with --token, an identifier known
to the workspace server. A local file always wins over the network.

Examples:
  hopp test collection.json
  hopp test collection.json -e staging.json
  hopp test abc123 --token <access-token>
  hopp test abc123 --token <access-token> --server https://hopp.example.com
  hopp test collection.json --env-file .env --delay 200ms`,
	Args: cobra.ExactArgs(1),
	RunE: testCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	envFlag           string
	envFileFlag       string
	tokenFlag         string
	serverFlag        string
	delayFlag         string
	configFlag        string
	reporterJUnitFlag string
	reporterJSONFlag  string
	historyFlag       string
	insecureFlag      bool
	noColorFlag       bool
	verboseFlag       bool
	watchFlag         bool
)

func init() {
	testCmd.Flags().StringVarP(&envFlag, "env", "e", getEnvString("HOPP_ENV", ""), "Environment file or identifier (env: HOPP_ENV)")
	testCmd.Flags().StringVar(&envFileFlag, "env-file", getEnvString("HOPP_ENV_FILE", ""), "Path to .env file merged over the environment (env: HOPP_ENV_FILE)")
	testCmd.Flags().StringVar(&tokenFlag, "token", getEnvString("HOPP_TOKEN", ""), "Workspace access token (env: HOPP_TOKEN)")
	testCmd.Flags().StringVar(&serverFlag, "server", getEnvString("HOPP_SERVER", ""), "Workspace server URL (env: HOPP_SERVER)")
	testCmd.Flags().StringVar(&delayFlag, "delay", getEnvString("HOPP_DELAY", ""), "Fixed delay between requests, e.g. 200ms (env: HOPP_DELAY)")
	testCmd.Flags().StringVar(&configFlag, "config", getEnvString("HOPP_CONFIG", ""), "Path to config file (env: HOPP_CONFIG)")
	testCmd.Flags().StringVar(&reporterJUnitFlag, "reporter-junit", "", "Write a JUnit XML report to the given path")
	testCmd.Flags().StringVar(&reporterJSONFlag, "reporter-json", "", "Write a JSON report to the given path")
	testCmd.Flags().StringVar(&historyFlag, "history", getEnvString("HOPP_HISTORY", ""), "Record the run in a SQLite history file (env: HOPP_HISTORY)")
	testCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("HOPP_INSECURE", false), "Disable SSL certificate validation (env: HOPP_INSECURE)")
	testCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("HOPP_NO_COLOR", false), "Disable colored output (env: HOPP_NO_COLOR)")
	testCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output")
	testCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch local files for changes and re-run")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

// testOptions is the fully merged configuration for one invocation.
type testOptions struct {
	collectionArg string
	env           string
	envFile       string
	token         string
	serverURL     string
	delay         time.Duration
	reporterJUnit string
	reporterJSON  string
	historyFile   string
	insecure      bool
	noColor       bool
}

func mergeOptions(args []string) (*testOptions, error) {
	fileConfig, err := config.Load(configFlag)
	if err != nil {
		return nil, clierror.Wrap(clierror.CodeInvalidArgument, configFlag, err)
	}

	opts := &testOptions{
		collectionArg: args[0],
		env:           envFlag,
		envFile:       envFileFlag,
		token:         tokenFlag,
		serverURL:     serverFlag,
		reporterJUnit: reporterJUnitFlag,
		reporterJSON:  reporterJSONFlag,
		historyFile:   historyFlag,
		insecure:      insecureFlag || fileConfig.GetInsecure(),
		noColor:       noColorFlag || fileConfig.GetNoColor(),
	}

	if opts.env == "" {
		opts.env = fileConfig.Environment
	}
	if opts.serverURL == "" {
		opts.serverURL = fileConfig.ServerURL
	}
	if opts.reporterJUnit == "" {
		opts.reporterJUnit = fileConfig.ReporterJUnit
	}
	if opts.reporterJSON == "" {
		opts.reporterJSON = fileConfig.ReporterJSON
	}
	if opts.historyFile == "" {
		opts.historyFile = fileConfig.History
	}

	delayStr := delayFlag
	if delayStr == "" {
		delayStr = fileConfig.Delay
	}
	if delayStr != "" {
		d, err := time.ParseDuration(delayStr)
		if err != nil {
			return nil, clierror.Wrap(clierror.CodeInvalidArgument, delayStr, err)
		}
		opts.delay = d
	}

	return opts, nil
}

func testCommand(cmd *cobra.Command, args []string) error {
	opts, err := mergeOptions(args)
	if err != nil {
		return err
	}

	formatter := output.NewConsoleFormatter(
		output.WithVerbose(verboseFlag),
		output.WithNoColor(opts.noColor),
	)
	formatter.FormatHeader(version)

	runOnce := func(ctx context.Context) error {
		result, err := executeRun(ctx, opts)
		if err != nil {
			return err
		}

		formatter.FormatResult(result)

		if err := writeReports(opts, result); err != nil {
			return err
		}

		if result.Failed > 0 {
			return clierror.New(clierror.CodeTestsFailing, result.Failed)
		}
		return nil
	}

	ctx := cmd.Context()
	runErr := runOnce(ctx)

	if !watchFlag {
		return runErr
	}

	return watchAndRerun(cmd, opts, func() {
		if err := runOnce(ctx); err != nil && !clierror.HasCode(err, clierror.CodeTestsFailing) {
			formatter.FormatError(err)
		}
	})
}

// executeRun acquires the documents and runs the collection once.
func executeRun(ctx context.Context, opts *testOptions) (*runner.RunResult, error) {
	acquirer := resource.New(
		resource.WithAccessToken(opts.token),
		resource.WithServerURL(opts.serverURL),
		resource.WithWarnFunc(func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "warning: %s\n", fmt.Sprintf(format, args...))
		}),
	)

	cols, err := acquirer.Collections(ctx, opts.collectionArg)
	if err != nil {
		return nil, err
	}

	vars := map[string]string{}
	if opts.env != "" {
		env, err := acquirer.Environment(ctx, opts.env)
		if err != nil {
			return nil, err
		}
		vars = env.Vars()
	}
	if opts.envFile != "" {
		fileVars, err := environment.LoadDotEnv(opts.envFile)
		if err != nil {
			return nil, clierror.Wrap(clierror.CodeInvalidArgument, opts.envFile, err)
		}
		vars = environment.Merge(vars, fileVars)
	}

	rn := runner.NewRunner(
		&runner.Config{Delay: opts.delay},
		runner.WithHTTPClient(http.NewClient(http.WithValidateSSL(!opts.insecure))),
	)

	startedAt := time.Now()
	result, err := rn.Run(ctx, opts.collectionArg, cols, vars)
	if err != nil {
		return nil, err
	}

	if opts.historyFile != "" {
		if err := recordHistory(opts.historyFile, result, startedAt); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	return result, nil
}

func recordHistory(path string, result *runner.RunResult, startedAt time.Time) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.RecordRun(result, startedAt)
}

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(result *runner.RunResult)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

func writeReports(opts *testOptions, result *runner.RunResult) error {
	if opts.reporterJUnit != "" {
		if err := writeReport(opts.reporterJUnit, result, func(w *os.File) Formatter {
			return output.NewJUnitFormatter(output.JUnitWithWriter(w))
		}); err != nil {
			return err
		}
	}
	if opts.reporterJSON != "" {
		if err := writeReport(opts.reporterJSON, result, func(w *os.File) Formatter {
			return output.NewJSONFormatter(output.JSONWithWriter(w))
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeReport(path string, result *runner.RunResult, build func(*os.File) Formatter) error {
	f, err := os.Create(path)
	if err != nil {
		return clierror.Wrap(clierror.CodeInvalidArgument, path, err)
	}
	defer f.Close()

	formatter := build(f)
	formatter.FormatResult(result)
	if flushable, ok := formatter.(Flushable); ok {
		return flushable.Flush(result.Duration)
	}
	return nil
}

// watchAndRerun re-runs the suite when a watched local file changes.
// Remote identifiers have nothing to watch; only existing files count.
func watchAndRerun(cmd *cobra.Command, opts *testOptions, rerun func()) error {
	var watchFiles []string
	for _, candidate := range []string{opts.collectionArg, opts.env, opts.envFile} {
		if candidate == "" {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			watchFiles = append(watchFiles, filepath.Clean(candidate))
		}
	}
	if len(watchFiles) == 0 {
		return fmt.Errorf("nothing to watch: no local files among the arguments")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watchedDirs := make(map[string]bool)
	for _, file := range watchFiles {
		dir := filepath.Dir(file)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			watchedDirs[dir] = true
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	isWatched := func(path string) bool {
		clean := filepath.Clean(path)
		for _, f := range watchFiles {
			if clean == f {
				return true
			}
		}
		return false
	}

	var debounceTimer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) && isWatched(event.Name) {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
					fmt.Fprintf(cmd.OutOrStdout(), "\nFile changed: %s\nRe-running...\n\n", event.Name)
					rerun()
					fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "warning: watcher error: %v\n", err)
		}
	}
}
