package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/crudspec/packages/catalog"
	"github.com/abdul-hamid-achik/crudspec/packages/core/config"
	"github.com/abdul-hamid-achik/crudspec/packages/core/env"
	"github.com/abdul-hamid-achik/crudspec/packages/core/runner"
	"github.com/abdul-hamid-achik/crudspec/packages/output"
	"github.com/abdul-hamid-achik/crudspec/packages/store"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the step catalog against the API under test",
	Long: `Run every step of the catalog, in order, against the API under test.
Each step is awaited before the next one starts, with a pause between steps.
A step that fails does not stop the run.

The API URL is taken from --api-url, then CRUDSPEC_API_URL, then API_URL or
VITE_API_URL in .env, then apiUrl in the config file. Without one, every step
settles with "Missing API URL" and no request is sent.

Examples:
  crudspec run --api-url http://localhost:3000
  crudspec run --step post-user-valid --step get-user-valid
  crudspec run --delay 0s --output json --output-file report.json
  crudspec run --output xlsx --output-file report.xlsx
  crudspec run --catalog steps.yaml --watch`,
	Args: cobra.NoArgs,
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond

	// DefaultXLSXFile is written when xlsx output has no --output-file
	DefaultXLSXFile = "crudspec-report.xlsx"
)

var (
	apiURLFlag     string
	configFlag     string
	catalogFlag    string
	stepFlags      []string
	headerFlags    []string
	delayFlag      string
	timeoutFlag    string
	rateLimitFlag  float64
	waitForFlag    string
	verboseFlag    bool
	noColorFlag    bool
	outputFlag     string
	outputFileFlag string
	watchFlag      bool
	noFailFlag     bool
	proxyFlag      string
	insecureFlag   bool
)

func init() {
	// Target flags
	runCmd.Flags().StringVar(&apiURLFlag, "api-url", "", "Base URL of the API under test (env: CRUDSPEC_API_URL)")
	runCmd.Flags().StringVar(&configFlag, "config", getEnvString("CRUDSPEC_CONFIG", ""), "Path to config file (env: CRUDSPEC_CONFIG)")
	runCmd.Flags().StringVar(&catalogFlag, "catalog", getEnvString("CRUDSPEC_CATALOG", ""), "YAML catalog replacing the built-in steps (env: CRUDSPEC_CATALOG)")
	runCmd.Flags().StringArrayVarP(&stepFlags, "step", "s", nil, "Run only this step id (repeatable)")
	runCmd.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, "Extra request header \"Name: value\" (repeatable)")

	// Output flags
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("CRUDSPEC_VERBOSE", false), "Show response bodies and debug logs (env: CRUDSPEC_VERBOSE)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("CRUDSPEC_NO_COLOR", false), "Disable colored output (env: CRUDSPEC_NO_COLOR)")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("CRUDSPEC_OUTPUT", ""), "Output format: console, json, xlsx (env: CRUDSPEC_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("CRUDSPEC_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: CRUDSPEC_OUTPUT_FILE)")

	// Execution flags
	runCmd.Flags().StringVar(&delayFlag, "delay", getEnvString("CRUDSPEC_DELAY", ""), "Pause between steps, e.g. 500ms (env: CRUDSPEC_DELAY)")
	runCmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("CRUDSPEC_TIMEOUT", ""), "Request timeout, 0 disables it (e.g., 30s, 1m) (env: CRUDSPEC_TIMEOUT)")
	runCmd.Flags().Float64Var(&rateLimitFlag, "rate-limit", getEnvFloat("CRUDSPEC_RATE_LIMIT", 0), "Maximum requests per second, 0 for no limit (env: CRUDSPEC_RATE_LIMIT)")
	runCmd.Flags().StringVar(&waitForFlag, "wait-for", getEnvString("CRUDSPEC_WAIT_FOR", ""), "Wait up to this long for the API to answer before running (env: CRUDSPEC_WAIT_FOR)")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch config, catalog and .env files and re-run on change")
	runCmd.Flags().BoolVar(&noFailFlag, "no-fail", getEnvBool("CRUDSPEC_NO_FAIL", false), "Exit 0 even when steps settle with errors (env: CRUDSPEC_NO_FAIL)")

	// Network flags
	runCmd.Flags().StringVar(&proxyFlag, "proxy", getEnvString("CRUDSPEC_PROXY", ""), "Proxy URL for HTTP requests (env: CRUDSPEC_PROXY)")
	runCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("CRUDSPEC_INSECURE", false), "Disable SSL certificate validation (env: CRUDSPEC_INSECURE)")
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

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(report *output.Report)
	FormatError(err error)
	FormatHeader(version string)
}

// Progresser is implemented by formatters that render store updates live
type Progresser interface {
	Progress(id string, state store.State, present bool)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// settings is everything a run needs, resolved from files, env and flags
type settings struct {
	config     *config.Config
	configPath string
	baseURL    string
	source     env.Source
	catalog    *catalog.Catalog
}

func loadSettings() (*settings, error) {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, exitErr(ExitConfigError, fmt.Errorf("loading config: %w", err))
	}

	overrides, err := flagOverrides()
	if err != nil {
		return nil, exitErr(ExitUsageError, err)
	}
	cfg := fileConfig.Merge(overrides)

	baseURL, source, err := env.ResolveBaseURL(apiURLFlag, ".", cfg.APIURL)
	if err != nil {
		return nil, exitErr(ExitConfigError, fmt.Errorf("reading .env: %w", err))
	}

	cat := catalog.Default()
	if cfg.Catalog != "" {
		cat, err = catalog.LoadFile(cfg.Catalog)
		if err != nil {
			return nil, exitErr(ExitCatalogError, err)
		}
	}

	configPath := configFlag
	if configPath == "" {
		configPath = config.Find(".")
	}

	return &settings{
		config:     cfg,
		configPath: configPath,
		baseURL:    baseURL,
		source:     source,
		catalog:    cat,
	}, nil
}

// flagOverrides turns the flags that were given into a config layer
func flagOverrides() (*config.Config, error) {
	o := &config.Config{
		Catalog:    catalogFlag,
		RateLimit:  rateLimitFlag,
		Proxy:      proxyFlag,
		Output:     strings.ToLower(outputFlag),
		OutputFile: outputFileFlag,
	}

	if delayFlag != "" {
		d, err := time.ParseDuration(delayFlag)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("invalid delay value %q (use format like 500ms, 1s)", delayFlag)
		}
		o.Delay = &d
	}
	if timeoutFlag != "" {
		d, err := time.ParseDuration(timeoutFlag)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("invalid timeout value %q (use format like 30s, 1m, 500ms)", timeoutFlag)
		}
		o.Timeout = &d
	}
	if rateLimitFlag < 0 {
		return nil, fmt.Errorf("invalid rate limit %v", rateLimitFlag)
	}
	if insecureFlag {
		o.ValidateSSL = config.BoolPtr(false)
	}
	if verboseFlag {
		o.Verbose = config.BoolPtr(true)
	}
	if noColorFlag {
		o.NoColor = config.BoolPtr(true)
	}

	if len(headerFlags) > 0 {
		o.Headers = make(map[string]string, len(headerFlags))
		for _, h := range headerFlags {
			name, value, ok := strings.Cut(h, ":")
			if !ok || strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("invalid header %q (use \"Name: value\")", h)
			}
			o.Headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}
	}

	return o, nil
}

func newFormatter(w io.Writer, cfg *config.Config) (Formatter, func(), error) {
	kind := strings.ToLower(cfg.Output)
	outFile := cfg.OutputFile
	if kind == "xlsx" && outFile == "" {
		outFile = DefaultXLSXFile
	}

	closeFn := func() {}
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot create output file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	switch kind {
	case "json":
		return output.NewJSONFormatter(output.JSONWithWriter(w)), closeFn, nil
	case "xlsx":
		return output.NewXLSXFormatter(output.XLSXWithWriter(w)), closeFn, nil
	case "", "console":
		return output.NewConsoleFormatter(
			output.WithWriter(w),
			output.WithVerbose(cfg.GetVerbose()),
			output.WithNoColor(cfg.GetNoColor()),
		), closeFn, nil
	default:
		closeFn()
		return nil, nil, exitErr(ExitUsageError, fmt.Errorf("unknown output format %q (use console, json or xlsx)", cfg.Output))
	}
}

// runOnce resolves settings from scratch, runs the suite and renders it
func runOnce(ctx context.Context, cmd *cobra.Command) (*runner.RunResult, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, err
	}

	cfg := s.config
	logger := newLogger(cmd.ErrOrStderr(), cfg.GetVerbose())

	if s.baseURL == "" {
		logger.Warn("no API URL configured, every step will settle with a configuration error")
	} else {
		logger.Debug("resolved API URL", "url", s.baseURL, "source", s.source)
	}

	r := runner.NewRunner(&runner.Config{
		BaseURL:        s.baseURL,
		Delay:          cfg.GetDelay(),
		Timeout:        cfg.GetTimeout(),
		FollowRedirect: cfg.GetFollowRedirects(),
		MaxRedirects:   cfg.MaxRedirects,
		ValidateSSL:    cfg.GetValidateSSL(),
		Proxy:          cfg.Proxy,
		RateLimit:      cfg.RateLimit,
		DefaultHeaders: cfg.Headers,
	}, runner.WithCatalog(s.catalog), runner.WithLogger(logger))

	if waitForFlag != "" {
		wait, err := time.ParseDuration(waitForFlag)
		if err != nil {
			return nil, exitErr(ExitUsageError, fmt.Errorf("invalid wait-for value %q: %w", waitForFlag, err))
		}
		if err := r.WaitForAPI(ctx, wait, 0); err != nil {
			return nil, exitErr(ExitConfigError, err)
		}
	}

	formatter, closeOutput, err := newFormatter(cmd.OutOrStdout(), cfg)
	if err != nil {
		return nil, err
	}
	defer closeOutput()

	formatter.FormatHeader(version)
	if p, ok := formatter.(Progresser); ok {
		r.Store().Subscribe(p.Progress)
	}

	var result *runner.RunResult
	if len(stepFlags) > 0 {
		result, err = r.Run(ctx, stepFlags)
		if err != nil {
			formatter.FormatError(err)
			return nil, exitErr(ExitUsageError, err)
		}
	} else {
		result = r.RunAll(ctx)
	}

	formatter.FormatResult(output.NewReport(result, r.Catalog(), r.Store()))

	if flushable, ok := formatter.(Flushable); ok {
		if err := flushable.Flush(result.Duration); err != nil {
			return nil, fmt.Errorf("error writing output: %w", err)
		}
	}

	if strings.EqualFold(cfg.Output, "xlsx") && cfg.OutputFile == "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", DefaultXLSXFile)
	}

	return result, nil
}

func runCommand(cmd *cobra.Command, args []string) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := runOnce(ctx, cmd)
	if err != nil {
		return err
	}

	if !watchFlag {
		return exitStatus(result)
	}
	return watch(ctx, cmd)
}

// exitStatus maps a finished run to the command's result
func exitStatus(result *runner.RunResult) error {
	switch {
	case result.Interrupted:
		return exitErr(ExitInterrupted, nil)
	case result.Failed() && !noFailFlag:
		return exitErr(ExitStepErrors, nil)
	}
	return nil
}

// watchedFiles lists the files whose change triggers a re-run
func watchedFiles() []string {
	files := append([]string{}, env.DotEnvFiles...)
	files = append(files, config.ConfigFilenames...)
	if s, err := loadSettings(); err == nil {
		if s.configPath != "" {
			files = append(files, s.configPath)
		}
		if s.config.Catalog != "" {
			files = append(files, s.config.Catalog)
		}
	}

	abs := make([]string, 0, len(files))
	for _, f := range files {
		if p, err := filepath.Abs(f); err == nil {
			abs = append(abs, p)
		}
	}
	return abs
}

func watch(ctx context.Context, cmd *cobra.Command) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	watchedDirs := make(map[string]bool)
	for _, file := range watchedFiles() {
		watched[file] = true
		dir := filepath.Dir(file)
		if !watchedDirs[dir] {
			if err := watcher.Add(dir); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed to watch %s: %v\n", dir, err)
			}
			watchedDirs[dir] = true
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	// Debounce timer for rapid file changes
	var debounceTimer *time.Timer
	rerun := make(chan string, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, _ := filepath.Abs(event.Name)
			if !watched[name] || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				select {
				case rerun <- event.Name:
				default:
				}
			})

		case file := <-rerun:
			fmt.Fprintf(cmd.OutOrStdout(), "\n\nFile changed: %s\nRe-running steps...\n\n", file)
			if _, err := runOnce(ctx, cmd); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watcher error: %v\n", err)
		}
	}
}
