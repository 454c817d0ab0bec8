// Package main is the tunefeat CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/hyperjump/tunefeat/internal/cli"
	"github.com/hyperjump/tunefeat/internal/config"
	"github.com/hyperjump/tunefeat/internal/dataset"
	"github.com/hyperjump/tunefeat/internal/form"
	"github.com/hyperjump/tunefeat/internal/lookup"
	"github.com/hyperjump/tunefeat/internal/models"
	"github.com/hyperjump/tunefeat/internal/suggest"
	"github.com/hyperjump/tunefeat/internal/watcher"
	"github.com/hyperjump/tunefeat/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/tunefeat/config.yaml"

// Exit codes for lookup.
const (
	exitFound    = 0
	exitFailure  = 1
	exitNotFound = 2
)

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// When neither the default nor the fallback exists, built-in defaults are returned with
// an empty resolved path, so --dataset alone is enough to run.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// applyDatasetFlag overrides the configured dataset path with the --dataset value, if any.
func applyDatasetFlag(cfg *config.Config, datasetPath string) error {
	if datasetPath == "" {
		return nil
	}
	abs, err := filepath.Abs(datasetPath)
	if err != nil {
		return fmt.Errorf("resolve dataset path: %w", err)
	}
	cfg.Dataset.Path = abs
	return nil
}

// resolveOutputFormat returns the flag value when set, otherwise the configured format.
func resolveOutputFormat(flagValue string, cfg *config.Config) (cli.OutputFormat, error) {
	if flagValue != "" {
		return cli.ParseOutputFormat(flagValue)
	}
	return cli.ParseOutputFormat(cfg.Output.Format)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "lookup":
		os.Exit(runLookup())
	case "form":
		runForm()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("tunefeat version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// printLookupUsage prints lookup subcommand usage.
func printLookupUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: tunefeat lookup [flags] <title>\n\n")
	fmt.Fprintf(fs.Output(), "Title is all remaining arguments joined by spaces. Multi-word titles work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Every row whose song title contains the query, ignoring case, is printed in file order.
Exit status: 0 when something matched, 2 when nothing matched or the title was blank, 1 on error.

Examples:
  tunefeat lookup mask off
  tunefeat lookup --dataset ./spotify_data.csv redbone
  tunefeat lookup --output json "parallel lines"
`)
}

// buildQuery joins all positional args with spaces so multi-word titles
// work the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the title
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument, so "tunefeat lookup mask --output json"
// would otherwise leave --output unparsed.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// exitCode maps a lookup status to the process exit status.
func exitCode(res *models.LookupResult) int {
	switch res.Status {
	case models.StatusFound:
		return exitFound
	case models.StatusNotFound, models.StatusInvalidInput:
		return exitNotFound
	default:
		return exitFailure
	}
}

func runLookup() int {
	fs := flag.NewFlagSet("lookup", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	datasetPath := fs.String("dataset", "", "dataset file path (overrides dataset.path in config)")
	outputFormat := fs.String("output", "", "output format: text (human-readable), compact (one row per line), or json (parseable); default from config")
	debug := fs.Bool("debug", false, "enable debug logging")
	fs.Usage = func() { printLookupUsage(fs) }
	_ = fs.Parse(argsReorder(os.Args[2:]))

	if fs.NArg() < 1 {
		printLookupUsage(fs)
		return exitNotFound
	}

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return exitFailure
	}
	if err := applyDatasetFlag(cfg, *datasetPath); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitFailure
	}
	format, err := resolveOutputFormat(*outputFormat, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitFailure
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return exitFailure
	}
	defer logger.Sync()
	logger.Debug("config loaded", zap.String("config_path", resolvedConfigPath))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		return exitFailure
	}
	defer components.Close()

	res := components.Engine.Lookup(ctx, buildQuery(fs.Args()))
	if err := cli.WriteLookupResult(os.Stdout, res, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		return exitFailure
	}
	return exitCode(res)
}

func runForm() {
	fs := flag.NewFlagSet("form", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	datasetPath := fs.String("dataset", "", "dataset file path (overrides dataset.path in config)")
	outputFormat := fs.String("output", "", "output format: text, compact, or json; default from config")
	watch := fs.Bool("watch", false, "reload the dataset when its file changes (also enabled by dataset.watch)")
	debug := fs.Bool("debug", false, "enable debug logging (reloads, watcher events, lookups)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := applyDatasetFlag(cfg, *datasetPath); err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
	format, err := resolveOutputFormat(*outputFormat, cfg)
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("dataset", cfg.Dataset.Path),
		zap.Bool("debug", debugMode),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := initializeComponents(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	if cfg.Dataset.Watch || *watch {
		w, err := startWatcher(ctx, components.Store, logger, debugMode)
		if err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer w.Stop()
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	f := form.New(components.Engine, os.Stdin, os.Stdout,
		form.WithPrompt(interactive),
		form.WithFormat(format),
		form.WithLogger(logger),
	)
	if err := f.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("form stopped", zap.Error(err))
	}
}

// startWatcher reloads the store whenever the dataset file is written or replaced.
func startWatcher(ctx context.Context, store *dataset.Store, logger *zap.Logger, debug bool) (*watcher.Watcher, error) {
	watchOpts := []watcher.WatcherOption{}
	if debug {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	w := watcher.NewWatcher(
		[]string{store.Path()},
		func(path string) {
			store.Reload(ctx)
		},
		func(path string) {
			logger.Warn("dataset file removed, keeping current table", zap.String("path", path))
		},
		watchOpts...,
	)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// statusConfigResponse holds configuration info returned by status.
type statusConfigResponse struct {
	Delimiter          string `json:"delimiter,omitempty"`
	Sheet              string `json:"sheet,omitempty"`
	Table              string `json:"table,omitempty"`
	SkipHeader         bool   `json:"skip_header"`
	Watch              bool   `json:"watch"`
	SuggestionsEnabled bool   `json:"suggestions_enabled"`
	MaxSuggestions     int    `json:"max_suggestions,omitempty"`
	Fuzziness          int    `json:"fuzziness,omitempty"`
	OutputFormat       string `json:"output_format"`
}

// statusResponse is the shape of status --output json.
type statusResponse struct {
	Rows           int                   `json:"rows"`
	Dataset        dataset.SourceInfo    `json:"dataset"`
	SuggestionSize uint64                `json:"suggestion_index_size"`
	Config         *statusConfigResponse `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	datasetPath := fs.String("dataset", "", "dataset file path (overrides dataset.path in config)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if *outputFormat != "text" && *outputFormat != "json" {
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := applyDatasetFlag(cfg, *datasetPath); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(context.Background(), cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer components.Close()

	status, err := buildStatus(cfg, components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("rows:                   %d   # tracks in the loaded table\n", status.Rows)
		fmt.Printf("dataset:                %s\n", status.Dataset.Path)
		fmt.Printf("format:                 %s\n", status.Dataset.Format)
		fmt.Printf("size_bytes:             %d   # dataset file on disk\n", status.Dataset.Size)
		fmt.Printf("loaded_at:              %s\n", status.Dataset.LoadedAt.Format(time.RFC3339))
		fmt.Printf("suggestion_index_size:  %d   # titles in the suggestion index\n", status.SuggestionSize)
		if status.Config != nil {
			fmt.Println()
			fmt.Println("# configuration")
			if status.Config.Delimiter != "" {
				fmt.Printf("delimiter:              %q\n", status.Config.Delimiter)
			}
			if status.Config.Sheet != "" {
				fmt.Printf("sheet:                  %s\n", status.Config.Sheet)
			}
			if status.Dataset.Format == "sqlite" {
				fmt.Printf("table:                  %s\n", status.Config.Table)
			}
			fmt.Printf("skip_header:            %t\n", status.Config.SkipHeader)
			fmt.Printf("watch:                  %t\n", status.Config.Watch)
			fmt.Printf("suggestions_enabled:    %t\n", status.Config.SuggestionsEnabled)
			if status.Config.SuggestionsEnabled {
				fmt.Printf("max_suggestions:        %d\n", status.Config.MaxSuggestions)
				fmt.Printf("fuzziness:              %d\n", status.Config.Fuzziness)
			}
			fmt.Printf("output_format:          %s\n", status.Config.OutputFormat)
		}
	}
}

// buildStatus collects table and configuration details for the status command.
func buildStatus(cfg *config.Config, c *Components) (*statusResponse, error) {
	table, err := c.Store.Current()
	if err != nil {
		return nil, err
	}
	status := &statusResponse{
		Rows:    table.Len(),
		Dataset: table.Source(),
		Config: &statusConfigResponse{
			Delimiter:          cfg.Dataset.Delimiter,
			Sheet:              cfg.Dataset.Sheet,
			Table:              cfg.Dataset.Table,
			SkipHeader:         cfg.Dataset.SkipHeader,
			Watch:              cfg.Dataset.Watch,
			SuggestionsEnabled: c.Suggester != nil,
			MaxSuggestions:     cfg.Search.MaxSuggestions,
			Fuzziness:          cfg.Search.Fuzziness,
			OutputFormat:       cfg.Output.Format,
		},
	}
	if c.Suggester != nil {
		status.SuggestionSize = c.Suggester.Size()
	}
	return status, nil
}

// Components holds initialized services.
type Components struct {
	Store     *dataset.Store
	Suggester *suggest.Suggester
	Engine    *lookup.Engine
}

func (c *Components) Close() {
	if c.Suggester != nil {
		_ = c.Suggester.Close()
	}
}

// initializeComponents builds the store, the optional suggester, and the lookup engine,
// then performs the initial load. A failed initial load is returned as an error.
func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	if cfg.Dataset.Path == "" {
		return nil, fmt.Errorf("no dataset configured (set dataset.path or pass --dataset): %w", dataset.ErrNoPath)
	}

	storeOpts := append(dataset.OptionsFromConfig(&cfg.Dataset), dataset.WithLogger(logger))
	store := dataset.NewStore(cfg.Dataset.Path, storeOpts...)

	c := &Components{Store: store}
	engineOpts := []lookup.EngineOption{lookup.WithLogger(logger)}
	if cfg.Search.SuggestionsOrDefault() {
		c.Suggester = suggest.NewSuggester(cfg.Search.Fuzziness, suggest.WithLogger(logger))
		store.OnLoad(c.Suggester.Rebuild)
		engineOpts = append(engineOpts, lookup.WithSuggester(c.Suggester, cfg.Search.MaxSuggestions))
	}

	if err := store.Load(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	c.Engine = lookup.NewEngine(store, engineOpts...)
	return c, nil
}

func printUsage() {
	fmt.Println(`tunefeat - Look up Spotify audio features by song title

Usage:
  tunefeat lookup [flags] <title>   Print every track whose title contains <title>
  tunefeat form [flags]             Prompt for titles until EOF or :q
  tunefeat status [flags]           Show the loaded dataset and configuration
  tunefeat version                  Show version
  tunefeat help                     Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/tunefeat/config.yaml, or ./config.yaml when present)
  --dataset string   Dataset file (.csv, .tsv, .xlsx, .db/.sqlite); overrides dataset.path

Lookup Flags:
  --output string    Output format: text, compact, or json (default from config, text)
  --debug            Enable debug logging

Form Flags:
  --output string    Output format: text, compact, or json (default from config, text)
  --watch            Reload the dataset when the file changes
  --debug            Enable debug logging

Status Flags:
  --output string    Output format: text or json (default: text)

Examples:
  tunefeat lookup mask off
  tunefeat lookup --dataset ./spotify_data.csv --output json redbone
  tunefeat form --dataset ./spotify_data.csv
  tunefeat status --output json`)
}
