package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/tunefeat/internal/config"
	"github.com/hyperjump/tunefeat/internal/models"
)

type options struct {
	format     string
	delimiter  rune
	sheet      string
	table      string
	skipHeader bool
	columns    []string
	logger     *zap.Logger
}

// Option configures Load.
type Option func(*options)

// WithFormat forces a format: "csv", "xlsx", "sqlite", or "auto" (by extension).
func WithFormat(format string) Option {
	return func(o *options) { o.format = format }
}

// WithDelimiter sets the CSV field delimiter. Zero picks by extension (tab for .tsv, comma otherwise).
func WithDelimiter(r rune) Option {
	return func(o *options) { o.delimiter = r }
}

// WithSheet selects the XLSX sheet to read.
func WithSheet(name string) Option {
	return func(o *options) { o.sheet = name }
}

// WithTable selects the SQLite table to read.
func WithTable(name string) Option {
	return func(o *options) {
		if name != "" {
			o.table = name
		}
	}
}

// WithSkipHeader skips the first CSV/XLSX row.
func WithSkipHeader(skip bool) Option {
	return func(o *options) { o.skipHeader = skip }
}

// WithColumns sets the expected column list. Load fails unless it equals models.Columns;
// the check exists so callers that build their own schema find out at startup.
func WithColumns(cols []string) Option {
	return func(o *options) { o.columns = cols }
}

// WithLogger sets a logger for load summaries.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// OptionsFromConfig translates dataset config into loader options.
func OptionsFromConfig(cfg *config.DatasetConfig) []Option {
	opts := []Option{
		WithFormat(cfg.Format),
		WithSheet(cfg.Sheet),
		WithTable(cfg.Table),
		WithSkipHeader(cfg.SkipHeader),
	}
	if d := []rune(cfg.Delimiter); len(d) == 1 {
		opts = append(opts, WithDelimiter(d[0]))
	}
	return opts
}

func (o *options) delimiterFor(path string) rune {
	if o.delimiter != 0 {
		return o.delimiter
	}
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

// DetectFormat resolves format for path. "auto" or "" picks by file extension.
func DetectFormat(path, format string) (string, error) {
	switch format {
	case "csv", "xlsx", "sqlite":
		return format, nil
	case "", "auto":
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".tsv", ".txt":
		return "csv", nil
	case ".xlsx":
		return "xlsx", nil
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite", nil
	default:
		return "", fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}
}

// Load reads the dataset at path into an immutable Table.
// It fails if the file is missing or malformed, or if any row does not have exactly
// the expected columns.
func Load(ctx context.Context, path string, opts ...Option) (*Table, error) {
	o := &options{
		format:  "auto",
		table:   "tracks",
		columns: models.Columns,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if path == "" {
		return nil, ErrNoPath
	}
	if !models.SameColumns(o.columns) {
		return nil, fmt.Errorf("%w: expected schema %v, want %v", ErrColumnCount, o.columns, models.Columns)
	}
	format, err := DetectFormat(path, o.format)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve dataset path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", abs, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("dataset %s: is a directory", abs)
	}

	start := time.Now()
	var tracks []models.Track
	switch format {
	case "csv":
		tracks, err = readCSV(ctx, abs, o)
	case "xlsx":
		tracks, err = readXLSX(ctx, abs, o)
	case "sqlite":
		tracks, err = readSQLite(ctx, abs, o)
	}
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", abs, err)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("load dataset %s: %w", abs, ErrEmpty)
	}

	o.logger.Info("dataset loaded",
		zap.String("path", abs),
		zap.String("format", format),
		zap.Int("rows", len(tracks)),
		zap.Duration("took", time.Since(start)),
	)
	return &Table{
		tracks: tracks,
		source: SourceInfo{Path: abs, Format: format, Size: info.Size(), LoadedAt: time.Now()},
	}, nil
}
