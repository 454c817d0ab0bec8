// Package form runs the interactive title prompt: read a title, print its report, repeat.
package form

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/tunefeat/internal/cli"
	"github.com/hyperjump/tunefeat/internal/models"
)

// Prompt is printed before each read when the form is interactive.
const Prompt = "Enter Song Title: "

// QuitCommand ends the loop when entered on its own line.
const QuitCommand = ":q"

const maxLineBytes = 1 << 20

// Looker answers one title lookup. *lookup.Engine satisfies it.
type Looker interface {
	Lookup(ctx context.Context, query string) *models.LookupResult
}

// Form reads titles from in and writes one report per line to out.
type Form struct {
	looker Looker
	in     io.Reader
	out    io.Writer
	prompt bool
	format cli.OutputFormat
	logger *zap.Logger
}

// Option configures a Form.
type Option func(*Form)

// WithPrompt enables the prompt; set it when in is a terminal.
func WithPrompt(enabled bool) Option {
	return func(f *Form) { f.prompt = enabled }
}

// WithFormat sets the report format (text by default).
func WithFormat(format cli.OutputFormat) Option {
	return func(f *Form) { f.format = format }
}

// WithLogger sets a logger for per-lookup debug output.
func WithLogger(l *zap.Logger) Option {
	return func(f *Form) {
		if l != nil {
			f.logger = l
		}
	}
}

// New returns a form that looks titles up with looker.
func New(looker Looker, in io.Reader, out io.Writer, opts ...Option) *Form {
	f := &Form{
		looker: looker,
		in:     in,
		out:    out,
		format: cli.OutputText,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type line struct {
	text string
	err  error
	eof  bool
}

// Run loops until EOF, the quit command, or ctx is done. It returns nil on EOF and quit,
// ctx.Err() on cancellation, and the read or write error otherwise.
// Each line, blank ones included, gets exactly one report.
func (f *Form) Run(ctx context.Context) error {
	lines := make(chan line)
	go f.readLines(ctx, lines)

	lookups := 0
	for {
		if f.prompt {
			if _, err := io.WriteString(f.out, Prompt); err != nil {
				return err
			}
		}
		var ln line
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ln = <-lines:
		}
		if ln.err != nil {
			return fmt.Errorf("read title: %w", ln.err)
		}
		if ln.eof {
			if f.prompt {
				_, _ = io.WriteString(f.out, "\n")
			}
			f.logger.Debug("form closed", zap.Int("lookups", lookups))
			return nil
		}
		if strings.TrimSpace(ln.text) == QuitCommand {
			f.logger.Debug("form quit", zap.Int("lookups", lookups))
			return nil
		}

		res := f.looker.Lookup(ctx, ln.text)
		lookups++
		f.logger.Debug("form lookup",
			zap.String("lookup_id", res.ID),
			zap.String("status", string(res.Status)),
			zap.Int("total", res.Total))
		if err := cli.WriteLookupResult(f.out, res, f.format); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if f.format != cli.OutputJSON {
			if _, err := io.WriteString(f.out, "\n"); err != nil {
				return err
			}
		}
	}
}

// readLines feeds lines to out until EOF or error. A blocked read outlives a cancelled ctx;
// it ends with the process or the next line.
func (f *Form) readLines(ctx context.Context, out chan<- line) {
	sc := bufio.NewScanner(f.in)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)
	send := func(l line) bool {
		select {
		case out <- l:
			return true
		case <-ctx.Done():
			return false
		}
	}
	for sc.Scan() {
		if !send(line{text: strings.TrimSuffix(sc.Text(), "\r")}) {
			return
		}
	}
	if err := sc.Err(); err != nil {
		send(line{err: err})
		return
	}
	send(line{eof: true})
}
