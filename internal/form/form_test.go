package form

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/tunefeat/internal/cli"
	"github.com/hyperjump/tunefeat/internal/dataset"
	"github.com/hyperjump/tunefeat/internal/dataset/datasettest"
	"github.com/hyperjump/tunefeat/internal/lookup"
	"github.com/hyperjump/tunefeat/internal/models"
)

type recordingLooker struct {
	queries []string
}

func (r *recordingLooker) Lookup(_ context.Context, query string) *models.LookupResult {
	r.queries = append(r.queries, query)
	if strings.TrimSpace(query) == "" {
		return models.InvalidInput(query)
	}
	return models.NotFound(query)
}

func sampleEngine(t *testing.T) *lookup.Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spotify_data.csv")
	if err := datasettest.WriteCSV(path, datasettest.Records(), 0); err != nil {
		t.Fatal(err)
	}
	table, err := dataset.Load(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	return lookup.NewEngine(table)
}

func TestForm_Run_reportsEachLine(t *testing.T) {
	in := strings.NewReader("mask\n\nnope\n")
	var out bytes.Buffer
	f := New(sampleEngine(t), in, &out)
	if err := f.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{
		"Audio Features for 'mask':",
		"Song Title: Mask Off",
		"Song Title: Mask\n",
		cli.MsgInvalidInput,
		"Song 'nope' not found in the data.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, Prompt) {
		t.Errorf("prompt printed without WithPrompt:\n%s", got)
	}
}

func TestForm_Run_quitStopsLoop(t *testing.T) {
	looker := &recordingLooker{}
	in := strings.NewReader("first\n :q \nsecond\n")
	if err := New(looker, in, io.Discard).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(looker.queries) != 1 || looker.queries[0] != "first" {
		t.Errorf("queries = %q, want [first]", looker.queries)
	}
}

func TestForm_Run_promptAndCRLF(t *testing.T) {
	looker := &recordingLooker{}
	in := strings.NewReader("a\r\nb\r\n")
	var out bytes.Buffer
	if err := New(looker, in, &out, WithPrompt(true)).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(out.String(), Prompt); got != 3 {
		t.Errorf("prompt count = %d, want 3", got)
	}
	if len(looker.queries) != 2 || looker.queries[0] != "a" || looker.queries[1] != "b" {
		t.Errorf("queries = %q", looker.queries)
	}
}

func TestForm_Run_jsonFormat(t *testing.T) {
	in := strings.NewReader("redbone\n")
	var out bytes.Buffer
	if err := New(sampleEngine(t), in, &out, WithFormat(cli.OutputJSON)).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"status": "found"`) {
		t.Errorf("expected JSON status, got:\n%s", out.String())
	}
}

func TestForm_Run_cancelWhileReading(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(&recordingLooker{}, pr, io.Discard).Run(ctx)
	}()
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestForm_Run_readError(t *testing.T) {
	err := New(&recordingLooker{}, failingReader{}, io.Discard).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Run() = %v, want read error", err)
	}
}
