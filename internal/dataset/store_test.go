package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/tunefeat/internal/dataset/datasettest"
	"github.com/hyperjump/tunefeat/internal/models"
	"go.uber.org/zap"
)

func TestStore_NotLoaded(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "x.csv"))
	if _, err := s.Current(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Current() error = %v, want ErrNotLoaded", err)
	}
	err := s.Scan(context.Background(), func(models.Track) bool { return true })
	if !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Scan() error = %v, want ErrNotLoaded", err)
	}
}

func TestStore_LoadAndHooks(t *testing.T) {
	path := writeSampleCSV(t, datasettest.Records())
	s := NewStore(path, WithLogger(zap.NewNop()))
	var hooked *Table
	s.OnLoad(func(tb *Table) { hooked = tb })
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	cur, err := s.Current()
	if err != nil {
		t.Fatal(err)
	}
	if hooked != cur {
		t.Error("OnLoad hook should receive the published table")
	}
	if s.Path() != path {
		t.Errorf("Path() = %s, want %s", s.Path(), path)
	}
}

func TestStore_FailedReloadKeepsPrevious(t *testing.T) {
	path := writeSampleCSV(t, datasettest.Records())
	s := NewStore(path)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	before, _ := s.Current()

	if err := os.WriteFile(path, []byte("0,not,enough\n"), 0600); err != nil {
		t.Fatal(err)
	}
	s.Reload(context.Background())
	after, err := s.Current()
	if err != nil {
		t.Fatal(err)
	}
	if after != before {
		t.Error("failed reload should keep the previous table")
	}
}

func TestStore_ReloadSwapsTable(t *testing.T) {
	path := writeSampleCSV(t, datasettest.Records())
	s := NewStore(path)
	if err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := datasettest.WriteCSV(path, datasettest.Records()[:2], 0); err != nil {
		t.Fatal(err)
	}
	s.Reload(context.Background())
	cur, _ := s.Current()
	if cur.Len() != 2 {
		t.Errorf("after reload Len() = %d, want 2", cur.Len())
	}
}
