// Package dataset loads the track table from CSV, XLSX, or SQLite and holds it in memory.
package dataset

import (
	"context"
	"time"

	"github.com/hyperjump/tunefeat/internal/models"
)

// scanCheckEvery is how many rows Scan visits between context checks.
const scanCheckEvery = 256

// SourceInfo describes where a table was loaded from.
type SourceInfo struct {
	Path     string    `json:"path"`
	Format   string    `json:"format"`
	Size     int64     `json:"size_bytes"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Table is an immutable in-memory load of the dataset. Rows keep file order.
type Table struct {
	tracks []models.Track
	source SourceInfo
}

// NewTable returns a table over a copy of tracks.
func NewTable(tracks []models.Track, source SourceInfo) *Table {
	return &Table{
		tracks: append([]models.Track(nil), tracks...),
		source: source,
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.tracks)
}

// Row returns the i-th row. It panics if i is out of range, like a slice index.
func (t *Table) Row(i int) models.Track {
	return t.tracks[i]
}

// Source returns where the table was loaded from.
func (t *Table) Source() SourceInfo {
	return t.source
}

// Scan calls fn for each row in order until fn returns false.
// It returns ctx.Err() if the context is cancelled mid-scan.
func (t *Table) Scan(ctx context.Context, fn func(models.Track) bool) error {
	for i := range t.tracks {
		if i%scanCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if !fn(t.tracks[i]) {
			return nil
		}
	}
	return nil
}

// Titles returns every song title in row order.
func (t *Table) Titles() []string {
	titles := make([]string, len(t.tracks))
	for i := range t.tracks {
		titles[i] = t.tracks[i].SongTitle
	}
	return titles
}

// Equal reports whether both tables hold the same rows in the same order.
// Source metadata is ignored.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.tracks) != len(other.tracks) {
		return false
	}
	for i := range t.tracks {
		if t.tracks[i] != other.tracks[i] {
			return false
		}
	}
	return true
}
