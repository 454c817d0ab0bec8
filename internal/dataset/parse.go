package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hyperjump/tunefeat/internal/models"
)

const utf8BOM = "\ufeff"

// parseRecord converts one raw row into a Track. row is the 1-based position used in errors.
// The title is trimmed here and nowhere else.
func parseRecord(rec []string, row int) (models.Track, error) {
	if len(rec) != models.ColumnCount {
		return models.Track{}, fmt.Errorf("row %d: %w: got %d columns, want %d", row, ErrColumnCount, len(rec), models.ColumnCount)
	}
	p := fieldParser{rec: rec, row: row}
	t := models.Track{
		ID:               strings.TrimPrefix(rec[0], utf8BOM),
		Acousticness:     p.float(1),
		Danceability:     p.float(2),
		DurationMs:       p.int64(3),
		Energy:           p.float(4),
		Instrumentalness: p.float(5),
		Key:              int(p.int64(6)),
		Liveness:         p.float(7),
		Loudness:         p.float(8),
		Mode:             int(p.int64(9)),
		Speechiness:      p.float(10),
		Tempo:            p.float(11),
		TimeSignature:    p.float(12),
		Valence:          p.float(13),
		Target:           int(p.int64(14)),
		SongTitle:        strings.TrimSpace(rec[15]),
		Artist:           rec[16],
	}
	if p.err != nil {
		return models.Track{}, p.err
	}
	return t, nil
}

// fieldParser keeps the first parse error so parseRecord reads straight through.
type fieldParser struct {
	rec []string
	row int
	err error
}

func (p *fieldParser) float(col int) float64 {
	if p.err != nil {
		return 0
	}
	s := strings.TrimSpace(p.rec[col])
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.fail(col, s)
		return 0
	}
	return v
}

// int64 accepts integral float spellings such as "4.0", which spreadsheet exports produce.
func (p *fieldParser) int64(col int) int64 {
	if p.err != nil {
		return 0
	}
	s := strings.TrimSpace(p.rec[col])
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		p.fail(col, s)
		return 0
	}
	return int64(f)
}

func (p *fieldParser) fail(col int, value string) {
	p.err = fmt.Errorf("row %d, column %q: %w: %q", p.row, models.Columns[col], ErrMalformedValue, value)
}
