package dataset

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/tunefeat/internal/models"
)

// readXLSX reads the configured sheet (first sheet by default). Fully blank rows are skipped.
// Raw cell values are used so number formats do not round the features.
// GetRows drops trailing empty cells, so short rows are padded back to the column count.
func readXLSX(ctx context.Context, path string, o *options) ([]models.Track, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := o.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("open xlsx: workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
	}

	var tracks []models.Track
	for i, rec := range rows {
		row := i + 1
		if row == 1 && o.skipHeader {
			continue
		}
		if blank(rec) {
			continue
		}
		if row%scanCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		t, err := parseRecord(padRecord(rec, models.ColumnCount), row)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

// padRecord extends rec with empty cells up to n fields. Longer rows are returned as-is.
func padRecord(rec []string, n int) []string {
	if len(rec) >= n {
		return rec
	}
	padded := make([]string, n)
	copy(padded, rec)
	return padded
}

func blank(rec []string) bool {
	for _, c := range rec {
		if c != "" {
			return false
		}
	}
	return true
}
