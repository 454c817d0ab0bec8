// Package datasettest writes small track datasets in every supported format for tests.
package datasettest

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/tunefeat/internal/models"
)

// Records returns the sample dataset rows in column order. Row 5 has a trailing
// space in its title ("Reckoner ") and time signatures use the "4.0" spelling.
func Records() [][]string {
	return [][]string{
		{"0", "0.0102", "0.833", "204600", "0.434", "0.0219", "2", "0.165", "-8.795", "1", "0.431", "150.062", "4.0", "0.286", "1", "Mask Off", "Future"},
		{"1", "0.199", "0.743", "326933", "0.359", "0.00611", "1", "0.137", "-10.401", "1", "0.0794", "160.083", "4.0", "0.588", "1", "Redbone", "Childish Gambino"},
		{"2", "0.0344", "0.838", "185707", "0.412", "0.000234", "2", "0.159", "-7.148", "1", "0.289", "75.044", "4.0", "0.173", "1", "Xanny Family", "Future"},
		{"3", "0.604", "0.494", "199413", "0.338", "0.51", "5", "0.0922", "-15.236", "1", "0.0261", "86.468", "4.0", "0.23", "1", "Master Of None", "Beach House"},
		{"4", "0.18", "0.678", "392893", "0.561", "0.512", "5", "0.439", "-11.648", "0", "0.0694", "174.004", "4.0", "0.904", "1", "Parallel Lines", "Junior Boys"},
		{"5", "0.899", "0.347", "290280", "0.261", "0.0138", "7", "0.108", "-11.044", "1", "0.0358", "105.186", "4.0", "0.258", "0", "  Reckoner ", "Radiohead"},
		{"6", "0.00148", "0.612", "255453", "0.856", "0.000156", "9", "0.0989", "-4.903", "1", "0.0464", "120.011", "4.0", "0.675", "0", "Mask", "Slayyyter"},
	}
}

// WriteCSV writes records to path with the given delimiter (0 means comma). No header row.
func WriteCSV(path string, records [][]string, delimiter rune) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if delimiter != 0 {
		w.Comma = delimiter
	}
	if err := w.WriteAll(records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteXLSX writes records to the first sheet of a new workbook. Cells that parse as
// numbers are stored as numbers so readers see spreadsheet-typed values.
func WriteXLSX(path string, records [][]string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, rec := range records {
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			if n, err := strconv.ParseFloat(v, 64); err == nil && j > 0 && j < 15 {
				row[j] = n
			} else {
				row[j] = v
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

// WriteSQLite creates table in a new database at path with the dataset columns and inserts records.
func WriteSQLite(path, table string, records [][]string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer db.Close()

	defs := make([]string, len(models.Columns))
	marks := make([]string, len(models.Columns))
	for i, c := range models.Columns {
		defs[i] = fmt.Sprintf("%q %s", c, sqliteType(i))
		marks[i] = "?"
	}
	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE %q (%s)", table, strings.Join(defs, ", "))); err != nil {
		return err
	}
	stmt := fmt.Sprintf("INSERT INTO %q VALUES (%s)", table, strings.Join(marks, ", "))
	for _, rec := range records {
		args := make([]any, len(rec))
		for i, v := range rec {
			args[i] = v
		}
		if _, err := db.Exec(stmt, args...); err != nil {
			return err
		}
	}
	return nil
}

func sqliteType(col int) string {
	switch models.Columns[col] {
	case "id", "song_title", "artist":
		return "TEXT"
	case "duration_ms", "key", "mode", "target":
		return "INTEGER"
	default:
		return "REAL"
	}
}
