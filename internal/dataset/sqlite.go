package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/tunefeat/internal/models"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// readSQLite opens the database read-only and reads the track table in rowid order.
// The table must have exactly the dataset columns.
func readSQLite(ctx context.Context, path string, o *options) ([]models.Track, error) {
	if !identRe.MatchString(o.table) {
		return nil, fmt.Errorf("invalid sqlite table name %q", o.table)
	}
	dsn := "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := checkSQLiteColumns(ctx, db, o.table); err != nil {
		return nil, err
	}

	quoted := make([]string, len(models.Columns))
	for i, c := range models.Columns {
		quoted[i] = `"` + c + `"`
	}
	query := fmt.Sprintf(`SELECT %s FROM "%s" ORDER BY rowid`, strings.Join(quoted, ", "), o.table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", o.table, err)
	}
	defer rows.Close()

	var tracks []models.Track
	vals := make([]sql.NullString, models.ColumnCount)
	dest := make([]any, models.ColumnCount)
	for i := range vals {
		dest[i] = &vals[i]
	}
	rec := make([]string, models.ColumnCount)
	for row := 1; rows.Next(); row++ {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("row %d: scan: %w", row, err)
		}
		for i, v := range vals {
			rec[i] = v.String
		}
		t, err := parseRecord(rec, row)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", o.table, err)
	}
	return tracks, nil
}

func checkSQLiteColumns(ctx context.Context, db *sql.DB, table string) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info("%s")`, table))
	if err != nil {
		return fmt.Errorf("inspect table %s: %w", table, err)
	}
	defer rows.Close()

	have := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("inspect table %s: %w", table, err)
		}
		have[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("inspect table %s: %w", table, err)
	}
	if len(have) == 0 {
		return fmt.Errorf("table %q not found", table)
	}
	if len(have) != models.ColumnCount {
		return fmt.Errorf("table %s: %w: got %d columns, want %d", table, ErrColumnCount, len(have), models.ColumnCount)
	}
	for _, c := range models.Columns {
		if !have[c] {
			return fmt.Errorf("table %s: %w: missing column %q", table, ErrColumnCount, c)
		}
	}
	return nil
}
