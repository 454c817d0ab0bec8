package dataset

import "errors"

var (
	// ErrColumnCount is returned when a row or table does not have exactly the expected columns.
	ErrColumnCount = errors.New("column count mismatch")
	// ErrMalformedValue is returned when a numeric column holds a value that does not parse.
	ErrMalformedValue = errors.New("malformed value")
	// ErrUnsupportedFormat is returned for a format (or file extension) no reader handles.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	// ErrNotLoaded is returned by a Store that has no table yet.
	ErrNotLoaded = errors.New("dataset not loaded")
	// ErrEmpty is returned when the file holds no data rows.
	ErrEmpty = errors.New("dataset has no rows")
	// ErrNoPath is returned when no dataset path was configured.
	ErrNoPath = errors.New("no dataset path configured")
)
