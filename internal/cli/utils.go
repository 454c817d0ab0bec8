// Package cli renders lookup results for the terminal.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/hyperjump/tunefeat/internal/models"
	"github.com/hyperjump/tunefeat/pkg/utils"
)

// OutputFormat is the format for lookup result output.
type OutputFormat string

const (
	// OutputText is the human-readable report (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
	// OutputCompact is one tab-separated line per matching track.
	OutputCompact OutputFormat = "compact"
)

// Fixed messages for the non-found statuses.
const (
	MsgInvalidInput = "Please enter a valid song title."
	msgNotFound     = "Song '%s' not found in the data."
	msgFailed       = "An error occurred: %s"
	msgHeader       = "Audio Features for '%s':"

	compactTitleWidth = 60
)

// ParseOutputFormat maps a flag or config value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputJSON, OutputCompact:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

// WriteLookupResult writes res to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteLookupResult(w io.Writer, res *models.LookupResult, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case OutputCompact:
		return writeCompact(w, res)
	default:
		return writeText(w, res)
	}
}

// StatusMessage returns the one-line message for res: the report header when found,
// otherwise the fixed not-found, invalid-input, or failure text.
func StatusMessage(res *models.LookupResult) string {
	switch res.Status {
	case models.StatusFound:
		return fmt.Sprintf(msgHeader, res.Query)
	case models.StatusNotFound:
		return fmt.Sprintf(msgNotFound, res.Query)
	case models.StatusInvalidInput:
		return MsgInvalidInput
	default:
		return fmt.Sprintf(msgFailed, res.Error)
	}
}

func writeText(w io.Writer, res *models.LookupResult) error {
	if _, err := fmt.Fprintln(w, StatusMessage(res)); err != nil {
		return err
	}
	switch res.Status {
	case models.StatusFound:
		for i := range res.Tracks {
			if err := writeTrack(w, &res.Tracks[i]); err != nil {
				return err
			}
		}
	case models.StatusNotFound:
		if len(res.Suggestions) > 0 {
			if _, err := fmt.Fprintln(w, "\nDid you mean:"); err != nil {
				return err
			}
			for _, s := range res.Suggestions {
				if _, err := fmt.Fprintf(w, "  - %s\n", s); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// writeTrack prints one block: a blank line, the id, every feature in column order, artist last.
func writeTrack(w io.Writer, t *models.Track) error {
	_, err := fmt.Fprintf(w, "\nTrack ID: %s\n"+
		"Acousticness: %s\n"+
		"Danceability: %s\n"+
		"Duration (ms): %d\n"+
		"Energy: %s\n"+
		"Instrumentalness: %s\n"+
		"Key: %d\n"+
		"Liveness: %s\n"+
		"Loudness (dB): %s\n"+
		"Mode: %d\n"+
		"Speechiness: %s\n"+
		"Tempo (BPM): %s\n"+
		"Time Signature: %s\n"+
		"Valence: %s\n"+
		"Target: %d\n"+
		"Song Title: %s\n"+
		"Artist: %s\n",
		t.ID,
		formatFloat(t.Acousticness),
		formatFloat(t.Danceability),
		t.DurationMs,
		formatFloat(t.Energy),
		formatFloat(t.Instrumentalness),
		t.Key,
		formatFloat(t.Liveness),
		formatFloat(t.Loudness),
		t.Mode,
		formatFloat(t.Speechiness),
		formatFloat(t.Tempo),
		formatFloat(t.TimeSignature),
		formatFloat(t.Valence),
		t.Target,
		t.SongTitle,
		t.Artist,
	)
	return err
}

func writeCompact(w io.Writer, res *models.LookupResult) error {
	if res.Status != models.StatusFound {
		_, err := fmt.Fprintln(w, StatusMessage(res))
		return err
	}
	for _, t := range res.Tracks {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, utils.Truncate(t.SongTitle, compactTitleWidth), t.Artist); err != nil {
			return err
		}
	}
	return nil
}

// formatFloat prints the shortest representation that round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
