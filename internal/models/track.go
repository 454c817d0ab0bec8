// Package models defines core data structures for tracks, lookups, and lookup results.
package models

// ColumnCount is the number of columns every dataset row must have.
const ColumnCount = 17

// Columns is the fixed column order of the dataset. Files carry no header row.
var Columns = []string{
	"id", "acousticness", "danceability", "duration_ms",
	"energy", "instrumentalness", "key", "liveness",
	"loudness", "mode", "speechiness", "tempo",
	"time_signature", "valence", "target",
	"song_title", "artist",
}

// Track is one row of the dataset: an opaque ID, the audio features, the title and the artist.
type Track struct {
	ID               string  `json:"id" db:"id"`
	Acousticness     float64 `json:"acousticness" db:"acousticness"`
	Danceability     float64 `json:"danceability" db:"danceability"`
	DurationMs       int64   `json:"duration_ms" db:"duration_ms"`
	Energy           float64 `json:"energy" db:"energy"`
	Instrumentalness float64 `json:"instrumentalness" db:"instrumentalness"`
	Key              int     `json:"key" db:"key"`
	Liveness         float64 `json:"liveness" db:"liveness"`
	Loudness         float64 `json:"loudness" db:"loudness"`
	Mode             int     `json:"mode" db:"mode"`
	Speechiness      float64 `json:"speechiness" db:"speechiness"`
	Tempo            float64 `json:"tempo" db:"tempo"`
	TimeSignature    float64 `json:"time_signature" db:"time_signature"`
	Valence          float64 `json:"valence" db:"valence"`
	Target           int     `json:"target" db:"target"`
	SongTitle        string  `json:"song_title" db:"song_title"`
	Artist           string  `json:"artist" db:"artist"`
}

// SameColumns reports whether cols is exactly Columns, in order.
func SameColumns(cols []string) bool {
	if len(cols) != len(Columns) {
		return false
	}
	for i, c := range cols {
		if c != Columns[i] {
			return false
		}
	}
	return true
}
