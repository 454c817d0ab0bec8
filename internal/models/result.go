package models

// LookupStatus is the outcome of a lookup.
type LookupStatus string

const (
	// StatusFound means one or more rows matched.
	StatusFound LookupStatus = "found"
	// StatusNotFound means the query was valid but no title contains it.
	StatusNotFound LookupStatus = "not_found"
	// StatusInvalidInput means the query was empty or whitespace-only; no scan ran.
	StatusInvalidInput LookupStatus = "invalid_input"
	// StatusFailed means the lookup could not complete; Err holds the cause.
	StatusFailed LookupStatus = "failed"
)

// LookupResult is the typed outcome of a lookup. Callers decide how to render each status.
type LookupResult struct {
	ID          string       `json:"lookup_id,omitempty"`
	Query       string       `json:"query"`
	Status      LookupStatus `json:"status"`
	Tracks      []Track      `json:"tracks,omitempty"`
	Total       int          `json:"total"`
	Suggestions []string     `json:"suggestions,omitempty"`
	Error       string       `json:"error,omitempty"`
	QueryTime   int64        `json:"query_time_ms"`

	// Err is the failure cause when Status is StatusFailed.
	Err error `json:"-"`
}

// Found returns a found result for query with the given rows.
func Found(query string, tracks []Track) *LookupResult {
	return &LookupResult{Query: query, Status: StatusFound, Tracks: tracks, Total: len(tracks)}
}

// NotFound returns a not-found result naming query.
func NotFound(query string) *LookupResult {
	return &LookupResult{Query: query, Status: StatusNotFound}
}

// InvalidInput returns the fixed invalid-input result.
func InvalidInput(query string) *LookupResult {
	return &LookupResult{Query: query, Status: StatusInvalidInput}
}

// Failed returns a failure result carrying err.
func Failed(query string, err error) *LookupResult {
	r := &LookupResult{Query: query, Status: StatusFailed, Err: err}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}
