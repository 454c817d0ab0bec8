package models

import (
	"errors"
	"strings"
)

// ErrEmptyQuery is returned by Validate when the title is empty after trimming.
var ErrEmptyQuery = errors.New("query cannot be empty")

// LookupQuery is a title lookup request.
type LookupQuery struct {
	Title string `json:"title"`
}

// Validate trims the title in place and returns ErrEmptyQuery if nothing is left.
func (q *LookupQuery) Validate() error {
	q.Title = strings.TrimSpace(q.Title)
	if q.Title == "" {
		return ErrEmptyQuery
	}
	return nil
}
