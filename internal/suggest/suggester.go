package suggest

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/hyperjump/tunefeat/internal/dataset"
)

// Suggester owns the suggestion index for the current dataset and rebuilds it on every load.
type Suggester struct {
	fuzziness int
	logger    *zap.Logger

	mu    sync.RWMutex
	index *Index
}

// SuggesterOption configures a Suggester.
type SuggesterOption func(*Suggester)

// WithLogger sets a logger for rebuild events.
func WithLogger(l *zap.Logger) SuggesterOption {
	return func(s *Suggester) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSuggester returns a Suggester with no index; Rebuild installs one.
func NewSuggester(fuzziness int, opts ...SuggesterOption) *Suggester {
	s := &Suggester{fuzziness: fuzziness, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rebuild indexes the titles of t and replaces the previous index.
// On failure the previous index stays in service. Suitable as a dataset.Store OnLoad hook.
func (s *Suggester) Rebuild(t *dataset.Table) {
	idx, err := Build(t.Titles(), s.fuzziness)
	if err != nil {
		s.logger.Warn("suggestion index rebuild failed", zap.Error(err))
		return
	}
	s.mu.Lock()
	old := s.index
	s.index = idx
	s.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	s.logger.Debug("suggestion index rebuilt", zap.Int("titles", t.Len()))
}

// Suggest returns up to limit titles close to query. With no index yet it returns nothing.
func (s *Suggester) Suggest(ctx context.Context, query string, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return nil, nil
	}
	return s.index.Suggest(ctx, query, limit)
}

// Close releases the current index.
func (s *Suggester) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	return err
}

// Size returns the number of titles in the current index, or 0 before the first rebuild.
func (s *Suggester) Size() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return 0
	}
	n, err := s.index.DocCount()
	if err != nil {
		return 0
	}
	return n
}
