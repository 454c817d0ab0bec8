// Package lookup runs title lookups against the loaded track table.
package lookup

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/tunefeat/internal/models"
)

// TrackSource yields the dataset rows in order. dataset.Store and dataset.Table satisfy it.
type TrackSource interface {
	Scan(ctx context.Context, fn func(models.Track) bool) error
}

// Suggester proposes titles for queries that matched nothing.
type Suggester interface {
	Suggest(ctx context.Context, query string, limit int) ([]string, error)
}

// Engine answers title lookups by linear scan. It holds no table of its own.
type Engine struct {
	source         TrackSource
	suggester      Suggester
	maxSuggestions int
	logger         *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSuggester attaches a suggester used for not-found results, returning at most limit titles.
func WithSuggester(s Suggester, limit int) EngineOption {
	return func(e *Engine) {
		e.suggester = s
		e.maxSuggestions = limit
	}
}

// WithLogger sets a logger for lookup events.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates a lookup engine over source.
func NewEngine(source TrackSource, opts ...EngineOption) *Engine {
	e := &Engine{source: source, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Lookup returns every row whose song title contains query, case-insensitively, in table order.
// An empty or whitespace-only query returns StatusInvalidInput without touching the source.
// Source errors (including a cancelled ctx) come back as StatusFailed rather than an error.
func (e *Engine) Lookup(ctx context.Context, query string) *models.LookupResult {
	start := time.Now()
	id := uuid.NewString()

	q := models.LookupQuery{Title: query}
	if err := q.Validate(); err != nil {
		e.logger.Debug("lookup rejected", zap.String("lookup_id", id), zap.Error(err))
		return finish(models.InvalidInput(query), id, start)
	}

	needle := strings.ToLower(q.Title)
	var matches []models.Track
	err := e.source.Scan(ctx, func(t models.Track) bool {
		if strings.Contains(strings.ToLower(t.SongTitle), needle) {
			matches = append(matches, t)
		}
		return true
	})
	if err != nil {
		e.logger.Warn("lookup failed", zap.String("lookup_id", id), zap.String("query", q.Title), zap.Error(err))
		return finish(models.Failed(q.Title, err), id, start)
	}

	var res *models.LookupResult
	if len(matches) == 0 {
		res = models.NotFound(q.Title)
		res.Suggestions = e.suggest(ctx, id, q.Title)
	} else {
		res = models.Found(q.Title, matches)
	}
	e.logger.Debug("lookup done",
		zap.String("lookup_id", id),
		zap.String("query", q.Title),
		zap.String("status", string(res.Status)),
		zap.Int("matches", len(matches)),
	)
	return finish(res, id, start)
}

func (e *Engine) suggest(ctx context.Context, id, query string) []string {
	if e.suggester == nil || e.maxSuggestions <= 0 {
		return nil
	}
	s, err := e.suggester.Suggest(ctx, query, e.maxSuggestions)
	if err != nil {
		e.logger.Warn("suggestions unavailable", zap.String("lookup_id", id), zap.Error(err))
		return nil
	}
	return s
}

func finish(res *models.LookupResult, id string, start time.Time) *models.LookupResult {
	res.ID = id
	res.QueryTime = time.Since(start).Milliseconds()
	return res
}
