package dataset

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/hyperjump/tunefeat/internal/models"
)

// Store holds the current Table. Each table stays immutable; a reload swaps in a new one.
// Readers take one snapshot per call and never hold a lock while scanning.
type Store struct {
	path    string
	opts    []Option
	logger  *zap.Logger
	current atomic.Pointer[Table]

	mu    sync.Mutex // serializes loads and guards hooks
	hooks []func(*Table)
}

// NewStore returns an empty store for the dataset at path. Call Load before use.
func NewStore(path string, opts ...Option) *Store {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return &Store{path: path, opts: opts, logger: o.logger}
}

// Path returns the dataset path the store loads from.
func (s *Store) Path() string {
	return s.path
}

// OnLoad registers fn to run after every successful load with the new table.
func (s *Store) OnLoad(fn func(*Table)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// Load reads the dataset and publishes it. On failure the previous table (if any) stays current.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := Load(ctx, s.path, s.opts...)
	if err != nil {
		return err
	}
	s.current.Store(t)
	for _, fn := range s.hooks {
		fn(t)
	}
	return nil
}

// Reload is Load for background callers: failures are logged and the previous table is kept.
func (s *Store) Reload(ctx context.Context) {
	if err := s.Load(ctx); err != nil {
		s.logger.Warn("dataset reload failed, keeping previous table",
			zap.String("path", s.path), zap.Error(err))
		return
	}
	s.logger.Info("dataset reloaded", zap.String("path", s.path))
}

// Current returns the current table or ErrNotLoaded.
func (s *Store) Current() (*Table, error) {
	t := s.current.Load()
	if t == nil {
		return nil, ErrNotLoaded
	}
	return t, nil
}

// Scan scans the current table.
func (s *Store) Scan(ctx context.Context, fn func(models.Track) bool) error {
	t, err := s.Current()
	if err != nil {
		return err
	}
	return t.Scan(ctx, fn)
}
