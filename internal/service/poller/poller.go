package poller

import (
	"context"
	"sync"
	"time"

	"AstroView/internal/domain/repository"
	"AstroView/pkg/logger"
)

// FetchFunc produces a fresh value for a poll key.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Store owns one polling slot per subscription key. A slot fetches
// immediately on first subscribe, then on its interval, and is torn down
// when the last handle is released. Results are ordered by a generation
// counter: a response that resolves after a newer one has already been
// applied is dropped, so displayed data never moves backwards.
type Store struct {
	mu      sync.Mutex
	slots   map[string]*slot
	metrics repository.Metrics
	logger  *logger.Logger
	closed  bool
}

type slot struct {
	key      string
	fetch    FetchFunc
	interval time.Duration

	mu      sync.Mutex
	data    interface{}
	hasData bool
	err     error
	loading bool
	issued  uint64 // generation of the most recently started fetch
	applied uint64 // generation of the result currently held

	refs    int
	refresh chan struct{}
	cancel  context.CancelFunc
}

// Option configures Store.
type Option func(*Store)

// WithMetrics attaches a poll telemetry recorder.
func WithMetrics(m repository.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithLogger attaches a logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore creates an empty poll store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		slots:  make(map[string]*slot),
		logger: logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle is one subscriber's view of a poll slot. Handles sharing a key
// share the slot; Release decrements the refcount and the last release
// stops the poll loop.
type Handle struct {
	store *Store
	slot  *slot
	once  sync.Once
}

// Subscribe attaches to the slot for key, creating it and starting its
// poll loop if this is the first subscriber. fetch and interval are fixed
// by the first subscriber; later subscribers share them.
func (s *Store) Subscribe(key string, interval time.Duration, fetch FetchFunc) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sl, ok := s.slots[key]; ok {
		sl.refs++
		return &Handle{store: s, slot: sl}
	}

	ctx, cancel := context.WithCancel(context.Background())
	sl := &slot{
		key:      key,
		fetch:    fetch,
		interval: interval,
		loading:  true,
		refs:     1,
		refresh:  make(chan struct{}, 1),
		cancel:   cancel,
	}
	s.slots[key] = sl

	go s.run(ctx, sl)
	return &Handle{store: s, slot: sl}
}

func (s *Store) run(ctx context.Context, sl *slot) {
	s.startFetch(ctx, sl)

	ticker := time.NewTicker(sl.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.startFetch(ctx, sl)
		case <-sl.refresh:
			s.startFetch(ctx, sl)
		}
	}
}

// startFetch issues one fetch in its own goroutine. The generation is taken
// before the call so a slow response can be recognized as stale when it
// finally resolves.
func (s *Store) startFetch(ctx context.Context, sl *slot) {
	sl.mu.Lock()
	sl.issued++
	gen := sl.issued
	sl.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordPoll(sl.key)
	}

	go func() {
		data, err := sl.fetch(ctx)
		if ctx.Err() != nil {
			return
		}
		s.settle(sl, gen, data, err)
	}()
}

func (s *Store) settle(sl *slot, gen uint64, data interface{}, err error) {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if gen <= sl.applied {
		if s.metrics != nil {
			s.metrics.RecordStaleDrop(sl.key)
		}
		s.logger.Debug("drop stale poll response", logger.String("key", sl.key))
		return
	}
	sl.applied = gen
	sl.loading = false

	if err != nil {
		// Keep the last good value; the error rides alongside it.
		sl.err = err
		if s.metrics != nil {
			s.metrics.RecordPollError(sl.key)
		}
		s.logger.Warn("poll fetch failed", logger.String("key", sl.key), logger.Error(err))
		return
	}

	sl.data = data
	sl.hasData = true
	sl.err = nil
}

// Refresh forces an immediate re-fetch of key, if subscribed. Coalesces
// with a pending refresh.
func (s *Store) Refresh(key string) {
	s.mu.Lock()
	sl, ok := s.slots[key]
	s.mu.Unlock()
	if !ok {
		return
	}
	select {
	case sl.refresh <- struct{}{}:
	default:
	}
}

// Apply injects an out-of-band value (a push update) into the slot for key.
// The value is stamped with a fresh generation so in-flight poll responses
// started earlier are dropped when they resolve.
func (s *Store) Apply(key string, value interface{}) {
	s.mu.Lock()
	sl, ok := s.slots[key]
	s.mu.Unlock()
	if !ok {
		return
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.issued++
	sl.applied = sl.issued
	sl.data = value
	sl.hasData = true
	sl.err = nil
	sl.loading = false
}

// Subscribed reports whether key currently has an active slot.
func (s *Store) Subscribed(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.slots[key]
	return ok
}

// Close tears down every slot.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for key, sl := range s.slots {
		sl.cancel()
		delete(s.slots, key)
	}
}

// Data returns the slot's current value. ok is false until the first
// successful fetch (or Apply) lands.
func (h *Handle) Data() (interface{}, bool) {
	h.slot.mu.Lock()
	defer h.slot.mu.Unlock()
	return h.slot.data, h.slot.hasData
}

// Err returns the error from the most recent settled fetch, nil after a
// success. A non-nil error can coexist with stale data from an earlier
// success.
func (h *Handle) Err() error {
	h.slot.mu.Lock()
	defer h.slot.mu.Unlock()
	return h.slot.err
}

// Loading reports whether the slot is still waiting for its first result.
func (h *Handle) Loading() bool {
	h.slot.mu.Lock()
	defer h.slot.mu.Unlock()
	return h.slot.loading
}

// Key returns the slot key.
func (h *Handle) Key() string {
	return h.slot.key
}

// Release detaches from the slot. The last release cancels the poll loop
// and removes the slot; a released handle is inert and Release is
// idempotent.
func (h *Handle) Release() {
	h.once.Do(func() {
		h.store.mu.Lock()
		defer h.store.mu.Unlock()
		h.slot.refs--
		if h.slot.refs <= 0 {
			h.slot.cancel()
			delete(h.store.slots, h.slot.key)
		}
	})
}
