package knowledge

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wolfman30/elitecuts-assistant/pkg/logging"
)

// Loader prefetches every collection from a Source concurrently and
// assembles a Snapshot. A failing or empty fetch never fails the load:
// services, barbers, specializations and styles fall back to the built-in
// dataset, the rest are left empty.
type Loader struct {
	source  Source
	logger  *logging.Logger
	timeout time.Duration
	now     func() time.Time
	observe func(name string, err error, d time.Duration)
}

// LoaderOption customises a Loader.
type LoaderOption func(*Loader)

// WithClock overrides the loader clock.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) { l.now = now }
}

// WithFetchObserver reports every collection fetch (for metrics).
func WithFetchObserver(fn func(name string, err error, d time.Duration)) LoaderOption {
	return func(l *Loader) { l.observe = fn }
}

// NewLoader builds a loader. A nil source yields the built-in dataset.
func NewLoader(source Source, logger *logging.Logger, timeout time.Duration, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = logging.Default()
	}
	l := &Loader{source: source, logger: logger, timeout: timeout, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches all collections and returns the snapshot.
func (l *Loader) Load(ctx context.Context) *Snapshot {
	if l.source == nil {
		return BuiltinSnapshot(l.now())
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	snap := &Snapshot{}
	var g errgroup.Group
	var failed atomic.Bool
	fetch(ctx, &g, l, &failed, "services", l.source.FetchServices, &snap.Services)
	fetch(ctx, &g, l, &failed, "barbers", l.source.FetchBarbers, &snap.Barbers)
	fetch(ctx, &g, l, &failed, "faqs", l.source.FetchFAQs, &snap.FAQs)
	fetch(ctx, &g, l, &failed, "promotions", l.source.FetchPromotions, &snap.Promotions)
	fetch(ctx, &g, l, &failed, "working_hours", l.source.FetchWorkingHours, &snap.Hours)
	fetch(ctx, &g, l, &failed, "style_categories", l.source.FetchStyleCategories, &snap.Styles)
	fetch(ctx, &g, l, &failed, "barber_specializations", l.source.FetchBarberSpecializations, &snap.Specializations)
	fetch(ctx, &g, l, &failed, "locations", l.source.FetchLocations, &snap.Locations)
	_ = g.Wait()
	snap.Degraded = failed.Load()

	if len(snap.Services) == 0 {
		snap.Services = BuiltinServices()
		snap.Fallback.Services = true
	}
	if len(snap.Barbers) == 0 {
		snap.Barbers = BuiltinBarbers()
		snap.Fallback.Barbers = true
	}
	if len(snap.Specializations) == 0 && snap.Fallback.Barbers {
		snap.Specializations = BuiltinSpecializations()
		snap.Fallback.Specializations = true
	}
	if len(snap.Styles) == 0 {
		snap.Styles = BuiltinStyles()
		snap.Fallback.Styles = true
	}
	snap.LoadedAt = l.now()

	if snap.Fallback.Any() {
		l.logger.Warn("knowledge loaded with built-in fallback",
			"services", snap.Fallback.Services,
			"barbers", snap.Fallback.Barbers,
			"styles", snap.Fallback.Styles,
		)
	}
	return snap
}

// fetch runs one collection fetch on g. Each goroutine writes only its own
// destination, so no lock is needed.
func fetch[T any](ctx context.Context, g *errgroup.Group, l *Loader, failed *atomic.Bool, name string, fn func(context.Context) ([]T, error), dst *[]T) {
	g.Go(func() error {
		start := time.Now()
		items, err := fn(ctx)
		if l.observe != nil {
			l.observe(name, err, time.Since(start))
		}
		if err != nil {
			l.logger.Warn("knowledge fetch failed", "collection", name, "error", err)
			failed.Store(true)
			return nil
		}
		*dst = items
		return nil
	})
}

const defaultRetryInterval = 30 * time.Second

// Holder owns the application-scoped snapshot. Sessions take the current
// snapshot when they open; Reload swaps it for sessions opened afterwards.
// While the current snapshot is degraded (a fetch failed), Snapshot retries
// the load at most once per retry interval.
type Holder struct {
	loader  *Loader
	current atomic.Pointer[Snapshot]
	mu      sync.Mutex

	retryAfter time.Duration
	lastLoad   atomic.Int64
	now        func() time.Time
}

// HolderOption customises a Holder.
type HolderOption func(*Holder)

// WithRetryInterval sets how often a degraded snapshot is re-fetched. Zero
// disables retries.
func WithRetryInterval(d time.Duration) HolderOption {
	return func(h *Holder) { h.retryAfter = d }
}

// NewHolder creates a holder that loads through loader.
func NewHolder(loader *Loader, opts ...HolderOption) *Holder {
	h := &Holder{loader: loader, retryAfter: defaultRetryInterval, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewStaticHolder creates a holder preloaded with snap.
func NewStaticHolder(snap *Snapshot) *Holder {
	h := &Holder{now: time.Now}
	h.current.Store(snap)
	return h
}

// Snapshot returns the current snapshot, loading it on first use. A
// degraded snapshot is reloaded once the retry interval has passed; callers
// that find a retry already running get the degraded snapshot.
func (h *Holder) Snapshot(ctx context.Context) *Snapshot {
	snap := h.current.Load()
	if snap != nil {
		if !h.retryDue(snap) || !h.mu.TryLock() {
			return snap
		}
		defer h.mu.Unlock()
		if snap = h.current.Load(); !h.retryDue(snap) {
			return snap
		}
		return h.reloadLocked(ctx)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if snap := h.current.Load(); snap != nil {
		return snap
	}
	return h.reloadLocked(ctx)
}

func (h *Holder) retryDue(snap *Snapshot) bool {
	if !snap.Degraded || h.loader == nil || h.retryAfter <= 0 {
		return false
	}
	return h.now().Sub(time.Unix(0, h.lastLoad.Load())) >= h.retryAfter
}

// Loaded reports whether a snapshot is available.
func (h *Holder) Loaded() bool {
	return h.current.Load() != nil
}

// Reload fetches a fresh snapshot and makes it current.
func (h *Holder) Reload(ctx context.Context) *Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reloadLocked(ctx)
}

func (h *Holder) reloadLocked(ctx context.Context) *Snapshot {
	var snap *Snapshot
	if h.loader == nil {
		snap = BuiltinSnapshot(time.Now())
	} else {
		snap = h.loader.Load(ctx)
	}
	h.lastLoad.Store(h.now().UnixNano())
	h.current.Store(snap)
	return snap
}
