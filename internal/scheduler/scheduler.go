package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
)

// Defaults match the gallery's lazy-load observer.
const (
	DefaultMargin    = 100
	DefaultThreshold = 0.1
)

// ErrStopped is returned by Flush when the scheduler is no longer running.
var ErrStopped = errors.New("scheduler stopped")

// SlotID identifies one rendered card.
type SlotID string

// Entry reports the current bounds of a slot.
type Entry struct {
	Slot   SlotID
	Bounds Rect
}

// Delivery is the outcome of servicing a slot. Err is a per-icon failure
// (typically asset.ErrAssetNotFound or asset.ErrAssetMalformed).
type Delivery struct {
	Slot   SlotID
	Name   string
	Source string
	Err    error
}

// Loader resolves icon sources. *asset.Cache implements it.
type Loader interface {
	Get(ctx context.Context, name string) (string, error)
}

// Handler receives deliveries on the Run goroutine.
type Handler func(Delivery)

// Stats is a snapshot of scheduler state.
type Stats struct {
	Pending   int `json:"pending"`
	Attached  int `json:"attached"`
	InFlight  int `json:"in_flight"`
	Serviced  int `json:"serviced"`
	Delivered int `json:"delivered"`
	Dropped   int `json:"dropped"`
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithMargin sets the proximity margin added around the viewport.
func WithMargin(m float64) Option {
	return func(s *Scheduler) { s.margin = m }
}

// WithThreshold sets the fraction of a slot's area that must be inside the
// expanded viewport. 0 means any overlap.
func WithThreshold(t float64) Option {
	return func(s *Scheduler) { s.threshold = t }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// slot is a registered card. Owned by the Run goroutine.
type slot struct {
	name      string
	gen       int64
	bounds    Rect
	hasBounds bool
	serviced  bool
}

// Scheduler is the lazy-load event loop.
//
// Thread-safety model:
//   - Register, Unregister, Observe, Scroll, Flush, Stats, Stop: any goroutine
//   - Run: exactly one goroutine
type Scheduler struct {
	loader    Loader
	handler   Handler
	margin    float64
	threshold float64
	logger    *slog.Logger

	queue   *eventQueue
	clock   clock
	stopped chan struct{}

	// Owned by the Run goroutine.
	slots       map[SlotID]*slot
	viewport    Rect
	hasViewport bool
	inflight    int
	barriers    []chan struct{}

	statsMu sync.Mutex
	stats   Stats
}

// New creates a scheduler. handler may be nil.
func New(loader Loader, handler Handler, opts ...Option) *Scheduler {
	s := &Scheduler{
		loader:    loader,
		handler:   handler,
		margin:    DefaultMargin,
		threshold: DefaultThreshold,
		logger:    slog.Default(),
		queue:     newEventQueue(),
		stopped:   make(chan struct{}),
		slots:     make(map[SlotID]*slot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a pending slot for name. Registering a slot that is already
// registered is a no-op. Returns false if the scheduler has stopped.
func (s *Scheduler) Register(id SlotID, name string) bool {
	return s.queue.Enqueue(event{kind: eventRegister, slot: id, name: name})
}

// Unregister removes a slot. An in-flight fetch for it still completes but
// its delivery is dropped.
func (s *Scheduler) Unregister(id SlotID) bool {
	return s.queue.Enqueue(event{kind: eventUnregister, slot: id})
}

// Observe records new bounds for slots and re-evaluates them.
func (s *Scheduler) Observe(entries ...Entry) bool {
	copied := make([]Entry, len(entries))
	copy(copied, entries)
	return s.queue.Enqueue(event{kind: eventObserve, entries: copied})
}

// Scroll records a new viewport and re-evaluates every pending slot.
func (s *Scheduler) Scroll(viewport Rect) bool {
	return s.queue.Enqueue(event{kind: eventScroll, viewport: viewport})
}

// Flush blocks until every event enqueued before it has been processed and
// no fetch is in flight.
func (s *Scheduler) Flush(ctx context.Context) error {
	done := make(chan struct{})
	if !s.queue.Enqueue(event{kind: eventBarrier, done: done}) {
		return ErrStopped
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return ErrStopped
	}
}

// Stop closes the queue; Run returns once it notices.
func (s *Scheduler) Stop() {
	s.queue.Close()
}

// Stats returns a snapshot of the scheduler state.
func (s *Scheduler) Stats() Stats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats
}

// Run processes events until ctx is cancelled or Stop is called.
//
// Must be called from exactly one goroutine. Loader calls receive ctx.
func (s *Scheduler) Run(ctx context.Context) error {
	defer close(s.stopped)
	s.logger.Debug("scheduler starting", "margin", s.margin, "threshold", s.threshold)

	for {
		ev, ok := s.queue.TryDequeue()
		if ok {
			s.process(ctx, ev)
			continue
		}

		select {
		case <-ctx.Done():
			s.logger.Debug("scheduler stopping: context cancelled")
			s.queue.Close()
			return ctx.Err()

		case <-s.queue.Wait():
			// The signal channel is closed with the queue.
			if s.queue.Len() == 0 && s.queue.Closed() {
				s.logger.Debug("scheduler stopping: queue closed")
				return nil
			}
		}
	}
}

// process routes one event. Called only from Run.
func (s *Scheduler) process(ctx context.Context, ev event) {
	switch ev.kind {
	case eventRegister:
		s.register(ev.slot, ev.name)
	case eventUnregister:
		s.unregister(ev.slot)
	case eventObserve:
		s.observe(ctx, ev.entries)
	case eventScroll:
		s.viewport = ev.viewport
		s.hasViewport = true
		s.scan(ctx)
	case eventComplete:
		s.complete(ev)
	case eventBarrier:
		s.barriers = append(s.barriers, ev.done)
	default:
		s.logger.Error("unknown scheduler event", "kind", ev.kind)
	}
	s.publishStats()
	s.releaseBarriers()
}

func (s *Scheduler) register(id SlotID, name string) {
	if _, ok := s.slots[id]; ok {
		s.logger.Debug("slot already registered", "slot", id)
		return
	}
	s.slots[id] = &slot{name: name, gen: s.clock.Next()}
}

func (s *Scheduler) unregister(id SlotID) {
	delete(s.slots, id)
}

func (s *Scheduler) observe(ctx context.Context, entries []Entry) {
	for _, e := range entries {
		sl, ok := s.slots[e.Slot]
		if !ok {
			continue
		}
		sl.bounds = e.Bounds
		sl.hasBounds = true
		s.evaluate(ctx, e.Slot, sl)
	}
}

// scan evaluates every pending slot in registration order.
func (s *Scheduler) scan(ctx context.Context) {
	ids := make([]SlotID, 0, len(s.slots))
	for id, sl := range s.slots {
		if !sl.serviced && sl.hasBounds {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.slots[ids[i]].gen < s.slots[ids[j]].gen
	})
	for _, id := range ids {
		s.evaluate(ctx, id, s.slots[id])
	}
}

// evaluate services sl if it is pending and visible.
func (s *Scheduler) evaluate(ctx context.Context, id SlotID, sl *slot) {
	if sl.serviced || !sl.hasBounds || !s.hasViewport {
		return
	}
	if !Visible(sl.bounds, s.viewport, s.margin, s.threshold) {
		return
	}
	s.service(ctx, id, sl)
}

// service leaves the pending set and issues the one fetch for this slot.
func (s *Scheduler) service(ctx context.Context, id SlotID, sl *slot) {
	sl.serviced = true
	s.inflight++
	s.statsMu.Lock()
	s.stats.Serviced++
	s.statsMu.Unlock()

	s.logger.Debug("servicing slot", "slot", id, "icon", sl.name)
	name, gen := sl.name, sl.gen
	go func() {
		src, err := s.loader.Get(ctx, name)
		s.queue.Enqueue(event{
			kind: eventComplete,
			slot: id,
			name: name,
			gen:  gen,
			delivery: Delivery{
				Slot:   id,
				Name:   name,
				Source: src,
				Err:    err,
			},
		})
	}()
}

func (s *Scheduler) complete(ev event) {
	s.inflight--

	sl, ok := s.slots[ev.slot]
	if !ok || sl.gen != ev.gen {
		s.logger.Debug("dropping delivery for detached slot", "slot", ev.slot, "icon", ev.name)
		s.statsMu.Lock()
		s.stats.Dropped++
		s.statsMu.Unlock()
	} else {
		if ev.delivery.Err != nil {
			s.logger.Debug("slot load failed", "slot", ev.slot, "icon", ev.name, "error", ev.delivery.Err)
		}
		s.statsMu.Lock()
		s.stats.Delivered++
		s.statsMu.Unlock()
		if s.handler != nil {
			s.handler(ev.delivery)
		}
	}
}

// releaseBarriers wakes Flush callers once nothing is in flight.
func (s *Scheduler) releaseBarriers() {
	if s.inflight > 0 {
		return
	}
	for _, done := range s.barriers {
		close(done)
	}
	s.barriers = nil
}

func (s *Scheduler) publishStats() {
	pending := 0
	for _, sl := range s.slots {
		if !sl.serviced {
			pending++
		}
	}
	s.statsMu.Lock()
	s.stats.Pending = pending
	s.stats.Attached = len(s.slots)
	s.stats.InFlight = s.inflight
	s.statsMu.Unlock()
}
