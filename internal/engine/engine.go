// Package engine runs named session and catalog operations and notifies
// listeners once each operation has settled.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmcdole/iplay/internal/catalog"
	"github.com/mmcdole/iplay/internal/domain"
	"github.com/mmcdole/iplay/internal/events"
	"github.com/mmcdole/iplay/internal/metrics"
	"github.com/mmcdole/iplay/internal/session"
)

// ErrUnknownOp is returned by Dispatch for an unrecognized operation name
var ErrUnknownOp = errors.New("unknown operation")

// Engine owns the session, the catalog, and the listeners
type Engine struct {
	session *session.Store
	catalog *catalog.Service
	cache   *catalog.Cache
	bus     *events.Bus

	mu        sync.Mutex
	listeners map[string]map[int]Listener
	nextID    int
	genCtx    context.Context
	genCancel context.CancelCauseFunc

	wg     sync.WaitGroup
	logger *slog.Logger
}

// New creates an engine over kv and connector
func New(kv domain.KeyValueStore, connector domain.Connector, cfg catalog.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		bus:       events.NewBus(logger),
		listeners: make(map[string]map[int]Listener),
		logger:    logger.With("component", "engine"),
	}
	e.genCtx, e.genCancel = context.WithCancelCause(context.Background())

	e.cache = catalog.NewCache(logger)
	e.session = session.New(kv, connector, logger, session.WithChangeHook(e.onSiteChange))
	e.catalog = catalog.NewService(e.session, e.cache, cfg, logger)
	return e
}

// onSiteChange runs under the session lock on every active-site transition
func (e *Engine) onSiteChange(c session.Change) {
	sameSite := c.Prev != nil && c.Prev.ID == c.Next.ID
	if sameSite && (c.Reason == session.ReasonLogin || c.Reason == session.ReasonUpdate) {
		e.cache.Rebind(c.Generation)
	} else {
		e.cache.Reset(c.Generation)
	}

	e.mu.Lock()
	e.genCancel(domain.ErrStaleSite)
	e.genCtx, e.genCancel = context.WithCancelCause(context.Background())
	e.mu.Unlock()

	e.logger.Info("active site changed", "reason", c.Reason, "siteID", c.Next.ID, "generation", c.Generation)
}

// opContext derives a context that is also cancelled when the active site changes
func (e *Engine) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	e.mu.Lock()
	gen := e.genCtx
	e.mu.Unlock()

	opCtx, cancel := context.WithCancelCause(ctx)
	stop := context.AfterFunc(gen, func() { cancel(context.Cause(gen)) })
	return opCtx, func() {
		stop()
		cancel(nil)
	}
}

// staleCause replaces a cancellation caused by a site change with domain.ErrStaleSite
func staleCause(ctx context.Context, err error) error {
	if err != nil && ctx.Err() != nil && errors.Is(context.Cause(ctx), domain.ErrStaleSite) && !errors.Is(err, domain.ErrStaleSite) {
		return fmt.Errorf("%w: %w", domain.ErrStaleSite, err)
	}
	return err
}

// Session returns the session store
func (e *Engine) Session() *session.Store { return e.session }

// Cache returns the catalog cache
func (e *Engine) Cache() *catalog.Cache { return e.cache }

// Bus returns the outcome bus
func (e *Engine) Bus() *events.Bus { return e.bus }

// Listen registers l for every settlement of op and returns a function that removes it
func (e *Engine) Listen(op string, l Listener) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.listeners[op] == nil {
		e.listeners[op] = make(map[int]Listener)
	}
	id := e.nextID
	e.nextID++
	e.listeners[op][id] = l

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners[op], id)
	}
}

// settle records the outcome of one operation and notifies listeners.
// It runs exactly once per operation, after the state change has committed.
func (e *Engine) settle(op, arg string, start time.Time, value any, err error) {
	metrics.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	e.mu.Lock()
	listeners := make([]Listener, 0, len(e.listeners[op]))
	for _, l := range e.listeners[op] {
		listeners = append(listeners, l)
	}
	e.mu.Unlock()

	if err != nil {
		metrics.OperationsTotal.WithLabelValues(op, string(events.Rejected)).Inc()
		e.logger.Warn("operation rejected", "op", op, "arg", arg, "error", err)
		e.bus.Publish(events.NewRejected(op, arg, err))
		for _, l := range listeners {
			if l.Reject != nil {
				l.Reject(err)
			}
		}
		return
	}

	metrics.OperationsTotal.WithLabelValues(op, string(events.Fulfilled)).Inc()
	e.logger.Debug("operation fulfilled", "op", op, "arg", arg)
	e.bus.Publish(events.NewFulfilled(op, arg, value))
	for _, l := range listeners {
		if l.Resolve != nil {
			l.Resolve(value)
		}
	}
}

// Dispatch runs req in the background. The channel receives exactly one Result.
func (e *Engine) Dispatch(ctx context.Context, req Request) <-chan Result {
	out := make(chan Result, 1)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		value, err := e.run(ctx, req)
		out <- Result{Op: req.Op, Value: value, Err: err}
		close(out)
	}()
	return out
}

func (e *Engine) run(ctx context.Context, req Request) (any, error) {
	switch req.Op {
	case OpLogin:
		return e.Login(ctx, req.Username, req.Password, req.Endpoint, req.Callback)
	case OpSwitch:
		site, err := e.Switch(ctx, req.ID)
		return siteValue(site), err
	case OpRestore:
		site, err := e.Restore(ctx)
		return siteValue(site), err
	case OpRemove:
		return e.Remove(ctx, req.ID)
	case OpFetchAlbums:
		return e.FetchAlbums(ctx)
	case OpFetchActor:
		return e.FetchActor(ctx, req.ID)
	case OpFetchActorWorks:
		return e.FetchActorWorks(ctx, req.ID)
	case OpFetchLatestMedia:
		return e.FetchLatestMedia(ctx)
	case OpFetchAlbumMedia:
		return e.FetchAlbumMedia(ctx, req.ID)
	case OpFetchPlaybackInfo:
		return e.FetchPlaybackInfo(ctx, req.ID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, req.Op)
	}
}

// Close cancels in-flight operations, waits for dispatched ones, and closes the bus
func (e *Engine) Close() error {
	e.mu.Lock()
	e.genCancel(context.Canceled)
	e.mu.Unlock()

	e.wg.Wait()
	return e.bus.Close()
}
