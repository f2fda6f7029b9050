package persist

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/statekit-dev/statekit/pkg/store"
)

// Snapshotter ties a reducer store to a snapshot backend. State is
// serialized as JSON, so the state type must round-trip through
// encoding/json.
type Snapshotter[S any] struct {
	store   *store.Store[S]
	backend SnapshotStore
	key     string
	logger  *slog.Logger
	timeout time.Duration
}

// SnapshotterOption configures a Snapshotter.
type SnapshotterOption[S any] func(*Snapshotter[S])

// WithLogger sets the logger for write-through failures.
// Default: slog.Default().
func WithLogger[S any](logger *slog.Logger) SnapshotterOption[S] {
	return func(p *Snapshotter[S]) {
		p.logger = logger
	}
}

// WithSaveTimeout bounds each write-through save triggered by Watch.
// Default: 5 seconds.
func WithSaveTimeout[S any](d time.Duration) SnapshotterOption[S] {
	return func(p *Snapshotter[S]) {
		p.timeout = d
	}
}

// NewSnapshotter creates a Snapshotter saving the store's state under key.
func NewSnapshotter[S any](s *store.Store[S], backend SnapshotStore, key string, opts ...SnapshotterOption[S]) *Snapshotter[S] {
	p := &Snapshotter[S]{
		store:   s,
		backend: backend,
		key:     key,
		logger:  slog.Default(),
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Save writes the store's current state to the backend.
func (p *Snapshotter[S]) Save(ctx context.Context) error {
	return p.save(ctx, p.store.Peek())
}

func (p *Snapshotter[S]) save(ctx context.Context, state S) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return p.backend.Save(ctx, p.key, data)
}

// Restore loads the snapshot and decodes it. The caller seeds a new store
// with the returned state. A missing snapshot yields a NotFoundError; use
// IsNotFound to fall back to a zero initial state.
func (p *Snapshotter[S]) Restore(ctx context.Context) (S, error) {
	var state S

	data, err := p.backend.Load(ctx, p.key)
	if err != nil {
		return state, err
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return state, err
	}
	return state, nil
}

// Watch subscribes to the store and writes every committed state through to
// the backend. Saves run on a separate goroutine so dispatch latency does
// not depend on the backend; failures are logged, not surfaced. The
// returned cancel stops the write-through.
func (p *Snapshotter[S]) Watch() (cancel func()) {
	updates := make(chan S, 16)
	done := make(chan struct{})

	unsubscribe := p.store.Subscribe(func(state S) {
		select {
		case updates <- state:
		default:
			// Backend is lagging. Drop this state; a newer one follows.
		}
	})

	go func() {
		defer close(done)
		for state := range updates {
			ctx, cancelSave := context.WithTimeout(context.Background(), p.timeout)
			if err := p.save(ctx, state); err != nil {
				p.logger.Warn("snapshot write-through failed",
					"store", p.store.Name(),
					"key", p.key,
					"error", err,
				)
			}
			cancelSave()
		}
	}()

	return func() {
		unsubscribe()
		close(updates)
		<-done
	}
}
