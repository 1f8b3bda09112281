package viewport

import (
	"context"
	"fmt"
	"sync"

	"paperview/pkg/geom"
)

// SizeResolver yields the intrinsic size of a source once it is available.
type SizeResolver interface {
	Resolve(ctx context.Context, src string) (geom.Size, error)
}

// PayloadResolver is a SizeResolver that also yields data belonging to the
// resolved source, such as decoded pixels. The returned commit runs only if
// the load is still current, atomically with the size being applied.
type PayloadResolver interface {
	SizeResolver
	ResolvePayload(ctx context.Context, src string) (geom.Size, func(), error)
}

// Tracker resolves natural sizes in the background and feeds them to an
// engine. Each Load supersedes the previous one; a late result for an old
// source is dropped by the engine's source token.
type Tracker struct {
	eng *Engine
	res SizeResolver

	mu      sync.Mutex
	src     string
	onError func(src string, err error)

	wg sync.WaitGroup
}

// NewTracker creates a tracker feeding eng from res.
func NewTracker(eng *Engine, res SizeResolver) *Tracker {
	return &Tracker{eng: eng, res: res}
}

// OnError sets the callback for failed resolutions. Errors wrap
// ErrResolutionFailed.
func (t *Tracker) OnError(fn func(src string, err error)) {
	t.mu.Lock()
	t.onError = fn
	t.mu.Unlock()
}

// Source returns the most recently loaded source identifier.
func (t *Tracker) Source() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.src
}

// Load starts resolving src. It returns immediately.
func (t *Tracker) Load(ctx context.Context, src string) {
	token := t.eng.BeginSource()

	t.mu.Lock()
	t.src = src
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		size, commit, err := t.resolve(ctx, src)
		if err == nil {
			_, err = t.eng.applyNaturalSize(token, size, commit)
		} else if t.eng.currentSource(token) {
			err = fmt.Errorf("%w: %s: %w", ErrResolutionFailed, src, err)
		} else {
			// Superseded; nobody is waiting for this source any more.
			err = nil
		}
		if err != nil {
			t.fail(src, err)
		}
	}()
}

func (t *Tracker) resolve(ctx context.Context, src string) (geom.Size, func(), error) {
	if pr, ok := t.res.(PayloadResolver); ok {
		return pr.ResolvePayload(ctx, src)
	}
	size, err := t.res.Resolve(ctx, src)
	return size, nil, err
}

func (t *Tracker) fail(src string, err error) {
	t.mu.Lock()
	fn := t.onError
	t.mu.Unlock()

	t.eng.mu.Lock()
	logger := t.eng.logger
	t.eng.mu.Unlock()
	logger.Printf("viewport: %v", err)

	if fn != nil {
		fn(src, err)
	}
}

// Wait blocks until every started resolution has finished.
func (t *Tracker) Wait() {
	t.wg.Wait()
}
