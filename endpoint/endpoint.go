// Package endpoint abstracts the byte-addressed blob store chunks are
// persisted to, grounded on massifs/objectstore.go's ObjectReaderWriter
// interface and generalizing the retry discipline of
// massifs/massifcommitter.go's CommitContext (spec.md §4.6): PUTs and GETs
// retry transient failures with linear backoff, up to 20 attempts, and
// surface a fatal error to the caller (not os.Exit — see DESIGN.md's
// disposition of spec.md §9's Open Question) once retries are exhausted.
package endpoint

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// MaxAttempts is the number of PUT/GET attempts before surfacing
// ErrFatalEndpoint, per spec.md §4.6.
const MaxAttempts = 20

// ErrFatalEndpoint wraps the last transient error once retries are
// exhausted. spec.md §9 flags process-exit-on-fatal-I/O as a design flaw
// to be avoided in a reimplementation; this type is what callers (a
// builder, a cmd/ driver) can match on to decide whether to abort the
// whole build or checkpoint and resume.
type ErrFatalEndpoint struct {
	Path string
	Op   string
	Last error
}

func (e *ErrFatalEndpoint) Error() string {
	return fmt.Sprintf("endpoint: %s %q exhausted %d attempts: %v", e.Op, e.Path, MaxAttempts, e.Last)
}

func (e *ErrFatalEndpoint) Unwrap() error { return e.Last }

// ErrNotFound is returned by Get when path does not exist.
var ErrNotFound = errors.New("endpoint: object not found")

// Backend performs a single, non-retried attempt at a PUT or GET. Endpoint
// wraps a Backend with the retry policy spec.md §4.6 describes.
type Backend interface {
	PutOnce(ctx context.Context, path string, data []byte) error
	GetOnce(ctx context.Context, path string) ([]byte, error)
}

// Endpoint is the retrying adapter the core depends on.
type Endpoint struct {
	backend Backend
	log     *zap.Logger
	sleep   func(time.Duration)
}

// New wraps backend with the retry policy. A nil logger uses zap.NewNop().
func New(backend Backend, log *zap.Logger) *Endpoint {
	if log == nil {
		log = zap.NewNop()
	}
	return &Endpoint{backend: backend, log: log, sleep: time.Sleep}
}

// Put uploads data to path, retrying transient failures. Attempt k (1
// indexed) sleeps k seconds after a failure before retrying (spec.md §4.6).
// The idempotence assumption (repeated PUTs of identical bytes to the same
// path are equivalent to one; a path's contents are immutable once first
// written) is the caller's responsibility, not enforced here.
func (e *Endpoint) Put(ctx context.Context, path string, data []byte) error {
	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if err := e.backend.PutOnce(ctx, path, data); err != nil {
			lastErr = err
			e.log.Warn("transient endpoint put failure",
				zap.String("path", path), zap.Int("attempt", attempt), zap.Error(err))
			if attempt < MaxAttempts {
				e.sleep(time.Duration(attempt) * time.Second)
			}
			continue
		}
		return nil
	}
	return &ErrFatalEndpoint{Path: path, Op: "put", Last: lastErr}
}

// SetSleepForTest overrides the backoff sleep function, letting tests
// observe the retry schedule without a real 190-second worst case (spec.md
// §8 boundary scenario 6).
func SetSleepForTest(e *Endpoint, sleep func(time.Duration)) {
	e.sleep = sleep
}

// Get downloads path's bytes, retrying transient failures with the same
// backoff as Put.
func (e *Endpoint) Get(ctx context.Context, path string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		data, err := e.backend.GetOnce(ctx, path)
		if err == nil {
			return data, nil
		}
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		lastErr = err
		e.log.Warn("transient endpoint get failure",
			zap.String("path", path), zap.Int("attempt", attempt), zap.Error(err))
		if attempt < MaxAttempts {
			e.sleep(time.Duration(attempt) * time.Second)
		}
	}
	return nil, &ErrFatalEndpoint{Path: path, Op: "get", Last: lastErr}
}
