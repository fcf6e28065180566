// Package gate provides the single process-wide lock that serializes every
// call into a native library that is neither reentrant nor thread-safe.
//
// A Gate owns the value it guards. The value is only reachable from inside
// a closure passed to Do, so code holding a Gate cannot touch the native
// state without holding the lock. Do must not be called from inside a Do
// closure; the lock is not reentrant.
package gate

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coinbase/netcdf-go/pkg/netcdf/logging"
)

// ErrPoisoned is matched by the error every Do returns once a closure has
// panicked while holding the lock.
var ErrPoisoned = errors.New("gate: poisoned by a panic in a native call")

// PoisonError records the panic that poisoned a gate.
type PoisonError struct {
	Value any
	Stack []byte
}

func (e *PoisonError) Error() string {
	return fmt.Sprintf("gate: poisoned by a panic in a native call: %v", e.Value)
}

func (e *PoisonError) Is(target error) bool { return target == ErrPoisoned }

// Observer is told when a closure starts and finishes. Both calls happen
// with the lock held.
type Observer interface {
	Enter()
	Exit()
}

// Stats is a snapshot of gate counters.
type Stats struct {
	Calls     uint64
	Contended uint64
	Wait      time.Duration
	Held      time.Duration
	Poisoned  bool
}

// Option configures a Gate.
type Option func(*config)

type config struct {
	logger   logging.Logger
	slow     time.Duration
	observer Observer
}

// WithLogger sets the logger used for poisoning and slow-hold reports.
func WithLogger(l logging.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithSlowThreshold logs a warning for every hold longer than d. Zero
// disables the check.
func WithSlowThreshold(d time.Duration) Option {
	return func(c *config) { c.slow = d }
}

// WithObserver installs an observer.
func WithObserver(o Observer) Option {
	return func(c *config) { c.observer = o }
}

// Gate serializes access to a value of type T.
type Gate[T any] struct {
	mu     sync.Mutex
	target T
	cfg    config       // guarded by mu
	poison *PoisonError // guarded by mu

	calls     atomic.Uint64
	contended atomic.Uint64
	waitNs    atomic.Int64
	heldNs    atomic.Int64
	poisoned  atomic.Bool
}

// New returns a gate guarding target.
func New[T any](target T, opts ...Option) *Gate[T] {
	g := &Gate[T]{target: target, cfg: config{logger: logging.Discard()}}
	for _, opt := range opts {
		opt(&g.cfg)
	}
	if g.cfg.logger == nil {
		g.cfg.logger = logging.Discard()
	}
	return g
}

// Do runs fn with the lock held and returns its error. The lock is released
// on every path out of fn, including a panic; a panic poisons the gate and
// is reported as a *PoisonError.
func (g *Gate[T]) Do(fn func(T) error) (err error) {
	begin := time.Now()
	if !g.mu.TryLock() {
		g.contended.Add(1)
		g.mu.Lock()
	}
	defer g.mu.Unlock()
	acquired := time.Now()
	g.calls.Add(1)
	g.waitNs.Add(int64(acquired.Sub(begin)))

	if g.poison != nil {
		return g.poison
	}
	if obs := g.cfg.observer; obs != nil {
		obs.Enter()
		defer obs.Exit()
	}
	defer func() {
		held := time.Since(acquired)
		g.heldNs.Add(int64(held))
		if r := recover(); r != nil {
			g.poison = &PoisonError{Value: r, Stack: debug.Stack()}
			g.poisoned.Store(true)
			g.cfg.logger.Error(context.Background(), "native call panicked, gate poisoned", "panic", r)
			err = g.poison
			return
		}
		if g.cfg.slow > 0 && held > g.cfg.slow {
			g.cfg.logger.Warn(context.Background(), "slow native call", "held", held, "threshold", g.cfg.slow)
		}
	}()
	return fn(g.target)
}

// Configure applies options while holding the lock.
func (g *Gate[T]) Configure(opts ...Option) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, opt := range opts {
		opt(&g.cfg)
	}
	if g.cfg.logger == nil {
		g.cfg.logger = logging.Discard()
	}
}

// Stats returns the current counters without taking the lock.
func (g *Gate[T]) Stats() Stats {
	return Stats{
		Calls:     g.calls.Load(),
		Contended: g.contended.Load(),
		Wait:      time.Duration(g.waitNs.Load()),
		Held:      time.Duration(g.heldNs.Load()),
		Poisoned:  g.poisoned.Load(),
	}
}
