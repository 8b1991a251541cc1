// Package feed delivers live snapshots of the corte collection.
//
// A Session owns one standing subscription to the change channel. On every
// change notification it reloads the COMPLETE ordered collection and hands
// it to the consumer as a fresh snapshot — never a diff. The in-memory
// projection is replaced wholesale each time; no other component mutates it.
package feed

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ELGOKU23/corte/internal/dto"

	"github.com/rs/zerolog/log"
)

// Snapshot is a complete, ordered view of the corte collection, with all
// timestamps already normalized to RFC3339 strings.
type Snapshot struct {
	Cortes     []dto.CorteResponse
	RecibidoEn time.Time
}

// Source abstracts the change subscription plus the snapshot load, so the
// session's retry behavior is testable without redis.
type Source interface {
	// Subscribe opens a brand-new subscription and returns the event stream
	// plus a teardown func. The stream closes when the subscription dies.
	Subscribe(ctx context.Context) (<-chan struct{}, func(), error)
	// Load returns the full ordered snapshot.
	Load(ctx context.Context) ([]dto.CorteResponse, error)
}

// ErrTerminal is reported once the retry policy is exhausted. The session
// stays dead until Reset is invoked.
var ErrTerminal = errors.New("feed: subscription failed after max retries, manual reset required")

// Session is the explicit lifecycle object for one live subscription.
// Open starts it, Close tears it down deterministically, and Reset clears
// the consecutive-failure counter and rebuilds from scratch.
type Session struct {
	source Source
	policy RetryPolicy

	snaps chan Snapshot
	errs  chan error

	mu       sync.Mutex
	failures int
	cancel   context.CancelFunc
	closed   bool
}

func NewSession(source Source, policy RetryPolicy) *Session {
	return &Session{
		source: source,
		policy: policy,
		snaps:  make(chan Snapshot, 1),
		errs:   make(chan error, 1),
	}
}

// Open starts the subscription loop. The returned channels stay valid across
// internal retries and across Reset; they close only when ctx ends or Close
// is called.
func (s *Session) Open(ctx context.Context) (<-chan Snapshot, <-chan error) {
	s.start(ctx)
	return s.snaps, s.errs
}

// Reset clears the retry counter and rebuilds the subscription from scratch.
// Safe to call after the session went terminal.
func (s *Session) Reset(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.failures = 0
	s.mu.Unlock()
	s.start(ctx)
}

// Close tears the subscription down. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	close(s.snaps)
	close(s.errs)
}

func (s *Session) start(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	go s.run(runCtx)
}

func (s *Session) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		events, stop, err := s.source.Subscribe(ctx)
		if err != nil {
			if !s.reportFailure(ctx, err) {
				return
			}
			continue
		}

		// Initial snapshot right after (re)subscribing.
		if err := s.deliver(ctx); err != nil {
			stop()
			if !s.reportFailure(ctx, err) {
				return
			}
			continue
		}

		// Subscription established and first snapshot delivered — the
		// failure streak is over.
		s.mu.Lock()
		s.failures = 0
		s.mu.Unlock()

		alive := true
		for alive {
			select {
			case <-ctx.Done():
				stop()
				return
			case _, ok := <-events:
				if !ok {
					// Subscription died mid-flight; discard it and build a
					// brand-new one (no resumption).
					stop()
					alive = false
					if !s.reportFailure(ctx, errors.New("feed: subscription closed by server")) {
						return
					}
					continue
				}
				if err := s.deliver(ctx); err != nil {
					log.Error().Err(err).Msg("feed: snapshot reload failed")
					s.emitErr(ctx, err)
				}
			}
		}
	}
}

// deliver loads the full collection and pushes it as a snapshot, dropping
// the stale pending snapshot when the consumer is behind.
func (s *Session) deliver(ctx context.Context) error {
	cortes, err := s.source.Load(ctx)
	if err != nil {
		return err
	}
	snap := Snapshot{Cortes: cortes, RecibidoEn: time.Now().UTC()}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	select {
	case s.snaps <- snap:
	default:
		select {
		case <-s.snaps:
		default:
		}
		s.snaps <- snap
	}
	return nil
}

// reportFailure surfaces the error, counts it against the policy, and waits
// the fixed delay. It returns false when the session must stop retrying
// (terminal or context done).
func (s *Session) reportFailure(ctx context.Context, err error) bool {
	s.mu.Lock()
	s.failures++
	failures := s.failures
	s.mu.Unlock()

	log.Warn().Err(err).Int("intento", failures).Int("max", s.policy.MaxAttempts).
		Msg("feed: subscription failure")
	s.emitErr(ctx, err)

	if s.policy.Exhausted(failures) {
		s.emitErr(ctx, ErrTerminal)
		return false
	}

	select {
	case <-ctx.Done():
		return false
	case <-time.After(s.policy.Delay):
		return true
	}
}

func (s *Session) emitErr(ctx context.Context, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || ctx.Err() != nil {
		return
	}
	select {
	case s.errs <- err:
	default:
		select {
		case <-s.errs:
		default:
		}
		s.errs <- err
	}
}
