package feed

// Tests for the session retry contract: a fresh snapshot after every
// (re)subscribe, a bounded failure streak ending in a terminal error, and a
// manual reset that re-arms the budget.

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ELGOKU23/corte/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource scripts subscription failures and serves canned snapshots.
type fakeSource struct {
	mu         sync.Mutex
	failsLeft  int // -1: fail forever
	subscribes int
	events     chan struct{}
	cortes     []dto.CorteResponse
	loadErr    error
}

func (f *fakeSource) Subscribe(_ context.Context) (<-chan struct{}, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribes++
	if f.failsLeft != 0 {
		if f.failsLeft > 0 {
			f.failsLeft--
		}
		return nil, nil, errors.New("subscribe refused")
	}
	ev := make(chan struct{}, 1)
	f.events = ev
	return ev, func() {}, nil
}

func (f *fakeSource) Load(_ context.Context) ([]dto.CorteResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]dto.CorteResponse(nil), f.cortes...), nil
}

func (f *fakeSource) setCortes(cortes []dto.CorteResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cortes = cortes
}

func (f *fakeSource) notify() {
	f.mu.Lock()
	ev := f.events
	f.mu.Unlock()
	ev <- struct{}{}
}

func (f *fakeSource) subscribeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribes
}

func testPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond}
}

func waitSnapshot(t *testing.T, snaps <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-snaps:
		require.True(t, ok, "snapshot channel closed unexpectedly")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestSession_SnapshotInicial(t *testing.T) {
	source := &fakeSource{cortes: []dto.CorteResponse{{ID: "a"}, {ID: "b"}}}
	session := NewSession(source, testPolicy())
	defer session.Close()

	snaps, _ := session.Open(context.Background())
	snap := waitSnapshot(t, snaps)
	assert.Len(t, snap.Cortes, 2)
	assert.False(t, snap.RecibidoEn.IsZero())
}

func TestSession_RecargaPorEvento(t *testing.T) {
	source := &fakeSource{cortes: []dto.CorteResponse{{ID: "a"}}}
	session := NewSession(source, testPolicy())
	defer session.Close()

	snaps, _ := session.Open(context.Background())
	waitSnapshot(t, snaps)

	source.setCortes([]dto.CorteResponse{{ID: "nuevo"}, {ID: "a"}})
	source.notify()

	snap := waitSnapshot(t, snaps)
	require.Len(t, snap.Cortes, 2)
	// Full snapshot replacement, newest first.
	assert.Equal(t, "nuevo", snap.Cortes[0].ID)
}

func TestSession_TerminalTrasAgotarReintentos(t *testing.T) {
	source := &fakeSource{failsLeft: -1}
	session := NewSession(source, testPolicy())
	defer session.Close()

	_, errs := session.Open(context.Background())

	deadline := time.After(2 * time.Second)
	for {
		select {
		case err := <-errs:
			if errors.Is(err, ErrTerminal) {
				// Exactly MaxAttempts subscribes, then it stopped on its own.
				assert.Equal(t, 3, source.subscribeCount())
				return
			}
		case <-deadline:
			t.Fatal("never reached the terminal error")
		}
	}
}

func TestSession_ResetRearmaElPresupuesto(t *testing.T) {
	source := &fakeSource{failsLeft: -1, cortes: []dto.CorteResponse{{ID: "a"}}}
	session := NewSession(source, testPolicy())
	defer session.Close()

	snaps, errs := session.Open(context.Background())

	deadline := time.After(2 * time.Second)
terminal:
	for {
		select {
		case err := <-errs:
			if errors.Is(err, ErrTerminal) {
				break terminal
			}
		case <-deadline:
			t.Fatal("never reached the terminal error")
		}
	}

	// The source recovers; a manual reset rebuilds from scratch.
	source.mu.Lock()
	source.failsLeft = 0
	source.mu.Unlock()
	session.Reset(context.Background())

	snap := waitSnapshot(t, snaps)
	assert.Len(t, snap.Cortes, 1)
}

func TestSession_FallaIntermedia_NoEsTerminal(t *testing.T) {
	// Two failures, then success: the streak never reaches the budget.
	source := &fakeSource{failsLeft: 2, cortes: []dto.CorteResponse{{ID: "a"}}}
	session := NewSession(source, testPolicy())
	defer session.Close()

	snaps, errs := session.Open(context.Background())
	snap := waitSnapshot(t, snaps)
	assert.Len(t, snap.Cortes, 1)
	assert.Equal(t, 3, source.subscribeCount())

	select {
	case err := <-errs:
		assert.NotErrorIs(t, err, ErrTerminal)
	default:
	}
}

func TestSession_CloseCierraCanales(t *testing.T) {
	source := &fakeSource{cortes: []dto.CorteResponse{{ID: "a"}}}
	session := NewSession(source, testPolicy())

	snaps, errs := session.Open(context.Background())
	waitSnapshot(t, snaps)
	session.Close()
	session.Close() // idempotent

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-snaps:
			if !ok {
				// errs closes too
				for range errs {
				}
				return
			}
		case <-deadline:
			t.Fatal("snapshot channel never closed")
		}
	}
}
