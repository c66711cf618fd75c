package bidding

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"lot-bidding/internal/biddingerrors"
	"lot-bidding/internal/ledger"
	"lot-bidding/internal/lotstate"
)

// lotState is the in-memory working copy of one lot.
type lotState struct {
	machine *lotstate.Machine
	ledger  *ledger.Ledger
}

// lotEntry is one slot of the lock table. sem is a one-token semaphore so
// waiting for it can be abandoned on context cancellation. state is nil
// until the lot has been loaded or created under sem.
type lotEntry struct {
	sem   chan struct{}
	state atomic.Pointer[lotState]
}

// lockTable serializes writers per lot. Lots never share an entry.
type lockTable struct {
	mu   sync.Mutex
	lots map[string]*lotEntry
}

func newLockTable() *lockTable {
	return &lockTable{lots: make(map[string]*lotEntry)}
}

func (t *lockTable) entry(lotID string) *lotEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.lots[lotID]
	if !ok {
		e = &lotEntry{sem: make(chan struct{}, 1)}
		t.lots[lotID] = e
	}
	return e
}

func (t *lockTable) peek(lotID string) (*lotEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.lots[lotID]
	return e, ok
}

func (t *lockTable) current(lotID string, e *lotEntry) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lots[lotID] == e
}

// forget drops e from the table. The caller must hold e.sem.
func (t *lockTable) forget(lotID string, e *lotEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lots[lotID] == e {
		delete(t.lots, lotID)
	}
}

// acquire blocks until the caller holds the lot's critical section or ctx
// is done. The returned release must be called exactly once.
func (t *lockTable) acquire(ctx context.Context, lotID string) (*lotEntry, func(), error) {
	for {
		e := t.entry(lotID)
		select {
		case e.sem <- struct{}{}:
		case <-ctx.Done():
			return nil, nil, fmt.Errorf("service: %w - waiting for lot %s: %w", biddingerrors.ErrServiceUnavailable, lotID, ctx.Err())
		}
		// a holder may have forgotten this entry while we waited
		if t.current(lotID, e) {
			var once sync.Once
			return e, func() { once.Do(func() { <-e.sem }) }, nil
		}
		<-e.sem
	}
}
