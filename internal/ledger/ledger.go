// Package ledger keeps the append-only history of accepted bids for one lot.
package ledger

import (
	"fmt"
	"iter"
	"sync"

	"lot-bidding/internal/biddingerrors"
	"lot-bidding/internal/models"
)

// Ledger is safe for concurrent readers; appends must come from one writer at a time.
type Ledger struct {
	mu      sync.RWMutex
	lotID   string
	entries []models.Bid
}

func New(lotID string) *Ledger {
	return &Ledger{lotID: lotID}
}

// Restore rebuilds a ledger from persisted bids, enforcing the same ordering
// rules as Append.
func Restore(lotID string, bids []models.Bid) (*Ledger, error) {
	l := New(lotID)
	for _, b := range bids {
		if err := l.Append(b); err != nil {
			return nil, fmt.Errorf("restore ledger for lot %s: %w", lotID, err)
		}
	}
	return l, nil
}

// Check reports whether bid could be appended without appending it.
func (l *Ledger) Check(bid models.Bid) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.check(bid)
}

func (l *Ledger) check(bid models.Bid) error {
	if bid.LotID != l.lotID {
		return fmt.Errorf("%w: bid %s belongs to lot %s, ledger is %s", biddingerrors.ErrOutOfOrder, bid.BidID, bid.LotID, l.lotID)
	}
	if bid.Outcome != models.BidAccepted {
		return fmt.Errorf("%w: bid %s is not accepted", biddingerrors.ErrOutOfOrder, bid.BidID)
	}
	if len(l.entries) == 0 {
		return nil
	}
	last := l.entries[len(l.entries)-1]
	cmp, err := bid.Amount.Compare(last.Amount)
	if err != nil {
		return fmt.Errorf("%w: %v", biddingerrors.ErrOutOfOrder, err)
	}
	if cmp <= 0 {
		return fmt.Errorf("%w: bid %s amount %s does not exceed %s", biddingerrors.ErrOutOfOrder, bid.BidID, bid.Amount, last.Amount)
	}
	return nil
}

// Append adds an accepted bid. Its amount must strictly exceed the last entry.
func (l *Ledger) Append(bid models.Bid) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.check(bid); err != nil {
		return err
	}
	l.entries = append(l.entries, bid)
	return nil
}

// Latest returns the standing bid, if any.
func (l *Ledger) Latest() (models.Bid, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.entries) == 0 {
		return models.Bid{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Len returns the number of accepted bids.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// History yields accepted bids in submission order. The sequence covers the
// entries present when History was called and can be ranged over repeatedly.
func (l *Ledger) History() iter.Seq[models.Bid] {
	l.mu.RLock()
	// entries are never mutated once appended, so the captured prefix stays valid
	view := l.entries[:len(l.entries):len(l.entries)]
	l.mu.RUnlock()

	return func(yield func(models.Bid) bool) {
		for _, b := range view {
			if !yield(b) {
				return
			}
		}
	}
}
