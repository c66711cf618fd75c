// Package lotstate owns a lot's lifecycle state and its legal transitions.
//
//	UPCOMING --activate--> OPEN --accept--> OPEN
//	OPEN --close--> SOLD | RESERVE_NOT_MET
//	UPCOMING|OPEN --withdraw--> WITHDRAWN
//
// Transition methods are the only writers of status, current bid and current
// bidder. Every transition computes the next lot, hands it to a PersistFunc,
// and only publishes it to readers once persistence succeeded. Writers must
// be serialized by the caller; readers may call Snapshot at any time.
package lotstate

import (
	"fmt"
	"sync"
	"time"

	"lot-bidding/internal/biddingerrors"
	"lot-bidding/internal/models"
)

// PersistFunc durably stores the next lot state before it becomes visible.
type PersistFunc func(next models.Lot) error

// Machine holds one lot.
type Machine struct {
	mu  sync.RWMutex
	lot models.Lot
}

func New(lot models.Lot) *Machine {
	return &Machine{lot: lot.Clone()}
}

// Snapshot returns a consistent copy of the lot.
func (m *Machine) Snapshot() models.Lot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lot.Clone()
}

func (m *Machine) commit(next models.Lot, persist PersistFunc) error {
	next.Version++
	if persist != nil {
		if err := persist(next.Clone()); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.lot = next
	m.mu.Unlock()
	return nil
}

// Activate opens an upcoming lot once now has reached its start time.
// Activating an open lot is a no-op.
func (m *Machine) Activate(now time.Time, persist PersistFunc) (models.Lot, error) {
	cur := m.Snapshot()
	switch cur.Status {
	case models.StatusOpen:
		return cur, nil
	case models.StatusUpcoming:
	default:
		return cur, fmt.Errorf("activate lot %s from %s: %w", cur.LotID, cur.Status, biddingerrors.ErrInvalidTransition)
	}
	if now.Before(cur.StartsAt) {
		return cur, fmt.Errorf("activate lot %s before start %s: %w", cur.LotID, cur.StartsAt.Format(time.RFC3339), biddingerrors.ErrInvalidTransition)
	}

	next := cur
	next.Status = models.StatusOpen
	if err := m.commit(next, persist); err != nil {
		return cur, err
	}
	return m.Snapshot(), nil
}

// Accept records bid as the standing bid on an open lot.
func (m *Machine) Accept(bid models.Bid, persist PersistFunc) (models.Lot, error) {
	cur := m.Snapshot()
	if cur.Status != models.StatusOpen {
		return cur, fmt.Errorf("accept bid on lot %s in %s: %w", cur.LotID, cur.Status, biddingerrors.ErrLotNotOpen)
	}

	next := cur
	amount := bid.Amount
	next.CurrentBid = &amount
	next.CurrentBidderID = bid.BidderID
	if err := m.commit(next, persist); err != nil {
		return cur, err
	}
	return m.Snapshot(), nil
}

// CheckClosable reports whether lot may be closed at now. A forced close
// ignores the scheduled closing time.
func CheckClosable(lot models.Lot, now time.Time, force bool) error {
	if lot.Status != models.StatusOpen {
		return fmt.Errorf("close lot %s from %s: %w", lot.LotID, lot.Status, biddingerrors.ErrInvalidTransition)
	}
	if force {
		return nil
	}
	if lot.ClosesAt == nil {
		return fmt.Errorf("lot %s has no closing time: %w", lot.LotID, biddingerrors.ErrLotNotClosable)
	}
	if now.Before(*lot.ClosesAt) {
		return fmt.Errorf("lot %s closes at %s: %w", lot.LotID, lot.ClosesAt.Format(time.RFC3339), biddingerrors.ErrLotNotClosable)
	}
	return nil
}

// Close moves an open lot to the terminal status implied by outcome.
// Closing a terminal lot returns its recorded outcome and changes nothing.
func (m *Machine) Close(outcome models.ClosingOutcome, persist PersistFunc) (models.ClosingOutcome, error) {
	cur := m.Snapshot()
	if cur.Status.IsTerminal() && cur.Outcome != nil {
		return cur.Outcome.Clone(), nil
	}
	if cur.Status != models.StatusOpen {
		return models.ClosingOutcome{}, fmt.Errorf("close lot %s from %s: %w", cur.LotID, cur.Status, biddingerrors.ErrInvalidTransition)
	}
	if outcome.Kind == models.OutcomeWithdrawn {
		return models.ClosingOutcome{}, fmt.Errorf("close lot %s with withdrawn outcome: %w", cur.LotID, biddingerrors.ErrInvalidTransition)
	}

	next := cur
	next.Status = outcome.LotStatus()
	// CurrentBid mirrors the ledger; a commission sale price lives on the outcome only.
	recorded := outcome.Clone()
	next.Outcome = &recorded
	if err := m.commit(next, persist); err != nil {
		return models.ClosingOutcome{}, err
	}
	return recorded.Clone(), nil
}

// Withdraw pulls a lot that has not closed. Withdrawing a withdrawn lot is a no-op.
func (m *Machine) Withdraw(now time.Time, persist PersistFunc) (models.Lot, error) {
	cur := m.Snapshot()
	switch cur.Status {
	case models.StatusWithdrawn:
		return cur, nil
	case models.StatusUpcoming, models.StatusOpen:
	default:
		return cur, fmt.Errorf("withdraw lot %s from %s: %w", cur.LotID, cur.Status, biddingerrors.ErrInvalidTransition)
	}

	next := cur
	next.Status = models.StatusWithdrawn
	next.Outcome = &models.ClosingOutcome{
		Kind:            models.OutcomeWithdrawn,
		HighestBid:      cur.CurrentBid,
		HighestBidderID: cur.CurrentBidderID,
		ClosedAt:        now,
	}
	if err := m.commit(next, persist); err != nil {
		return cur, err
	}
	return m.Snapshot(), nil
}
