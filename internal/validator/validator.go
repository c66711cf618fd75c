// Package validator decides whether a proposed bid is acceptable on a lot.
// It has no side effects and can be called speculatively.
package validator

import (
	"time"

	"lot-bidding/internal/biddingerrors"
	"lot-bidding/internal/models"
	"lot-bidding/internal/money"
)

// Reason is the outcome of validating a bid
type Reason string

const (
	Accepted         Reason = "ACCEPTED"
	LotNotOpen       Reason = "LOT_NOT_OPEN"
	SelfOutbid       Reason = "SELF_OUTBID"
	BelowMinimum     Reason = "BELOW_MINIMUM"
	CurrencyMismatch Reason = "CURRENCY_MISMATCH"
)

// Result carries the reason and the next minimum bid the lot would accept.
// NextMinimum is the zero Money when the lot is not open.
type Result struct {
	Reason      Reason
	NextMinimum money.Money
}

func (r Result) Accepted() bool { return r.Reason == Accepted }

// Err returns the sentinel matching the reason, or nil when accepted.
func (r Result) Err() error {
	switch r.Reason {
	case Accepted:
		return nil
	case LotNotOpen:
		return biddingerrors.ErrLotNotOpen
	case SelfOutbid:
		return biddingerrors.ErrSelfOutbid
	case BelowMinimum:
		return biddingerrors.ErrBelowMinimum
	case CurrencyMismatch:
		return biddingerrors.ErrCurrencyMismatch
	default:
		return biddingerrors.ErrInvalidBid
	}
}

// Policy holds the configurable validation rules
type Policy struct {
	// AllowSelfOutbid lets the standing bidder raise their own bid.
	AllowSelfOutbid bool
}

// Validator applies the bid rules in order; the first failing rule wins.
type Validator struct {
	policy Policy
}

func New(policy Policy) *Validator {
	return &Validator{policy: policy}
}

// Validate checks a proposed amount from bidderID against a lot snapshot at now.
func (v *Validator) Validate(lot models.Lot, proposed money.Money, bidderID string, now time.Time) Result {
	if !IsOpenAt(lot, now) {
		return Result{Reason: LotNotOpen}
	}

	next, err := NextMinimumBid(lot)
	if err != nil {
		// the lot's price is at the representable ceiling; nothing can beat it
		return Result{Reason: BelowMinimum}
	}

	if !v.policy.AllowSelfOutbid && lot.HasBids() && lot.CurrentBidderID == bidderID {
		return Result{Reason: SelfOutbid, NextMinimum: next}
	}

	cmp, err := proposed.Compare(next)
	if err != nil {
		return Result{Reason: CurrencyMismatch, NextMinimum: next}
	}
	if cmp < 0 {
		return Result{Reason: BelowMinimum, NextMinimum: next}
	}
	return Result{Reason: Accepted, NextMinimum: next}
}

// IsOpenAt reports whether the lot accepts bids at now.
func IsOpenAt(lot models.Lot, now time.Time) bool {
	if lot.Status != models.StatusOpen {
		return false
	}
	if lot.ClosesAt != nil && !now.Before(*lot.ClosesAt) {
		return false
	}
	return true
}

// NextMinimumBid is the starting bid on a lot without bids, otherwise the
// current bid plus the schedule's increment for the current bid.
func NextMinimumBid(lot models.Lot) (money.Money, error) {
	if !lot.HasBids() {
		return lot.StartingBid, nil
	}
	return lot.Increment.NextMinimum(*lot.CurrentBid)
}
