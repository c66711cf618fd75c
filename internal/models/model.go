package models

import (
	"time"

	"lot-bidding/internal/increment"
	"lot-bidding/internal/money"
)

// LotStatus is the lifecycle state of a lot
type LotStatus string

const (
	StatusUpcoming      LotStatus = "UPCOMING"
	StatusOpen          LotStatus = "OPEN"
	StatusSold          LotStatus = "SOLD"
	StatusReserveNotMet LotStatus = "RESERVE_NOT_MET"
	StatusWithdrawn     LotStatus = "WITHDRAWN"
)

// IsTerminal reports whether no further transition can leave s.
func (s LotStatus) IsTerminal() bool {
	return s == StatusSold || s == StatusReserveNotMet || s == StatusWithdrawn
}

// Lot represents a single item auctioned within an auction event
type Lot struct {
	LotID           string             `json:"lot_id"`
	AuctionID       string             `json:"auction_id"`
	Title           string             `json:"title"`
	StartingBid     money.Money        `json:"starting_bid"`
	ReservePrice    *money.Money       `json:"reserve_price,omitempty"`
	Increment       increment.Schedule `json:"increment"`
	Status          LotStatus          `json:"status"`
	CurrentBid      *money.Money       `json:"current_bid,omitempty"`
	CurrentBidderID string             `json:"current_bidder_id,omitempty"`
	StartsAt        time.Time          `json:"starts_at"`
	ClosesAt        *time.Time         `json:"closes_at,omitempty"`
	Outcome         *ClosingOutcome    `json:"outcome,omitempty"`
	Version         int64              `json:"version"`
}

// Currency is the currency every amount on the lot is expressed in.
func (l Lot) Currency() string { return l.StartingBid.Currency() }

// HasBids reports whether the lot has a standing bid.
func (l Lot) HasBids() bool { return l.CurrentBid != nil }

// Clone returns a deep copy so snapshots never alias mutable state.
func (l Lot) Clone() Lot {
	c := l
	if l.ReservePrice != nil {
		v := *l.ReservePrice
		c.ReservePrice = &v
	}
	if l.CurrentBid != nil {
		v := *l.CurrentBid
		c.CurrentBid = &v
	}
	if l.ClosesAt != nil {
		v := *l.ClosesAt
		c.ClosesAt = &v
	}
	if l.Outcome != nil {
		v := l.Outcome.Clone()
		c.Outcome = &v
	}
	return c
}

// BidOutcome records whether a submission was accepted
type BidOutcome string

const (
	BidAccepted BidOutcome = "ACCEPTED"
	BidRejected BidOutcome = "REJECTED"
)

// Bid is an immutable record of a bid submission
type Bid struct {
	BidID        string      `json:"bid_id"`
	LotID        string      `json:"lot_id"`
	BidderID     string      `json:"bidder_id"`
	Amount       money.Money `json:"amount"`
	SubmittedAt  time.Time   `json:"submitted_at"`
	AcceptedAt   *time.Time  `json:"accepted_at,omitempty"`
	Outcome      BidOutcome  `json:"outcome"`
	RejectReason string      `json:"reject_reason,omitempty"`
}

// CommissionBid is an absentee maximum bid left with the auction house
type CommissionBid struct {
	CommissionBidID string       `json:"commission_bid_id"`
	LotID           string       `json:"lot_id"`
	BidderID        string       `json:"bidder_id"`
	MaxBid          money.Money  `json:"max_bid"`
	OpenBid         *money.Money `json:"open_bid,omitempty"`
	SubmittedAt     time.Time    `json:"submitted_at"`
}

// OutcomeKind is the result of closing a lot
type OutcomeKind string

const (
	OutcomeSold          OutcomeKind = "SOLD"
	OutcomeReserveNotMet OutcomeKind = "RESERVE_NOT_MET"
	OutcomeNoBids        OutcomeKind = "NO_BIDS"
	OutcomeWithdrawn     OutcomeKind = "WITHDRAWN"
)

// WinningSource tells whether a sale came from the live ledger or a commission bid
type WinningSource string

const (
	SourceLive       WinningSource = "LIVE"
	SourceCommission WinningSource = "COMMISSION"
)

// ClosingOutcome is the definitive result of closing a lot
type ClosingOutcome struct {
	Kind            OutcomeKind   `json:"kind"`
	WinnerID        string        `json:"winner_id,omitempty"`
	FinalPrice      *money.Money  `json:"final_price,omitempty"`
	Source          WinningSource `json:"source,omitempty"`
	HighestBid      *money.Money  `json:"highest_bid,omitempty"`
	HighestBidderID string        `json:"highest_bidder_id,omitempty"`
	ClosedAt        time.Time     `json:"closed_at"`
}

// LotStatus maps the outcome onto the terminal lot status it produces.
func (o ClosingOutcome) LotStatus() LotStatus {
	switch o.Kind {
	case OutcomeSold:
		return StatusSold
	case OutcomeWithdrawn:
		return StatusWithdrawn
	default:
		return StatusReserveNotMet
	}
}

func (o ClosingOutcome) Clone() ClosingOutcome {
	c := o
	if o.FinalPrice != nil {
		v := *o.FinalPrice
		c.FinalPrice = &v
	}
	if o.HighestBid != nil {
		v := *o.HighestBid
		c.HighestBid = &v
	}
	return c
}
