// Package events publishes lot lifecycle notifications to downstream consumers.
package events

import (
	"time"

	model "lot-bidding/internal/models"
	"lot-bidding/utils"
)

// Type names an event. It doubles as the AMQP routing key.
type Type string

const (
	LotOpened    Type = "lot.opened"
	BidAccepted  Type = "bid.accepted"
	LotClosed    Type = "lot.closed"
	LotWithdrawn Type = "lot.withdrawn"
)

// Event is a flat notification payload. Amounts are minor units in Currency.
type Event struct {
	EventID     string    `json:"event_id"`
	Type        Type      `json:"type"`
	LotID       string    `json:"lot_id"`
	AuctionID   string    `json:"auction_id"`
	Status      string    `json:"status"`
	Version     int64     `json:"version"`
	BidID       string    `json:"bid_id,omitempty"`
	BidderID    string    `json:"bidder_id,omitempty"`
	AmountMinor int64     `json:"amount_minor,omitempty"`
	Currency    string    `json:"currency"`
	Outcome     string    `json:"outcome,omitempty"`
	Source      string    `json:"source,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func base(t Type, lot model.Lot, at time.Time) Event {
	return Event{
		EventID:    utils.GenerateID(),
		Type:       t,
		LotID:      lot.LotID,
		AuctionID:  lot.AuctionID,
		Status:     string(lot.Status),
		Version:    lot.Version,
		Currency:   lot.Currency(),
		OccurredAt: at.UTC(),
	}
}

// NewLotOpened describes a lot that started accepting bids.
func NewLotOpened(lot model.Lot, at time.Time) Event {
	return base(LotOpened, lot, at)
}

// NewBidAccepted describes a bid that became the standing bid on lot.
func NewBidAccepted(lot model.Lot, bid model.Bid) Event {
	at := bid.SubmittedAt
	if bid.AcceptedAt != nil {
		at = *bid.AcceptedAt
	}
	ev := base(BidAccepted, lot, at)
	ev.BidID = bid.BidID
	ev.BidderID = bid.BidderID
	ev.AmountMinor = bid.Amount.Minor()
	return ev
}

// NewLotClosed describes a closing outcome. The winner and price are set
// only for a sale; a reserve miss carries no bidder or amount.
func NewLotClosed(lot model.Lot, outcome model.ClosingOutcome) Event {
	ev := base(LotClosed, lot, outcome.ClosedAt)
	ev.Outcome = string(outcome.Kind)
	if outcome.Kind == model.OutcomeSold && outcome.FinalPrice != nil {
		ev.BidderID = outcome.WinnerID
		ev.AmountMinor = outcome.FinalPrice.Minor()
		ev.Source = string(outcome.Source)
	}
	return ev
}

// NewLotWithdrawn describes a lot removed from sale.
func NewLotWithdrawn(lot model.Lot, at time.Time) Event {
	ev := base(LotWithdrawn, lot, at)
	ev.Outcome = string(model.OutcomeWithdrawn)
	return ev
}

// Fields flattens the event for structured logging.
func (e Event) Fields() map[string]any {
	fields := map[string]any{
		"event_id":    e.EventID,
		"event_type":  string(e.Type),
		"lot_id":      e.LotID,
		"auction_id":  e.AuctionID,
		"status":      e.Status,
		"version":     e.Version,
		"occurred_at": e.OccurredAt.Format(time.RFC3339Nano),
	}
	if e.BidderID != "" {
		fields["bidder_id"] = e.BidderID
	}
	if e.AmountMinor != 0 {
		fields["amount_minor"] = e.AmountMinor
		fields["currency"] = e.Currency
	}
	if e.Outcome != "" {
		fields["outcome"] = e.Outcome
	}
	return fields
}
