package helpers

import (
	"time"

	"lot-bidding/internal/models"
	"lot-bidding/internal/money"
	"lot-bidding/internal/validator"
)

// Request DTOs
type CreateLotRequest struct {
	LotID             string     `json:"lot_id"`
	AuctionID         string     `json:"auction_id" binding:"required"`
	Title             string     `json:"title"`
	Currency          string     `json:"currency" binding:"omitempty,len=3"`
	StartingBid       int64      `json:"starting_bid" binding:"required,gt=0"`
	ReservePrice      *int64     `json:"reserve_price" binding:"omitempty,gt=0"`
	IncrementSchedule string     `json:"increment_schedule"`
	StartsAt          time.Time  `json:"starts_at" binding:"required"`
	ClosesAt          *time.Time `json:"closes_at"`
}

type PlaceBidRequest struct {
	AmountMinor int64  `json:"amount_minor" binding:"required,gt=0"`
	Currency    string `json:"currency" binding:"required,len=3"`
}

type CommissionBidRequest struct {
	MaxBid   int64  `json:"max_bid" binding:"required,gt=0"`
	OpenBid  *int64 `json:"open_bid" binding:"omitempty,gt=0"`
	Currency string `json:"currency" binding:"required,len=3"`
}

type CloseLotRequest struct {
	Force bool `json:"force"`
}

// Response DTOs
type MoneyResponse struct {
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
	Display     string `json:"display"`
}

type BidResponse struct {
	BidID       string        `json:"bid_id"`
	LotID       string        `json:"lot_id"`
	BidderID    string        `json:"bidder_id"`
	Amount      MoneyResponse `json:"amount"`
	SubmittedAt string        `json:"submitted_at"`
}

// LotResponse never carries the reserve amount, only whether it is met.
type LotResponse struct {
	LotID           string           `json:"lot_id"`
	AuctionID       string           `json:"auction_id"`
	Title           string           `json:"title"`
	Status          string           `json:"status"`
	StartingBid     MoneyResponse    `json:"starting_bid"`
	CurrentBid      *MoneyResponse   `json:"current_bid,omitempty"`
	CurrentBidderID string           `json:"current_bidder_id,omitempty"`
	NextMinimumBid  *MoneyResponse   `json:"next_minimum_bid,omitempty"`
	HasReserve      bool             `json:"has_reserve"`
	ReserveMet      bool             `json:"reserve_met"`
	Increment       string           `json:"increment_schedule"`
	StartsAt        string           `json:"starts_at"`
	ClosesAt        string           `json:"closes_at,omitempty"`
	Outcome         *OutcomeResponse `json:"outcome,omitempty"`
	Version         int64            `json:"version"`
}

type OutcomeResponse struct {
	Kind            string         `json:"kind"`
	WinnerID        string         `json:"winner_id,omitempty"`
	FinalPrice      *MoneyResponse `json:"final_price,omitempty"`
	Source          string         `json:"source,omitempty"`
	HighestBid      *MoneyResponse `json:"highest_bid,omitempty"`
	HighestBidderID string         `json:"highest_bidder_id,omitempty"`
	ClosedAt        string         `json:"closed_at"`
}

type CommissionBidResponse struct {
	CommissionBidID string         `json:"commission_bid_id"`
	LotID           string         `json:"lot_id"`
	BidderID        string         `json:"bidder_id"`
	MaxBid          MoneyResponse  `json:"max_bid"`
	OpenBid         *MoneyResponse `json:"open_bid,omitempty"`
	SubmittedAt     string         `json:"submitted_at"`
}

func ToMoneyResponse(m money.Money) MoneyResponse {
	return MoneyResponse{AmountMinor: m.Minor(), Currency: m.Currency(), Display: m.String()}
}

func moneyPtr(m *money.Money) *MoneyResponse {
	if m == nil {
		return nil
	}
	r := ToMoneyResponse(*m)
	return &r
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func ToBidResponse(bid models.Bid) BidResponse {
	return BidResponse{
		BidID:       bid.BidID,
		LotID:       bid.LotID,
		BidderID:    bid.BidderID,
		Amount:      ToMoneyResponse(bid.Amount),
		SubmittedAt: formatTime(bid.SubmittedAt),
	}
}

func ToOutcomeResponse(o models.ClosingOutcome) OutcomeResponse {
	return OutcomeResponse{
		Kind:            string(o.Kind),
		WinnerID:        o.WinnerID,
		FinalPrice:      moneyPtr(o.FinalPrice),
		Source:          string(o.Source),
		HighestBid:      moneyPtr(o.HighestBid),
		HighestBidderID: o.HighestBidderID,
		ClosedAt:        formatTime(o.ClosedAt),
	}
}

func ToLotResponse(lot models.Lot) LotResponse {
	resp := LotResponse{
		LotID:           lot.LotID,
		AuctionID:       lot.AuctionID,
		Title:           lot.Title,
		Status:          string(lot.Status),
		StartingBid:     ToMoneyResponse(lot.StartingBid),
		CurrentBid:      moneyPtr(lot.CurrentBid),
		CurrentBidderID: lot.CurrentBidderID,
		HasReserve:      lot.ReservePrice != nil,
		ReserveMet:      reserveMet(lot),
		Increment:       lot.Increment.String(),
		StartsAt:        formatTime(lot.StartsAt),
		Version:         lot.Version,
	}
	if lot.ClosesAt != nil {
		resp.ClosesAt = formatTime(*lot.ClosesAt)
	}
	if lot.Status == models.StatusOpen {
		if next, err := validator.NextMinimumBid(lot); err == nil {
			resp.NextMinimumBid = moneyPtr(&next)
		}
	}
	if lot.Outcome != nil {
		o := ToOutcomeResponse(*lot.Outcome)
		resp.Outcome = &o
	}
	return resp
}

func reserveMet(lot models.Lot) bool {
	if lot.ReservePrice == nil || lot.Status == models.StatusSold {
		return true
	}
	if lot.CurrentBid == nil {
		return false
	}
	cmp, err := lot.CurrentBid.Compare(*lot.ReservePrice)
	return err == nil && cmp >= 0
}

func ToCommissionBidResponse(cb models.CommissionBid) CommissionBidResponse {
	return CommissionBidResponse{
		CommissionBidID: cb.CommissionBidID,
		LotID:           cb.LotID,
		BidderID:        cb.BidderID,
		MaxBid:          ToMoneyResponse(cb.MaxBid),
		OpenBid:         moneyPtr(cb.OpenBid),
		SubmittedAt:     formatTime(cb.SubmittedAt),
	}
}
