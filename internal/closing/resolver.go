// Package closing determines the definitive outcome of a lot at close.
package closing

import (
	"sort"
	"time"

	"lot-bidding/internal/models"
	"lot-bidding/internal/money"
	"lot-bidding/internal/validator"
)

// Standing exposes the highest accepted live bid of a lot.
type Standing interface {
	Latest() (models.Bid, bool)
}

// Resolve decides SOLD, RESERVE_NOT_MET or NO_BIDS for lot. It is pure and
// deterministic given its inputs, so it can be re-run for audit.
//
// The highest live bid wins when it meets the reserve (or there is none).
// Otherwise commission bids are considered: the greatest maxBid, earliest
// submission breaking ties, stands at the lowest price that beats the live
// bid, the runner-up commission bid, its own open bid and the reserve,
// capped at its maxBid.
func Resolve(lot models.Lot, ledger Standing, commissions []models.CommissionBid, now time.Time) (models.ClosingOutcome, error) {
	live, hasLive := ledger.Latest()

	if hasLive {
		ok, err := meetsReserve(lot, live.Amount)
		if err != nil {
			return models.ClosingOutcome{}, err
		}
		if ok {
			return sold(live.BidderID, live.Amount, models.SourceLive, now), nil
		}
	}

	ranked := rankCommissions(lot.Currency(), commissions)
	if len(ranked) > 0 {
		best := ranked[0]
		var runnerUp *models.CommissionBid
		if len(ranked) > 1 {
			runnerUp = &ranked[1]
		}
		var standing *money.Money
		if hasLive {
			standing = &live.Amount
		}
		price, engaged, err := commissionPrice(lot, best, runnerUp, standing)
		if err != nil {
			return models.ClosingOutcome{}, err
		}
		if engaged {
			ok, err := meetsReserve(lot, price)
			if err != nil {
				return models.ClosingOutcome{}, err
			}
			if ok {
				return sold(best.BidderID, price, models.SourceCommission, now), nil
			}
		}
	}

	switch {
	case hasLive:
		return reserveNotMet(live.BidderID, live.Amount, now), nil
	case len(ranked) > 0:
		// A commission ceiling is confidential; nothing was bid in the room.
		return models.ClosingOutcome{Kind: models.OutcomeReserveNotMet, ClosedAt: now}, nil
	default:
		return models.ClosingOutcome{Kind: models.OutcomeNoBids, ClosedAt: now}, nil
	}
}

func sold(bidderID string, price money.Money, source models.WinningSource, now time.Time) models.ClosingOutcome {
	final, highest := price, price
	return models.ClosingOutcome{
		Kind:            models.OutcomeSold,
		WinnerID:        bidderID,
		FinalPrice:      &final,
		Source:          source,
		HighestBid:      &highest,
		HighestBidderID: bidderID,
		ClosedAt:        now,
	}
}

func reserveNotMet(bidderID string, amount money.Money, now time.Time) models.ClosingOutcome {
	return models.ClosingOutcome{
		Kind:            models.OutcomeReserveNotMet,
		HighestBid:      &amount,
		HighestBidderID: bidderID,
		ClosedAt:        now,
	}
}

func meetsReserve(lot models.Lot, amount money.Money) (bool, error) {
	if lot.ReservePrice == nil {
		return true, nil
	}
	cmp, err := amount.Compare(*lot.ReservePrice)
	if err != nil {
		return false, err
	}
	return cmp >= 0, nil
}

// rankCommissions orders commission bids by maxBid descending, then earliest
// submission, then ID. Bids in another currency are ignored.
func rankCommissions(currency string, commissions []models.CommissionBid) []models.CommissionBid {
	ranked := make([]models.CommissionBid, 0, len(commissions))
	for _, c := range commissions {
		if c.MaxBid.Currency() == currency && c.MaxBid.IsPositive() {
			ranked = append(ranked, c)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.MaxBid.Minor() != b.MaxBid.Minor() {
			return a.MaxBid.Minor() > b.MaxBid.Minor()
		}
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.SubmittedAt.Before(b.SubmittedAt)
		}
		return a.CommissionBidID < b.CommissionBidID
	})
	return ranked
}

// commissionPrice returns the lowest winning price for best, and whether that
// price is within its ceiling.
func commissionPrice(lot models.Lot, best models.CommissionBid, runnerUp *models.CommissionBid, standing *money.Money) (money.Money, bool, error) {
	floor := lot.StartingBid
	raise := func(candidate money.Money) error {
		m, err := money.Max(floor, candidate)
		if err != nil {
			return err
		}
		floor = m
		return nil
	}

	if best.OpenBid != nil && best.OpenBid.Currency() == lot.Currency() {
		if err := raise(*best.OpenBid); err != nil {
			return money.Money{}, false, err
		}
	}
	if standing != nil {
		trial := lot.Clone()
		trial.CurrentBid = standing
		next, err := validator.NextMinimumBid(trial)
		if err != nil {
			return money.Money{}, false, err
		}
		if err := raise(next); err != nil {
			return money.Money{}, false, err
		}
	}
	if runnerUp != nil {
		beat, err := lot.Increment.NextMinimum(runnerUp.MaxBid)
		if err != nil {
			return money.Money{}, false, err
		}
		// a tie at the ceiling goes to the earlier commission bid at that ceiling
		if cmp, err := beat.Compare(best.MaxBid); err == nil && cmp > 0 {
			beat = best.MaxBid
		}
		if err := raise(beat); err != nil {
			return money.Money{}, false, err
		}
	}
	if lot.ReservePrice != nil {
		if cmp, err := lot.ReservePrice.Compare(best.MaxBid); err == nil && cmp <= 0 {
			if err := raise(*lot.ReservePrice); err != nil {
				return money.Money{}, false, err
			}
		}
	}

	cmp, err := floor.Compare(best.MaxBid)
	if err != nil {
		return money.Money{}, false, err
	}
	return floor, cmp <= 0, nil
}
