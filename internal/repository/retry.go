package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lot-bidding/internal/biddingerrors"
	model "lot-bidding/internal/models"
	"lot-bidding/utils"

	"github.com/cenkalti/backoff/v4"
)

// RetryingDB retries transient AuctionDB failures a bounded number of times
// with exponential backoff. Business errors (missing lot, version conflict,
// duplicates) are returned immediately. Once attempts are exhausted the
// error wraps ErrPersistence.
type RetryingDB struct {
	db       AuctionDB
	attempts int
	wait     time.Duration
}

// WithRetry decorates db. attempts below 1 are treated as 1; wait is the
// first pause between attempts.
func WithRetry(db AuctionDB, attempts int, wait time.Duration) *RetryingDB {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryingDB{db: db, attempts: attempts, wait: wait}
}

func permanent(err error) bool {
	return errors.Is(err, biddingerrors.ErrLotNotFound) ||
		errors.Is(err, biddingerrors.ErrLotExists) ||
		errors.Is(err, biddingerrors.ErrVersionConflict) ||
		errors.Is(err, biddingerrors.ErrBidderNoBids) ||
		errors.Is(err, biddingerrors.ErrInvalidBid) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (r *RetryingDB) policy(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.wait
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(r.attempts-1)), ctx)
}

func retry[T any](ctx context.Context, r *RetryingDB, op string, fn func() (T, error)) (T, error) {
	attempt := 0
	out, err := backoff.RetryNotifyWithData(func() (T, error) {
		attempt++
		v, err := fn()
		if err != nil && permanent(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, r.policy(ctx), func(err error, wait time.Duration) {
		utils.Warn("repository: transient failure", map[string]any{
			"op":      op,
			"attempt": attempt,
			"wait":    wait.String(),
			"error":   err.Error(),
		})
	})

	switch {
	case err == nil:
		return out, nil
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return out, fmt.Errorf("%w: %s: %w", biddingerrors.ErrPersistence, op, err)
	case permanent(err):
		return out, err
	}
	utils.Error("repository: giving up", map[string]any{
		"op":       op,
		"attempts": attempt,
		"error":    err.Error(),
	})
	return out, fmt.Errorf("%w: %s failed after %d attempts: %w", biddingerrors.ErrPersistence, op, attempt, err)
}

func (r *RetryingDB) CreateLot(ctx context.Context, lot model.Lot) error {
	_, err := retry(ctx, r, "create_lot", func() (struct{}, error) {
		return struct{}{}, r.db.CreateLot(ctx, lot)
	})
	return err
}

func (r *RetryingDB) GetLot(ctx context.Context, lotID string) (model.Lot, error) {
	return retry(ctx, r, "get_lot", func() (model.Lot, error) {
		return r.db.GetLot(ctx, lotID)
	})
}

func (r *RetryingDB) UpdateLot(ctx context.Context, lot model.Lot) error {
	_, err := retry(ctx, r, "update_lot", func() (struct{}, error) {
		return struct{}{}, r.db.UpdateLot(ctx, lot)
	})
	return err
}

func (r *RetryingDB) RecordBidForLot(ctx context.Context, bid model.Bid, lot model.Lot) error {
	_, err := retry(ctx, r, "record_bid", func() (struct{}, error) {
		return struct{}{}, r.db.RecordBidForLot(ctx, bid, lot)
	})
	return err
}

func (r *RetryingDB) GetBidsByLot(ctx context.Context, lotID string) ([]model.Bid, error) {
	return retry(ctx, r, "get_bids", func() ([]model.Bid, error) {
		return r.db.GetBidsByLot(ctx, lotID)
	})
}

func (r *RetryingDB) GetLotsByBidder(ctx context.Context, bidderID string) ([]model.Lot, error) {
	return retry(ctx, r, "get_bidder_lots", func() ([]model.Lot, error) {
		return r.db.GetLotsByBidder(ctx, bidderID)
	})
}

func (r *RetryingDB) RecordCommissionBid(ctx context.Context, bid model.CommissionBid) error {
	_, err := retry(ctx, r, "record_commission_bid", func() (struct{}, error) {
		return struct{}{}, r.db.RecordCommissionBid(ctx, bid)
	})
	return err
}

func (r *RetryingDB) GetCommissionBids(ctx context.Context, lotID string) ([]model.CommissionBid, error) {
	return retry(ctx, r, "get_commission_bids", func() ([]model.CommissionBid, error) {
		return r.db.GetCommissionBids(ctx, lotID)
	})
}
