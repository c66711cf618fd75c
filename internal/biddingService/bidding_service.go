package bidding

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"lot-bidding/internal/biddingerrors"
	"lot-bidding/internal/closing"
	"lot-bidding/internal/events"
	"lot-bidding/internal/increment"
	"lot-bidding/internal/ledger"
	"lot-bidding/internal/lotstate"
	"lot-bidding/internal/models"
	"lot-bidding/internal/money"
	"lot-bidding/internal/repository"
	"lot-bidding/internal/validator"
	"lot-bidding/utils"
)

const publishTimeout = 5 * time.Second

// Config holds the bidding rules applied by the service
type Config struct {
	AllowSelfOutbid  bool
	DefaultIncrement increment.Schedule
	DefaultCurrency  string
}

// BiddingService accepts bids and drives lots through their lifecycle.
// All writes to a lot happen inside that lot's critical section; bids on
// different lots never wait on each other.
type BiddingService struct {
	repo      repository.AuctionDB
	publisher events.Publisher
	validator *validator.Validator
	cfg       Config
	locks     *lockTable
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB, publisher events.Publisher, cfg Config) *BiddingService {
	if publisher == nil {
		publisher = events.NewLogPublisher()
	}
	if cfg.DefaultIncrement.IsZero() {
		cfg.DefaultIncrement = increment.Flat(100)
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "USD"
	}
	return &BiddingService{
		repo:      repo,
		publisher: publisher,
		validator: validator.New(validator.Policy{AllowSelfOutbid: cfg.AllowSelfOutbid}),
		cfg:       cfg,
		locks:     newLockTable(),
	}
}

// LotSpec describes a lot to register. Amounts are minor units of Currency.
type LotSpec struct {
	LotID        string
	AuctionID    string
	Title        string
	Currency     string
	StartingBid  int64
	ReservePrice *int64
	Increment    increment.Schedule
	StartsAt     time.Time
	ClosesAt     *time.Time
}

// withLot runs fn inside the lot's critical section. Once the section is
// acquired fn runs to completion even if ctx is cancelled.
func withLot[T any](ctx context.Context, s *BiddingService, lotID string, fn func(context.Context, *lotEntry, *lotState) (T, error)) (T, error) {
	var zero T
	e, release, err := s.locks.acquire(ctx, lotID)
	if err != nil {
		return zero, err
	}
	defer release()

	work := context.WithoutCancel(ctx)
	st, err := s.load(work, lotID, e)
	if err != nil {
		return zero, err
	}
	return fn(work, e, st)
}

// load returns the lot's working copy, reading it from the repository on
// first use. The caller must hold e.sem.
func (s *BiddingService) load(ctx context.Context, lotID string, e *lotEntry) (*lotState, error) {
	if st := e.state.Load(); st != nil {
		return st, nil
	}

	lot, err := s.repo.GetLot(ctx, lotID)
	if err != nil {
		if errors.Is(err, biddingerrors.ErrLotNotFound) {
			s.locks.forget(lotID, e)
			return nil, fmt.Errorf("service: %w", err)
		}
		return nil, s.persistenceFailure(e, "load", lotID, err)
	}
	bids, err := s.repo.GetBidsByLot(ctx, lotID)
	if err != nil {
		return nil, s.persistenceFailure(e, "load bids", lotID, err)
	}
	l, err := ledger.Restore(lotID, bids)
	if err != nil {
		utils.Error("service: stored ledger is inconsistent", map[string]any{
			"lot_id": lotID,
			"error":  err.Error(),
		})
		return nil, fmt.Errorf("service: %w", err)
	}

	st := &lotState{machine: lotstate.New(lot), ledger: l}
	e.state.Store(st)
	utils.Debug("service: lot loaded from storage", map[string]any{
		"lot_id":  lotID,
		"version": lot.Version,
		"bids":    len(bids),
	})
	return st, nil
}

// view returns a loaded lot for reading without taking its critical
// section unless the lot has not been loaded yet.
func (s *BiddingService) view(ctx context.Context, lotID string) (*lotState, error) {
	if e, ok := s.locks.peek(lotID); ok {
		if st := e.state.Load(); st != nil {
			return st, nil
		}
	}
	return withLot(ctx, s, lotID, func(_ context.Context, _ *lotEntry, st *lotState) (*lotState, error) {
		return st, nil
	})
}

// persistenceFailure converts a storage error into ServiceUnavailable. The
// write may still have landed, or another writer moved the lot, so the
// working copy is dropped and reloaded from storage on next use.
func (s *BiddingService) persistenceFailure(e *lotEntry, op, lotID string, err error) error {
	e.state.Store(nil)
	utils.Error("service: persistence failed", map[string]any{
		"op":     op,
		"lot_id": lotID,
		"error":  err.Error(),
	})
	return fmt.Errorf("service: %w - %s lot %s: %w", biddingerrors.ErrServiceUnavailable, op, lotID, err)
}

func (s *BiddingService) publish(ctx context.Context, ev events.Event) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, ev); err != nil {
		fields := ev.Fields()
		fields["error"] = err.Error()
		utils.Warn("service: failed to publish event", fields)
	}
}

// CreateLot registers a new lot in UPCOMING.
func (s *BiddingService) CreateLot(ctx context.Context, spec LotSpec) (models.Lot, error) {
	lot, err := s.buildLot(spec)
	if err != nil {
		return models.Lot{}, err
	}

	e, release, err := s.locks.acquire(ctx, lot.LotID)
	if err != nil {
		return models.Lot{}, err
	}
	defer release()

	if e.state.Load() != nil {
		return models.Lot{}, fmt.Errorf("service: %w - %s", biddingerrors.ErrLotExists, lot.LotID)
	}
	if err := s.repo.CreateLot(context.WithoutCancel(ctx), lot); err != nil {
		if errors.Is(err, biddingerrors.ErrLotExists) {
			return models.Lot{}, fmt.Errorf("service: %w", err)
		}
		return models.Lot{}, s.persistenceFailure(e, "create", lot.LotID, err)
	}
	e.state.Store(&lotState{machine: lotstate.New(lot), ledger: ledger.New(lot.LotID)})

	utils.Info("service: lot created", map[string]any{
		"lot_id":       lot.LotID,
		"auction_id":   lot.AuctionID,
		"starting_bid": lot.StartingBid.String(),
	})
	return lot.Clone(), nil
}

func (s *BiddingService) buildLot(spec LotSpec) (models.Lot, error) {
	if strings.TrimSpace(spec.AuctionID) == "" {
		return models.Lot{}, fmt.Errorf("service: %w - missing auction ID", biddingerrors.ErrInvalidLot)
	}
	currency := spec.Currency
	if strings.TrimSpace(currency) == "" {
		currency = s.cfg.DefaultCurrency
	}
	starting := money.New(spec.StartingBid, currency)
	if !starting.IsPositive() {
		return models.Lot{}, fmt.Errorf("service: %w - starting bid must be positive", biddingerrors.ErrInvalidLot)
	}

	lot := models.Lot{
		LotID:       strings.TrimSpace(spec.LotID),
		AuctionID:   spec.AuctionID,
		Title:       spec.Title,
		StartingBid: starting,
		Increment:   spec.Increment,
		Status:      models.StatusUpcoming,
		StartsAt:    spec.StartsAt.UTC(),
		Version:     1,
	}
	if lot.LotID == "" {
		lot.LotID = utils.GenerateID()
	}
	if lot.Increment.IsZero() {
		lot.Increment = s.cfg.DefaultIncrement
	}
	if spec.ReservePrice != nil {
		reserve := money.New(*spec.ReservePrice, currency)
		if !reserve.IsPositive() {
			return models.Lot{}, fmt.Errorf("service: %w - reserve must be positive", biddingerrors.ErrInvalidLot)
		}
		lot.ReservePrice = &reserve
	}
	if spec.ClosesAt != nil {
		closesAt := spec.ClosesAt.UTC()
		if !closesAt.After(lot.StartsAt) {
			return models.Lot{}, fmt.Errorf("service: %w - closing time must be after start", biddingerrors.ErrInvalidLot)
		}
		lot.ClosesAt = &closesAt
	}
	return lot, nil
}

// ActivateLot opens an UPCOMING lot once now has reached its start time.
func (s *BiddingService) ActivateLot(ctx context.Context, lotID string, now time.Time) (models.Lot, error) {
	type result struct {
		lot     models.Lot
		changed bool
	}
	res, err := withLot(ctx, s, lotID, func(work context.Context, e *lotEntry, st *lotState) (result, error) {
		before := st.machine.Snapshot()
		lot, err := st.machine.Activate(now, func(next models.Lot) error {
			return s.repo.UpdateLot(work, next)
		})
		if err != nil {
			if errors.Is(err, biddingerrors.ErrInvalidTransition) {
				return result{}, fmt.Errorf("service: %w", err)
			}
			return result{}, s.persistenceFailure(e, "activate", lotID, err)
		}
		return result{lot: lot, changed: before.Status != lot.Status}, nil
	})
	if err != nil {
		return models.Lot{}, err
	}

	if res.changed {
		utils.Info("service: lot opened", map[string]any{"lot_id": lotID})
		s.publish(ctx, events.NewLotOpened(res.lot, now))
	}
	return res.lot, nil
}

// SubmitBid validates and records a bid. A rejection is returned as a
// *biddingerrors.BidError naming the reason and the next minimum bid.
func (s *BiddingService) SubmitBid(ctx context.Context, lotID, bidderID string, amountMinor int64, currency string, now time.Time) (models.Bid, error) {
	if strings.TrimSpace(bidderID) == "" {
		return models.Bid{}, fmt.Errorf("service: %w", biddingerrors.ErrUnauthenticated)
	}
	if lotID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing lot ID", biddingerrors.ErrInvalidBid)
	}
	amount := money.New(amountMinor, currency)
	if !amount.IsPositive() {
		return models.Bid{}, fmt.Errorf("service: %w - non-positive bid amount", biddingerrors.ErrInvalidBid)
	}
	if amount.Currency() == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing currency", biddingerrors.ErrInvalidBid)
	}

	type result struct {
		bid models.Bid
		lot models.Lot
	}
	res, err := withLot(ctx, s, lotID, func(work context.Context, e *lotEntry, st *lotState) (result, error) {
		lot := st.machine.Snapshot()

		verdict := s.validator.Validate(lot, amount, bidderID, now)
		if !verdict.Accepted() {
			return result{}, rejection(lot, verdict)
		}

		accepted := now
		bid := models.Bid{
			BidID:       utils.GenerateID(),
			LotID:       lotID,
			BidderID:    bidderID,
			Amount:      amount,
			SubmittedAt: now,
			AcceptedAt:  &accepted,
			Outcome:     models.BidAccepted,
		}

		if err := st.ledger.Check(bid); err != nil {
			utils.Error("service: ledger rejected validated bid", map[string]any{
				"lot_id":    lotID,
				"bid_id":    bid.BidID,
				"bidder_id": bidderID,
				"amount":    amount.String(),
				"error":     err.Error(),
			})
			return result{}, fmt.Errorf("service: %w", err)
		}

		next, err := st.machine.Accept(bid, func(next models.Lot) error {
			return s.repo.RecordBidForLot(work, bid, next)
		})
		if err != nil {
			return result{}, s.persistenceFailure(e, "record bid for", lotID, err)
		}

		if err := st.ledger.Append(bid); err != nil {
			// the bid is durable but the working copy diverged; reload next time
			e.state.Store(nil)
			utils.Error("service: ledger append failed after commit", map[string]any{
				"lot_id": lotID,
				"bid_id": bid.BidID,
				"error":  err.Error(),
			})
			return result{}, fmt.Errorf("service: %w", err)
		}
		return result{bid: bid, lot: next}, nil
	})
	if err != nil {
		var bidErr *biddingerrors.BidError
		if errors.As(err, &bidErr) {
			utils.Info("service: bid rejected", map[string]any{
				"lot_id":      lotID,
				"bidder_id":   bidderID,
				"amount":      amount.String(),
				"reason":      bidErr.Code,
				"minimum_bid": bidErr.MinimumBid,
			})
		}
		return models.Bid{}, err
	}

	utils.Info("service: bid accepted", map[string]any{
		"lot_id":    lotID,
		"bid_id":    res.bid.BidID,
		"bidder_id": bidderID,
		"amount":    amount.String(),
	})
	s.publish(ctx, events.NewBidAccepted(res.lot, res.bid))
	return res.bid, nil
}

func rejection(lot models.Lot, verdict validator.Result) *biddingerrors.BidError {
	be := &biddingerrors.BidError{
		Reason: verdict.Err(),
		Code:   string(verdict.Reason),
		LotID:  lot.LotID,
	}
	if verdict.NextMinimum.Currency() != "" {
		be.MinimumBid = verdict.NextMinimum.String()
		be.MinimumMinor = verdict.NextMinimum.Minor()
		be.Currency = verdict.NextMinimum.Currency()
	}
	return be
}

// GetLotSnapshot returns a consistent copy of the lot.
func (s *BiddingService) GetLotSnapshot(ctx context.Context, lotID string) (models.Lot, error) {
	if lotID == "" {
		return models.Lot{}, fmt.Errorf("service: %w - empty lot ID", biddingerrors.ErrLotNotFound)
	}
	st, err := s.view(ctx, lotID)
	if err != nil {
		return models.Lot{}, err
	}
	return st.machine.Snapshot(), nil
}

// GetBidHistory returns the accepted bids of a lot in acceptance order.
// The sequence is lazy and may be ranged over more than once.
func (s *BiddingService) GetBidHistory(ctx context.Context, lotID string) (iter.Seq[models.Bid], error) {
	if lotID == "" {
		return nil, fmt.Errorf("service: %w - empty lot ID", biddingerrors.ErrLotNotFound)
	}
	st, err := s.view(ctx, lotID)
	if err != nil {
		return nil, err
	}
	return st.ledger.History(), nil
}

// CloseLot resolves and records the lot's outcome. Closing a lot that has
// already reached a terminal status returns the recorded outcome unchanged.
func (s *BiddingService) CloseLot(ctx context.Context, lotID string, now time.Time, force bool) (models.ClosingOutcome, error) {
	type result struct {
		outcome models.ClosingOutcome
		lot     models.Lot
		changed bool
	}
	res, err := withLot(ctx, s, lotID, func(work context.Context, e *lotEntry, st *lotState) (result, error) {
		lot := st.machine.Snapshot()
		if lot.Status.IsTerminal() && lot.Outcome != nil {
			return result{outcome: lot.Outcome.Clone()}, nil
		}
		if err := lotstate.CheckClosable(lot, now, force); err != nil {
			return result{}, fmt.Errorf("service: %w", err)
		}

		commissions, err := s.repo.GetCommissionBids(work, lotID)
		if err != nil {
			return result{}, s.persistenceFailure(e, "read commission bids for", lotID, err)
		}
		outcome, err := closing.Resolve(lot, st.ledger, commissions, now)
		if err != nil {
			utils.Error("service: closing resolution failed", map[string]any{
				"lot_id": lotID,
				"error":  err.Error(),
			})
			return result{}, fmt.Errorf("service: resolve lot %s: %w", lotID, err)
		}

		recorded, err := st.machine.Close(outcome, func(next models.Lot) error {
			return s.repo.UpdateLot(work, next)
		})
		if err != nil {
			return result{}, s.persistenceFailure(e, "close", lotID, err)
		}
		return result{outcome: recorded, lot: st.machine.Snapshot(), changed: true}, nil
	})
	if err != nil {
		return models.ClosingOutcome{}, err
	}

	if res.changed {
		fields := map[string]any{
			"lot_id":  lotID,
			"outcome": string(res.outcome.Kind),
			"forced":  force,
		}
		if res.outcome.FinalPrice != nil {
			fields["winner_id"] = res.outcome.WinnerID
			fields["final_price"] = res.outcome.FinalPrice.String()
			fields["source"] = string(res.outcome.Source)
		}
		utils.Info("service: lot closed", fields)
		s.publish(ctx, events.NewLotClosed(res.lot, res.outcome))
	}
	return res.outcome, nil
}

// WithdrawLot removes an UPCOMING or OPEN lot from sale.
func (s *BiddingService) WithdrawLot(ctx context.Context, lotID string, now time.Time) (models.Lot, error) {
	type result struct {
		lot     models.Lot
		changed bool
	}
	res, err := withLot(ctx, s, lotID, func(work context.Context, e *lotEntry, st *lotState) (result, error) {
		before := st.machine.Snapshot()
		lot, err := st.machine.Withdraw(now, func(next models.Lot) error {
			return s.repo.UpdateLot(work, next)
		})
		if err != nil {
			if errors.Is(err, biddingerrors.ErrInvalidTransition) {
				return result{}, fmt.Errorf("service: %w", err)
			}
			return result{}, s.persistenceFailure(e, "withdraw", lotID, err)
		}
		return result{lot: lot, changed: before.Status != lot.Status}, nil
	})
	if err != nil {
		return models.Lot{}, err
	}

	if res.changed {
		utils.Info("service: lot withdrawn", map[string]any{"lot_id": lotID})
		s.publish(ctx, events.NewLotWithdrawn(res.lot, now))
	}
	return res.lot, nil
}

// PlaceCommissionBid leaves an absentee maximum bid on a lot that has not
// closed. openMinor, when set, is the lowest price the bidder will start at.
func (s *BiddingService) PlaceCommissionBid(ctx context.Context, lotID, bidderID string, maxMinor int64, openMinor *int64, currency string, now time.Time) (models.CommissionBid, error) {
	if strings.TrimSpace(bidderID) == "" {
		return models.CommissionBid{}, fmt.Errorf("service: %w", biddingerrors.ErrUnauthenticated)
	}
	maxBid := money.New(maxMinor, currency)
	if !maxBid.IsPositive() || maxBid.Currency() == "" {
		return models.CommissionBid{}, fmt.Errorf("service: %w - commission bid needs a positive maximum and a currency", biddingerrors.ErrInvalidBid)
	}

	cb := models.CommissionBid{
		CommissionBidID: utils.GenerateID(),
		LotID:           lotID,
		BidderID:        bidderID,
		MaxBid:          maxBid,
		SubmittedAt:     now,
	}
	if openMinor != nil {
		open := money.New(*openMinor, currency)
		if !open.IsPositive() || open.Minor() > maxBid.Minor() {
			return models.CommissionBid{}, fmt.Errorf("service: %w - open bid must be positive and at most the maximum", biddingerrors.ErrInvalidBid)
		}
		cb.OpenBid = &open
	}

	_, err := withLot(ctx, s, lotID, func(work context.Context, e *lotEntry, st *lotState) (struct{}, error) {
		lot := st.machine.Snapshot()
		if lot.Status != models.StatusUpcoming && lot.Status != models.StatusOpen {
			return struct{}{}, fmt.Errorf("service: %w - lot %s is %s", biddingerrors.ErrLotNotOpen, lotID, lot.Status)
		}
		if !maxBid.SameCurrency(lot.StartingBid) {
			return struct{}{}, fmt.Errorf("service: %w - lot %s is priced in %s", biddingerrors.ErrCurrencyMismatch, lotID, lot.Currency())
		}
		if err := s.repo.RecordCommissionBid(work, cb); err != nil {
			return struct{}{}, s.persistenceFailure(e, "record commission bid for", lotID, err)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return models.CommissionBid{}, err
	}

	utils.Info("service: commission bid placed", map[string]any{
		"lot_id":    lotID,
		"bidder_id": bidderID,
		"max_bid":   maxBid.String(),
	})
	return cb, nil
}

// GetLotsByBidder returns all lots a bidder holds or has held a bid on
func (s *BiddingService) GetLotsByBidder(ctx context.Context, bidderID string) ([]models.Lot, error) {
	if bidderID == "" {
		return nil, fmt.Errorf("service: %w - empty bidder ID", biddingerrors.ErrInvalidBid)
	}

	lots, err := s.repo.GetLotsByBidder(ctx, bidderID)
	if err != nil {
		if errors.Is(err, biddingerrors.ErrBidderNoBids) {
			return nil, fmt.Errorf("service: failed to get lots for bidder %s: %w", bidderID, err)
		}
		return nil, fmt.Errorf("service: %w - lots for bidder %s: %w", biddingerrors.ErrServiceUnavailable, bidderID, err)
	}
	return lots, nil
}
