package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"lot-bidding/internal/biddingerrors"
	model "lot-bidding/internal/models"
	"lot-bidding/utils"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// AuctionDB is the persistence port for lots, their accepted bids and commission bids.
//
// RecordBidForLot must store the bid and the lot's new state atomically, and
// fail with ErrVersionConflict when the stored lot is not at lot.Version-1.
type AuctionDB interface {
	CreateLot(ctx context.Context, lot model.Lot) error
	GetLot(ctx context.Context, lotID string) (model.Lot, error)
	UpdateLot(ctx context.Context, lot model.Lot) error
	RecordBidForLot(ctx context.Context, bid model.Bid, lot model.Lot) error
	GetBidsByLot(ctx context.Context, lotID string) ([]model.Bid, error)
	GetLotsByBidder(ctx context.Context, bidderID string) ([]model.Lot, error)
	RecordCommissionBid(ctx context.Context, bid model.CommissionBid) error
	GetCommissionBids(ctx context.Context, lotID string) ([]model.CommissionBid, error)
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu          sync.RWMutex
	lots        map[string]model.Lot             // key: lotID -> value: lot
	bids        map[string][]model.Bid           // key: lotID -> value: accepted bids in order
	commissions map[string][]model.CommissionBid // key: lotID -> value: commission bids
	bidderLots  map[string][]string              // key: bidderID -> value: lotIDs the bidder has bid on
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		lots:        make(map[string]model.Lot),
		bids:        make(map[string][]model.Bid),
		commissions: make(map[string][]model.CommissionBid),
		bidderLots:  make(map[string][]string),
	}
}

// CreateLot stores a new lot
func (r *MemoryRepo) CreateLot(_ context.Context, lot model.Lot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lots[lot.LotID]; ok {
		return fmt.Errorf("create lot %s: %w", lot.LotID, biddingerrors.ErrLotExists)
	}
	r.lots[lot.LotID] = lot.Clone()
	return nil
}

// GetLot returns the stored lot
func (r *MemoryRepo) GetLot(_ context.Context, lotID string) (model.Lot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lot, ok := r.lots[lotID]
	if !ok {
		return model.Lot{}, fmt.Errorf("get lot %s: %w", lotID, biddingerrors.ErrLotNotFound)
	}
	return lot.Clone(), nil
}

// UpdateLot replaces the stored lot when the stored version precedes lot.Version
func (r *MemoryRepo) UpdateLot(_ context.Context, lot model.Lot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkVersion(lot); err != nil {
		return fmt.Errorf("update lot %s: %w", lot.LotID, err)
	}
	r.lots[lot.LotID] = lot.Clone()
	return nil
}

// RecordBidForLot appends an accepted bid and stores the lot state it produced
func (r *MemoryRepo) RecordBidForLot(_ context.Context, bid model.Bid, lot model.Lot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if bid.LotID != lot.LotID {
		return fmt.Errorf("record bid %s for lot %s: %w", bid.BidID, lot.LotID, biddingerrors.ErrInvalidBid)
	}
	if r.hasBid(lot.LotID, bid.BidID) {
		// replay of a write that already landed
		if stored := r.lots[lot.LotID]; stored.Version >= lot.Version {
			utils.Debug("repository: bid already recorded", map[string]any{"bid_id": bid.BidID, "lot_id": lot.LotID})
			return nil
		}
		return fmt.Errorf("record bid %s for lot %s: %w", bid.BidID, lot.LotID, biddingerrors.ErrVersionConflict)
	}
	if err := r.checkVersion(lot); err != nil {
		return fmt.Errorf("record bid for lot %s: %w", lot.LotID, err)
	}

	r.bids[lot.LotID] = append(r.bids[lot.LotID], bid)
	r.lots[lot.LotID] = lot.Clone()

	for _, id := range r.bidderLots[bid.BidderID] {
		if id == lot.LotID {
			return nil
		}
	}
	r.bidderLots[bid.BidderID] = append(r.bidderLots[bid.BidderID], lot.LotID)
	return nil
}

func (r *MemoryRepo) hasBid(lotID, bidID string) bool {
	for _, b := range r.bids[lotID] {
		if b.BidID == bidID {
			return true
		}
	}
	return false
}

func (r *MemoryRepo) checkVersion(lot model.Lot) error {
	stored, ok := r.lots[lot.LotID]
	if !ok {
		return biddingerrors.ErrLotNotFound
	}
	if stored.Version != lot.Version-1 {
		return fmt.Errorf("%w: stored %d, writing %d", biddingerrors.ErrVersionConflict, stored.Version, lot.Version)
	}
	return nil
}

// GetBidsByLot returns all accepted bids for a lot in acceptance order
func (r *MemoryRepo) GetBidsByLot(_ context.Context, lotID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.lots[lotID]; !ok {
		return nil, fmt.Errorf("get bids for lot %s: %w", lotID, biddingerrors.ErrLotNotFound)
	}
	return append([]model.Bid(nil), r.bids[lotID]...), nil
}

// GetLotsByBidder returns all lots a bidder has an accepted bid on
func (r *MemoryRepo) GetLotsByBidder(_ context.Context, bidderID string) ([]model.Lot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lotIDs, ok := r.bidderLots[bidderID]
	if !ok || len(lotIDs) == 0 {
		return nil, fmt.Errorf("get lots for bidder %s: %w", bidderID, biddingerrors.ErrBidderNoBids)
	}

	lots := make([]model.Lot, 0, len(lotIDs))
	for _, id := range lotIDs {
		if lot, exists := r.lots[id]; exists {
			lots = append(lots, lot.Clone())
		}
	}
	return lots, nil
}

// RecordCommissionBid stores an absentee bid for a lot
func (r *MemoryRepo) RecordCommissionBid(_ context.Context, bid model.CommissionBid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lots[bid.LotID]; !ok {
		return fmt.Errorf("record commission bid for lot %s: %w", bid.LotID, biddingerrors.ErrLotNotFound)
	}
	r.commissions[bid.LotID] = append(r.commissions[bid.LotID], bid)
	return nil
}

// GetCommissionBids returns a lot's commission bids in submission order
func (r *MemoryRepo) GetCommissionBids(_ context.Context, lotID string) ([]model.CommissionBid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.lots[lotID]; !ok {
		return nil, fmt.Errorf("get commission bids for lot %s: %w", lotID, biddingerrors.ErrLotNotFound)
	}
	bids := append([]model.CommissionBid(nil), r.commissions[lotID]...)
	sort.SliceStable(bids, func(i, j int) bool { return bids[i].SubmittedAt.Before(bids[j].SubmittedAt) })
	return bids, nil
}
