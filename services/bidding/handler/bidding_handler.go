package handler

import (
	"context"
	"errors"
	"iter"
	"net/http"
	"time"

	bidding "lot-bidding/internal/biddingService"
	"lot-bidding/internal/biddingerrors"
	"lot-bidding/internal/increment"
	model "lot-bidding/internal/models"
	"lot-bidding/services/bidding/helpers"
	"lot-bidding/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=bidding_handler.go -destination=mock_bidding_service.go -package=handler

type BiddingServiceInterface interface {
	CreateLot(ctx context.Context, spec bidding.LotSpec) (model.Lot, error)
	ActivateLot(ctx context.Context, lotID string, now time.Time) (model.Lot, error)
	SubmitBid(ctx context.Context, lotID, bidderID string, amountMinor int64, currency string, now time.Time) (model.Bid, error)
	GetLotSnapshot(ctx context.Context, lotID string) (model.Lot, error)
	GetBidHistory(ctx context.Context, lotID string) (iter.Seq[model.Bid], error)
	CloseLot(ctx context.Context, lotID string, now time.Time, force bool) (model.ClosingOutcome, error)
	WithdrawLot(ctx context.Context, lotID string, now time.Time) (model.Lot, error)
	PlaceCommissionBid(ctx context.Context, lotID, bidderID string, maxMinor int64, openMinor *int64, currency string, now time.Time) (model.CommissionBid, error)
	GetLotsByBidder(ctx context.Context, bidderID string) ([]model.Lot, error)
}

type BiddingHandler struct {
	service BiddingServiceInterface
	now     func() time.Time
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{
		service: service,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateLotHandler handles POST /lots
func (h *BiddingHandler) CreateLotHandler(c *gin.Context) {
	var req helpers.CreateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateLotHandler", err)
		return
	}

	spec := bidding.LotSpec{
		LotID:        req.LotID,
		AuctionID:    req.AuctionID,
		Title:        req.Title,
		Currency:     req.Currency,
		StartingBid:  req.StartingBid,
		ReservePrice: req.ReservePrice,
		StartsAt:     req.StartsAt,
		ClosesAt:     req.ClosesAt,
	}
	if req.IncrementSchedule != "" {
		schedule, err := increment.Parse(req.IncrementSchedule)
		if err != nil {
			helpers.HandleBindError(c, "CreateLotHandler", err)
			return
		}
		spec.Increment = schedule
	}

	lot, err := h.service.CreateLot(c.Request.Context(), spec)
	if err != nil {
		helpers.RespondError(c, "CreateLotHandler", err, map[string]any{"lot_id": req.LotID, "auction_id": req.AuctionID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToLotResponse(lot), "lot created successfully")
	helpers.LogSuccess("CreateLotHandler", "lot created successfully", map[string]any{
		"lot_id":     lot.LotID,
		"auction_id": lot.AuctionID,
	})
}

// GetLotHandler handles GET /lots/:lot_id
func (h *BiddingHandler) GetLotHandler(c *gin.Context) {
	lotID := c.Param("lot_id")
	lot, err := h.service.GetLotSnapshot(c.Request.Context(), lotID)
	if err != nil {
		helpers.RespondError(c, "GetLotHandler", err, map[string]any{"lot_id": lotID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToLotResponse(lot), "lot retrieved successfully")
}

// SubmitBidHandler handles POST /lots/:lot_id/bids
func (h *BiddingHandler) SubmitBidHandler(c *gin.Context) {
	lotID := c.Param("lot_id")
	bidderID := helpers.BidderID(c)

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SubmitBidHandler", err)
		return
	}

	bid, err := h.service.SubmitBid(c.Request.Context(), lotID, bidderID, req.AmountMinor, req.Currency, h.now())
	if err != nil {
		helpers.RespondError(c, "SubmitBidHandler", err, map[string]any{
			"lot_id":    lotID,
			"bidder_id": bidderID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToBidResponse(bid), "bid accepted")
	helpers.LogSuccess("SubmitBidHandler", "bid accepted", map[string]any{
		"bid_id":    bid.BidID,
		"lot_id":    lotID,
		"bidder_id": bidderID,
		"amount":    bid.Amount.String(),
	})
}

// GetBidsHandler handles GET /lots/:lot_id/bids
func (h *BiddingHandler) GetBidsHandler(c *gin.Context) {
	lotID := c.Param("lot_id")
	history, err := h.service.GetBidHistory(c.Request.Context(), lotID)
	if err != nil {
		helpers.RespondError(c, "GetBidsHandler", err, map[string]any{"lot_id": lotID})
		return
	}

	bids := []helpers.BidResponse{}
	for bid := range history {
		bids = append(bids, helpers.ToBidResponse(bid))
	}

	utils.JSONResponse(c, http.StatusOK, bids, "bids retrieved successfully")
	helpers.LogSuccess("GetBidsHandler", "bids retrieved successfully", map[string]any{
		"lot_id": lotID,
		"count":  len(bids),
	})
}

// ActivateLotHandler handles POST /lots/:lot_id/activate
func (h *BiddingHandler) ActivateLotHandler(c *gin.Context) {
	lotID := c.Param("lot_id")
	lot, err := h.service.ActivateLot(c.Request.Context(), lotID, h.now())
	if err != nil {
		helpers.RespondError(c, "ActivateLotHandler", err, map[string]any{"lot_id": lotID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToLotResponse(lot), "lot opened")
}

// CloseLotHandler handles POST /lots/:lot_id/close. The body is optional.
func (h *BiddingHandler) CloseLotHandler(c *gin.Context) {
	lotID := c.Param("lot_id")

	var req helpers.CloseLotRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			helpers.HandleBindError(c, "CloseLotHandler", err)
			return
		}
	}

	outcome, err := h.service.CloseLot(c.Request.Context(), lotID, h.now(), req.Force)
	if err != nil {
		helpers.RespondError(c, "CloseLotHandler", err, map[string]any{"lot_id": lotID, "force": req.Force})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToOutcomeResponse(outcome), "lot closed")
	helpers.LogSuccess("CloseLotHandler", "lot closed", map[string]any{
		"lot_id":  lotID,
		"outcome": string(outcome.Kind),
	})
}

// WithdrawLotHandler handles POST /lots/:lot_id/withdraw
func (h *BiddingHandler) WithdrawLotHandler(c *gin.Context) {
	lotID := c.Param("lot_id")
	lot, err := h.service.WithdrawLot(c.Request.Context(), lotID, h.now())
	if err != nil {
		helpers.RespondError(c, "WithdrawLotHandler", err, map[string]any{"lot_id": lotID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToLotResponse(lot), "lot withdrawn")
}

// PlaceCommissionBidHandler handles POST /lots/:lot_id/commission-bids
func (h *BiddingHandler) PlaceCommissionBidHandler(c *gin.Context) {
	lotID := c.Param("lot_id")
	bidderID := helpers.BidderID(c)

	var req helpers.CommissionBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceCommissionBidHandler", err)
		return
	}

	cb, err := h.service.PlaceCommissionBid(c.Request.Context(), lotID, bidderID, req.MaxBid, req.OpenBid, req.Currency, h.now())
	if err != nil {
		helpers.RespondError(c, "PlaceCommissionBidHandler", err, map[string]any{
			"lot_id":    lotID,
			"bidder_id": bidderID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToCommissionBidResponse(cb), "commission bid recorded")
	helpers.LogSuccess("PlaceCommissionBidHandler", "commission bid recorded", map[string]any{
		"lot_id":    lotID,
		"bidder_id": bidderID,
	})
}

// GetLotsByBidderHandler handles GET /bidders/:bidder_id/lots
func (h *BiddingHandler) GetLotsByBidderHandler(c *gin.Context) {
	bidderID := c.Param("bidder_id")
	lots, err := h.service.GetLotsByBidder(c.Request.Context(), bidderID)
	if err != nil && !errors.Is(err, biddingerrors.ErrBidderNoBids) {
		helpers.RespondError(c, "GetLotsByBidderHandler", err, map[string]any{"bidder_id": bidderID})
		return
	}

	resp := make([]helpers.LotResponse, 0, len(lots))
	for _, lot := range lots {
		resp = append(resp, helpers.ToLotResponse(lot))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "lots retrieved successfully")
	helpers.LogSuccess("GetLotsByBidderHandler", "lots retrieved successfully", map[string]any{
		"bidder_id":  bidderID,
		"lots_count": len(resp),
	})
}
