package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	bidding "lot-bidding/internal/biddingService"
	"lot-bidding/internal/biddingerrors"
	"lot-bidding/internal/increment"
	model "lot-bidding/internal/models"
	"lot-bidding/internal/money"
	"lot-bidding/services/bidding/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// newTestRouter wires one handler route behind a stub that authenticates
// bidderID. An empty bidderID leaves the request unauthenticated.
func newTestRouter(svc BiddingServiceInterface, bidderID, method, path string, h func(*BiddingHandler) gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewBiddingHandler(svc)
	handler.now = func() time.Time { return testNow }

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if bidderID != "" {
			c.Set(helpers.BidderIDKey, bidderID)
		}
		c.Next()
	})
	router.Handle(method, path, h(handler))
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func openTestLot(lotID string) model.Lot {
	reserve := money.New(500000, "USD")
	current := money.New(100000, "USD")
	return model.Lot{
		LotID:           lotID,
		AuctionID:       "auction-1",
		Title:           "Pair of Georgian candlesticks",
		StartingBid:     money.New(50000, "USD"),
		ReservePrice:    &reserve,
		Increment:       increment.Flat(10000),
		Status:          model.StatusOpen,
		CurrentBid:      &current,
		CurrentBidderID: "bidder-2",
		StartsAt:        testNow.Add(-time.Hour),
		Version:         3,
	}
}

func TestSubmitBidHandler(t *testing.T) {
	tests := []struct {
		name           string
		bidderID       string
		requestBody    any
		mockSetup      func(m *MockBiddingServiceInterface)
		expectedStatus int
		expectedMsg    string
		validate       func(t *testing.T, resp map[string]any)
	}{
		{
			name:        "success_valid_bid",
			bidderID:    "bidder-1",
			requestBody: helpers.PlaceBidRequest{AmountMinor: 110000, Currency: "USD"},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					SubmitBid(gomock.Any(), "lot-1", "bidder-1", int64(110000), "USD", testNow).
					Return(model.Bid{
						BidID:       uuid.NewString(),
						LotID:       "lot-1",
						BidderID:    "bidder-1",
						Amount:      money.New(110000, "USD"),
						SubmittedAt: testNow,
						Outcome:     model.BidAccepted,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid accepted",
			validate: func(t *testing.T, resp map[string]any) {
				data := resp["data"].(map[string]any)
				_, err := uuid.Parse(data["bid_id"].(string))
				require.NoError(t, err)
				require.Equal(t, "bidder-1", data["bidder_id"])
				amount := data["amount"].(map[string]any)
				require.Equal(t, float64(110000), amount["amount_minor"])
				require.Equal(t, "1100.00 USD", amount["display"])
			},
		},
		{
			name:           "invalid_json",
			bidderID:       "bidder-1",
			requestBody:    `{invalid json}`,
			mockSetup:      func(m *MockBiddingServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "missing_currency",
			bidderID:       "bidder-1",
			requestBody:    map[string]any{"amount_minor": 110000},
			mockSetup:      func(m *MockBiddingServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "negative_amount",
			bidderID:       "bidder-1",
			requestBody:    helpers.PlaceBidRequest{AmountMinor: -10, Currency: "USD"},
			mockSetup:      func(m *MockBiddingServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "below_minimum_carries_reason_and_minimum",
			bidderID:    "bidder-1",
			requestBody: helpers.PlaceBidRequest{AmountMinor: 105000, Currency: "USD"},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					SubmitBid(gomock.Any(), "lot-1", "bidder-1", int64(105000), "USD", testNow).
					Return(model.Bid{}, &biddingerrors.BidError{
						Reason:       biddingerrors.ErrBelowMinimum,
						Code:         "BELOW_MINIMUM",
						LotID:        "lot-1",
						MinimumBid:   "1100.00 USD",
						MinimumMinor: 110000,
						Currency:     "USD",
					})
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "bid rejected",
			validate: func(t *testing.T, resp map[string]any) {
				require.Equal(t, "BELOW_MINIMUM", resp["reason"])
				minimum := resp["minimum_bid"].(map[string]any)
				require.Equal(t, float64(110000), minimum["amount_minor"])
				require.Equal(t, "USD", minimum["currency"])
			},
		},
		{
			name:        "lot_not_open_has_no_minimum",
			bidderID:    "bidder-1",
			requestBody: helpers.PlaceBidRequest{AmountMinor: 110000, Currency: "USD"},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					SubmitBid(gomock.Any(), "lot-1", "bidder-1", int64(110000), "USD", testNow).
					Return(model.Bid{}, &biddingerrors.BidError{
						Reason: biddingerrors.ErrLotNotOpen,
						Code:   "LOT_NOT_OPEN",
						LotID:  "lot-1",
					})
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "bid rejected",
			validate: func(t *testing.T, resp map[string]any) {
				require.Equal(t, "LOT_NOT_OPEN", resp["reason"])
				require.Nil(t, resp["minimum_bid"])
			},
		},
		{
			name:        "currency_mismatch",
			bidderID:    "bidder-1",
			requestBody: helpers.PlaceBidRequest{AmountMinor: 110000, Currency: "EUR"},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					SubmitBid(gomock.Any(), "lot-1", "bidder-1", int64(110000), "EUR", testNow).
					Return(model.Bid{}, &biddingerrors.BidError{
						Reason: biddingerrors.ErrCurrencyMismatch,
						Code:   "CURRENCY_MISMATCH",
						LotID:  "lot-1",
					})
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "bid rejected",
		},
		{
			name:        "unauthenticated",
			bidderID:    "",
			requestBody: helpers.PlaceBidRequest{AmountMinor: 110000, Currency: "USD"},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					SubmitBid(gomock.Any(), "lot-1", "", int64(110000), "USD", testNow).
					Return(model.Bid{}, fmt.Errorf("service: %w", biddingerrors.ErrUnauthenticated))
			},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "bidder is not authenticated",
		},
		{
			name:        "lot_not_found",
			bidderID:    "bidder-1",
			requestBody: helpers.PlaceBidRequest{AmountMinor: 110000, Currency: "USD"},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					SubmitBid(gomock.Any(), "lot-1", "bidder-1", int64(110000), "USD", testNow).
					Return(model.Bid{}, fmt.Errorf("service: %w - lot-1", biddingerrors.ErrLotNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "lot not found",
		},
		{
			name:        "service_unavailable",
			bidderID:    "bidder-1",
			requestBody: helpers.PlaceBidRequest{AmountMinor: 110000, Currency: "USD"},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					SubmitBid(gomock.Any(), "lot-1", "bidder-1", int64(110000), "USD", testNow).
					Return(model.Bid{}, fmt.Errorf("service: %w - storing bid", biddingerrors.ErrServiceUnavailable))
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedMsg:    "service temporarily unavailable",
		},
		{
			name:        "service_generic_error",
			bidderID:    "bidder-1",
			requestBody: helpers.PlaceBidRequest{AmountMinor: 110000, Currency: "USD"},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					SubmitBid(gomock.Any(), "lot-1", "bidder-1", int64(110000), "USD", testNow).
					Return(model.Bid{}, errors.New("database failure"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			mockService := NewMockBiddingServiceInterface(ctrl)
			tc.mockSetup(mockService)

			router := newTestRouter(mockService, tc.bidderID, http.MethodPost, "/lots/:lot_id/bids",
				func(h *BiddingHandler) gin.HandlerFunc { return h.SubmitBidHandler })
			w, resp := doRequest(t, router, http.MethodPost, "/lots/lot-1/bids", tc.requestBody)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
			if tc.validate != nil {
				tc.validate(t, resp)
			}
		})
	}
}

func TestGetBidsHandler(t *testing.T) {
	tests := []struct {
		name           string
		mockSetup      func(m *MockBiddingServiceInterface)
		expectedStatus int
		expectedMsg    string
		expectedLen    int
	}{
		{
			name: "success_in_acceptance_order",
			mockSetup: func(m *MockBiddingServiceInterface) {
				bids := []model.Bid{
					{BidID: uuid.NewString(), LotID: "lot-1", BidderID: "bidder-1", Amount: money.New(100000, "USD"), SubmittedAt: testNow},
					{BidID: uuid.NewString(), LotID: "lot-1", BidderID: "bidder-2", Amount: money.New(110000, "USD"), SubmittedAt: testNow},
				}
				m.EXPECT().GetBidHistory(gomock.Any(), "lot-1").Return(slices.Values(bids), nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bids retrieved successfully",
			expectedLen:    2,
		},
		{
			name: "success_no_bids",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetBidHistory(gomock.Any(), "lot-1").Return(slices.Values([]model.Bid{}), nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bids retrieved successfully",
			expectedLen:    0,
		},
		{
			name: "large_history",
			mockSetup: func(m *MockBiddingServiceInterface) {
				bids := make([]model.Bid, 1000)
				for i := range bids {
					bids[i] = model.Bid{
						BidID:       uuid.NewString(),
						LotID:       "lot-1",
						BidderID:    fmt.Sprintf("bidder-%d", i%2),
						Amount:      money.New(int64(100000+i*100), "USD"),
						SubmittedAt: testNow,
					}
				}
				m.EXPECT().GetBidHistory(gomock.Any(), "lot-1").Return(slices.Values(bids), nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bids retrieved successfully",
			expectedLen:    1000,
		},
		{
			name: "lot_not_found",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetBidHistory(gomock.Any(), "lot-1").Return(nil, biddingerrors.ErrLotNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "lot not found",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			mockService := NewMockBiddingServiceInterface(ctrl)
			tc.mockSetup(mockService)

			router := newTestRouter(mockService, "", http.MethodGet, "/lots/:lot_id/bids",
				func(h *BiddingHandler) gin.HandlerFunc { return h.GetBidsHandler })
			w, resp := doRequest(t, router, http.MethodGet, "/lots/lot-1/bids", nil)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
			if w.Code == http.StatusOK {
				data := resp["data"].([]any)
				require.Len(t, data, tc.expectedLen)
				if tc.expectedLen > 1 {
					first := data[0].(map[string]any)["amount"].(map[string]any)
					last := data[len(data)-1].(map[string]any)["amount"].(map[string]any)
					require.Less(t, first["amount_minor"].(float64), last["amount_minor"].(float64))
				}
			}
		})
	}
}

func TestCreateLotHandler(t *testing.T) {
	startsAt := testNow.Add(time.Hour)

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func(m *MockBiddingServiceInterface)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "success_with_schedule",
			requestBody: map[string]any{
				"lot_id":             "lot-9",
				"auction_id":         "auction-1",
				"title":              "Oil on canvas",
				"currency":           "GBP",
				"starting_bid":       20000,
				"reserve_price":      80000,
				"increment_schedule": "0:1000,100000:5000",
				"starts_at":          startsAt.Format(time.RFC3339),
			},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					CreateLot(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, spec bidding.LotSpec) (model.Lot, error) {
						if spec.LotID != "lot-9" || spec.Currency != "GBP" || spec.StartingBid != 20000 {
							return model.Lot{}, errors.New("unexpected lot spec")
						}
						if spec.ReservePrice == nil || *spec.ReservePrice != 80000 || spec.Increment.IsZero() {
							return model.Lot{}, errors.New("unexpected lot spec")
						}
						return model.Lot{
							LotID:       spec.LotID,
							AuctionID:   spec.AuctionID,
							StartingBid: money.New(spec.StartingBid, spec.Currency),
							Increment:   spec.Increment,
							Status:      model.StatusUpcoming,
							StartsAt:    spec.StartsAt,
							Version:     1,
						}, nil
					})
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "lot created successfully",
		},
		{
			name: "bad_increment_schedule",
			requestBody: map[string]any{
				"auction_id":         "auction-1",
				"starting_bid":       20000,
				"increment_schedule": "not-a-schedule",
				"starts_at":          startsAt.Format(time.RFC3339),
			},
			mockSetup:      func(m *MockBiddingServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "missing_auction_id",
			requestBody: map[string]any{
				"starting_bid": 20000,
				"starts_at":    startsAt.Format(time.RFC3339),
			},
			mockSetup:      func(m *MockBiddingServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name: "duplicate_lot",
			requestBody: map[string]any{
				"lot_id":       "lot-1",
				"auction_id":   "auction-1",
				"starting_bid": 20000,
				"starts_at":    startsAt.Format(time.RFC3339),
			},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().CreateLot(gomock.Any(), gomock.Any()).Return(model.Lot{}, biddingerrors.ErrLotExists)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "lot already exists",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			mockService := NewMockBiddingServiceInterface(ctrl)
			tc.mockSetup(mockService)

			router := newTestRouter(mockService, "", http.MethodPost, "/lots",
				func(h *BiddingHandler) gin.HandlerFunc { return h.CreateLotHandler })
			w, resp := doRequest(t, router, http.MethodPost, "/lots", tc.requestBody)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
		})
	}
}

func TestGetLotHandlerHidesReserve(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockService := NewMockBiddingServiceInterface(ctrl)
	mockService.EXPECT().GetLotSnapshot(gomock.Any(), "lot-1").Return(openTestLot("lot-1"), nil)

	router := newTestRouter(mockService, "", http.MethodGet, "/lots/:lot_id",
		func(h *BiddingHandler) gin.HandlerFunc { return h.GetLotHandler })
	w, resp := doRequest(t, router, http.MethodGet, "/lots/lot-1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]any)
	require.NotContains(t, data, "reserve_price")
	require.Equal(t, true, data["has_reserve"])
	require.Equal(t, false, data["reserve_met"])
	require.Equal(t, "OPEN", data["status"])
	next := data["next_minimum_bid"].(map[string]any)
	require.Equal(t, float64(110000), next["amount_minor"])
}

func TestGetLotHandlerNotFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockService := NewMockBiddingServiceInterface(ctrl)
	mockService.EXPECT().GetLotSnapshot(gomock.Any(), "missing").Return(model.Lot{}, biddingerrors.ErrLotNotFound)

	router := newTestRouter(mockService, "", http.MethodGet, "/lots/:lot_id",
		func(h *BiddingHandler) gin.HandlerFunc { return h.GetLotHandler })
	w, resp := doRequest(t, router, http.MethodGet, "/lots/missing", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "lot not found", resp["message"])
}

func TestCloseLotHandler(t *testing.T) {
	price := money.New(120000, "USD")
	sold := model.ClosingOutcome{
		Kind:       model.OutcomeSold,
		WinnerID:   "bidder-1",
		FinalPrice: &price,
		Source:     model.SourceLive,
		ClosedAt:   testNow,
	}

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func(m *MockBiddingServiceInterface)
		expectedStatus int
		expectedMsg    string
		expectedKind   string
	}{
		{
			name: "no_body_means_not_forced",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().CloseLot(gomock.Any(), "lot-1", testNow, false).Return(sold, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "lot closed",
			expectedKind:   "SOLD",
		},
		{
			name:        "forced_close",
			requestBody: helpers.CloseLotRequest{Force: true},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().CloseLot(gomock.Any(), "lot-1", testNow, true).Return(model.ClosingOutcome{
					Kind:     model.OutcomeReserveNotMet,
					ClosedAt: testNow,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "lot closed",
			expectedKind:   "RESERVE_NOT_MET",
		},
		{
			name: "not_closable_yet",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().CloseLot(gomock.Any(), "lot-1", testNow, false).Return(model.ClosingOutcome{}, biddingerrors.ErrLotNotClosable)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "lot cannot be closed yet",
		},
		{
			name:           "malformed_body",
			requestBody:    `{"force":`,
			mockSetup:      func(m *MockBiddingServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			mockService := NewMockBiddingServiceInterface(ctrl)
			tc.mockSetup(mockService)

			router := newTestRouter(mockService, "", http.MethodPost, "/lots/:lot_id/close",
				func(h *BiddingHandler) gin.HandlerFunc { return h.CloseLotHandler })
			w, resp := doRequest(t, router, http.MethodPost, "/lots/lot-1/close", tc.requestBody)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
			if tc.expectedKind != "" {
				data := resp["data"].(map[string]any)
				require.Equal(t, tc.expectedKind, data["kind"])
			}
		})
	}
}

func TestLifecycleHandlers(t *testing.T) {
	t.Parallel()

	t.Run("activate", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		mockService := NewMockBiddingServiceInterface(ctrl)
		lot := openTestLot("lot-1")
		mockService.EXPECT().ActivateLot(gomock.Any(), "lot-1", testNow).Return(lot, nil)

		router := newTestRouter(mockService, "", http.MethodPost, "/lots/:lot_id/activate",
			func(h *BiddingHandler) gin.HandlerFunc { return h.ActivateLotHandler })
		w, resp := doRequest(t, router, http.MethodPost, "/lots/lot-1/activate", nil)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "lot opened", resp["message"])
	})

	t.Run("activate_twice_conflicts", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		mockService := NewMockBiddingServiceInterface(ctrl)
		mockService.EXPECT().ActivateLot(gomock.Any(), "lot-1", testNow).
			Return(model.Lot{}, fmt.Errorf("service: %w - OPEN to OPEN", biddingerrors.ErrInvalidTransition))

		router := newTestRouter(mockService, "", http.MethodPost, "/lots/:lot_id/activate",
			func(h *BiddingHandler) gin.HandlerFunc { return h.ActivateLotHandler })
		w, _ := doRequest(t, router, http.MethodPost, "/lots/lot-1/activate", nil)

		require.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("withdraw", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		mockService := NewMockBiddingServiceInterface(ctrl)
		lot := openTestLot("lot-1")
		lot.Status = model.StatusWithdrawn
		mockService.EXPECT().WithdrawLot(gomock.Any(), "lot-1", testNow).Return(lot, nil)

		router := newTestRouter(mockService, "", http.MethodPost, "/lots/:lot_id/withdraw",
			func(h *BiddingHandler) gin.HandlerFunc { return h.WithdrawLotHandler })
		w, resp := doRequest(t, router, http.MethodPost, "/lots/lot-1/withdraw", nil)

		require.Equal(t, http.StatusOK, w.Code)
		data := resp["data"].(map[string]any)
		require.Equal(t, "WITHDRAWN", data["status"])
		require.NotContains(t, data, "next_minimum_bid")
	})
}

func TestPlaceCommissionBidHandler(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		mockService := NewMockBiddingServiceInterface(ctrl)
		mockService.EXPECT().
			PlaceCommissionBid(gomock.Any(), "lot-1", "bidder-7", int64(300000), gomock.Nil(), "USD", testNow).
			Return(model.CommissionBid{
				CommissionBidID: uuid.NewString(),
				LotID:           "lot-1",
				BidderID:        "bidder-7",
				MaxBid:          money.New(300000, "USD"),
				SubmittedAt:     testNow,
			}, nil)

		router := newTestRouter(mockService, "bidder-7", http.MethodPost, "/lots/:lot_id/commission-bids",
			func(h *BiddingHandler) gin.HandlerFunc { return h.PlaceCommissionBidHandler })
		w, resp := doRequest(t, router, http.MethodPost, "/lots/lot-1/commission-bids",
			helpers.CommissionBidRequest{MaxBid: 300000, Currency: "USD"})

		require.Equal(t, http.StatusCreated, w.Code)
		data := resp["data"].(map[string]any)
		require.Equal(t, "bidder-7", data["bidder_id"])
		require.NotContains(t, data, "open_bid")
	})

	t.Run("closed_lot", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		mockService := NewMockBiddingServiceInterface(ctrl)
		mockService.EXPECT().
			PlaceCommissionBid(gomock.Any(), "lot-1", "bidder-7", int64(300000), gomock.Any(), "USD", testNow).
			Return(model.CommissionBid{}, biddingerrors.ErrLotNotOpen)

		router := newTestRouter(mockService, "bidder-7", http.MethodPost, "/lots/:lot_id/commission-bids",
			func(h *BiddingHandler) gin.HandlerFunc { return h.PlaceCommissionBidHandler })
		open := int64(100000)
		w, resp := doRequest(t, router, http.MethodPost, "/lots/lot-1/commission-bids",
			helpers.CommissionBidRequest{MaxBid: 300000, OpenBid: &open, Currency: "USD"})

		require.Equal(t, http.StatusConflict, w.Code)
		require.Equal(t, "lot is not open for bidding", resp["message"])
	})

	t.Run("missing_max_bid", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		mockService := NewMockBiddingServiceInterface(ctrl)

		router := newTestRouter(mockService, "bidder-7", http.MethodPost, "/lots/:lot_id/commission-bids",
			func(h *BiddingHandler) gin.HandlerFunc { return h.PlaceCommissionBidHandler })
		w, _ := doRequest(t, router, http.MethodPost, "/lots/lot-1/commission-bids", map[string]any{"currency": "USD"})

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetLotsByBidderHandler(t *testing.T) {
	tests := []struct {
		name           string
		mockSetup      func(m *MockBiddingServiceInterface)
		expectedStatus int
		expectedLen    int
	}{
		{
			name: "success",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetLotsByBidder(gomock.Any(), "bidder-2").
					Return([]model.Lot{openTestLot("lot-1"), openTestLot("lot-2")}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedLen:    2,
		},
		{
			name: "no_bids_is_empty_list",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetLotsByBidder(gomock.Any(), "bidder-2").Return(nil, biddingerrors.ErrBidderNoBids)
			},
			expectedStatus: http.StatusOK,
			expectedLen:    0,
		},
		{
			name: "storage_down",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetLotsByBidder(gomock.Any(), "bidder-2").Return(nil, biddingerrors.ErrPersistence)
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			mockService := NewMockBiddingServiceInterface(ctrl)
			tc.mockSetup(mockService)

			router := newTestRouter(mockService, "", http.MethodGet, "/bidders/:bidder_id/lots",
				func(h *BiddingHandler) gin.HandlerFunc { return h.GetLotsByBidderHandler })
			w, resp := doRequest(t, router, http.MethodGet, "/bidders/bidder-2/lots", nil)

			require.Equal(t, tc.expectedStatus, w.Code)
			if w.Code == http.StatusOK {
				require.Len(t, resp["data"].([]any), tc.expectedLen)
			}
		})
	}
}
