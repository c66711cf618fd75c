package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	bidding "lot-bidding/internal/biddingService"
	"lot-bidding/internal/repository"
	"lot-bidding/internal/server"
	"lot-bidding/utils"

	"github.com/gin-gonic/gin"
)

// SetupTestRouter initializes the router with in-memory repository for integration testing.
func SetupTestRouter(t *testing.T) (*gin.Engine, *bidding.BiddingService) {
	t.Helper()
	return SetupTestRouterWithRepo(t, repository.NewMemoryRepo())
}

// SetupTestRouterWithRepo wires the full stack on top of repo.
func SetupTestRouterWithRepo(t *testing.T, repo repository.AuctionDB) (*gin.Engine, *bidding.BiddingService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetOutput(io.Discard)
	service := bidding.NewBiddingService(repository.WithRetry(repo, 3, time.Millisecond), nil, bidding.Config{})
	router := server.SetupRouter(service, server.HeaderAuthenticator{})
	return router, service
}

// SetupTestRouterWithLots initializes the router and opens the given lots.
func SetupTestRouterWithLots(t *testing.T, lots ...bidding.LotSpec) *gin.Engine {
	t.Helper()
	router, service := SetupTestRouter(t)
	OpenLots(t, service, lots...)
	return router
}

// OpenLots creates each lot and activates it.
func OpenLots(t *testing.T, service *bidding.BiddingService, lots ...bidding.LotSpec) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	for _, spec := range lots {
		if spec.StartsAt.IsZero() {
			spec.StartsAt = now.Add(-time.Minute)
		}
		if _, err := service.CreateLot(ctx, spec); err != nil {
			t.Fatalf("failed to create lot %s: %v", spec.LotID, err)
		}
		if _, err := service.ActivateLot(ctx, spec.LotID, now); err != nil {
			t.Fatalf("failed to open lot %s: %v", spec.LotID, err)
		}
	}
}

// ExecuteRequestAndParse executes an HTTP request on the given router as
// bidderID and parses the response envelope.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url, bidderID string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bidderID != "" {
		req.Header.Set(server.BidderHeader, bidderID)
	}
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// Data returns the "data" object of a successful response.
func Data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data object: %v", resp)
	}
	return data
}

func bid(amount int64) map[string]any {
	return map[string]any{"amount_minor": amount, "currency": "USD"}
}
