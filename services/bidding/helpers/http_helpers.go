package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"lot-bidding/internal/biddingerrors"
	"lot-bidding/utils"

	"github.com/gin-gonic/gin"
)

// BidderIDKey is the gin context key holding the authenticated bidder.
const BidderIDKey = "bidder_id"

// BidderID returns the authenticated bidder, or "" when there is none.
func BidderID(c *gin.Context) string {
	return c.GetString(BidderIDKey)
}

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, biddingerrors.ErrUnauthenticated):
		return http.StatusUnauthorized, "bidder is not authenticated"
	case errors.Is(err, biddingerrors.ErrServiceUnavailable), errors.Is(err, biddingerrors.ErrPersistence):
		return http.StatusServiceUnavailable, "service temporarily unavailable, retry later"
	case errors.Is(err, biddingerrors.ErrLotNotFound):
		return http.StatusNotFound, "lot not found"
	case errors.Is(err, biddingerrors.ErrLotNotOpen):
		return http.StatusConflict, "lot is not open for bidding"
	case errors.Is(err, biddingerrors.ErrSelfOutbid):
		return http.StatusConflict, "bidder already holds the standing bid"
	case errors.Is(err, biddingerrors.ErrBelowMinimum):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, biddingerrors.ErrCurrencyMismatch):
		return http.StatusBadRequest, "bid currency does not match lot currency"
	case errors.Is(err, biddingerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, biddingerrors.ErrInvalidLot):
		return http.StatusBadRequest, "invalid lot details"
	case errors.Is(err, biddingerrors.ErrLotExists):
		return http.StatusConflict, "lot already exists"
	case errors.Is(err, biddingerrors.ErrInvalidTransition):
		return http.StatusConflict, "lot status does not allow this operation"
	case errors.Is(err, biddingerrors.ErrLotNotClosable):
		return http.StatusConflict, "lot cannot be closed yet"
	case errors.Is(err, biddingerrors.ErrBidderNoBids):
		return http.StatusOK, "no lots found for bidder"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError writes err as a JSON error. Bid rejections carry their
// reason code and the minimum acceptable amount.
func RespondError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)

	var bidErr *biddingerrors.BidError
	if errors.As(err, &bidErr) {
		var minimum *MoneyResponse
		if bidErr.MinimumBid != "" {
			minimum = &MoneyResponse{AmountMinor: bidErr.MinimumMinor, Currency: bidErr.Currency, Display: bidErr.MinimumBid}
		}
		utils.JSONRejection(c, status, err, bidErr.Code, minimum)
		return
	}

	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
	} else {
		utils.Warn(handlerName+": request failed", fields)
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
