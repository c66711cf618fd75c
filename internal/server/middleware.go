package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"lot-bidding/internal/biddingerrors"
	"lot-bidding/services/bidding/helpers"
	"lot-bidding/utils"

	"github.com/gin-gonic/gin"
)

// BidderHeader carries the bidder identity set by the upstream gateway.
const BidderHeader = "X-Bidder-ID"

// Authenticator resolves the bidder behind a request.
type Authenticator interface {
	Authenticate(r *http.Request) (string, error)
}

// HeaderAuthenticator trusts the bidder id forwarded in BidderHeader.
type HeaderAuthenticator struct{}

func (HeaderAuthenticator) Authenticate(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(BidderHeader))
	if id == "" {
		return "", biddingerrors.ErrUnauthenticated
	}
	return id, nil
}

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	fields := map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	}
	if bidderID := helpers.BidderID(c); bidderID != "" {
		fields["bidder_id"] = bidderID
	}
	utils.Info("HTTP Request", fields)
}

// RequireBidder rejects requests without an authenticated bidder and stores
// the bidder id under helpers.BidderIDKey for the handlers.
func RequireBidder(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		bidderID, err := auth.Authenticate(c.Request)
		if err != nil {
			if !errors.Is(err, biddingerrors.ErrUnauthenticated) {
				err = errors.Join(biddingerrors.ErrUnauthenticated, err)
			}
			helpers.RespondError(c, "RequireBidder", err, map[string]any{"path": c.Request.URL.Path})
			c.Abort()
			return
		}
		c.Set(helpers.BidderIDKey, bidderID)
		c.Next()
	}
}
