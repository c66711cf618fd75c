package server

import (
	handler "lot-bidding/services/bidding/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(biddingService handler.BiddingServiceInterface, auth Authenticator) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	if auth == nil {
		auth = HeaderAuthenticator{}
	}
	biddingHandler := handler.NewBiddingHandler(biddingService)
	requireBidder := RequireBidder(auth)

	lots := router.Group("/lots")
	{
		lots.POST("", biddingHandler.CreateLotHandler)
		lots.GET("/:lot_id", biddingHandler.GetLotHandler)
		lots.GET("/:lot_id/bids", biddingHandler.GetBidsHandler)
		lots.POST("/:lot_id/bids", requireBidder, biddingHandler.SubmitBidHandler)
		lots.POST("/:lot_id/commission-bids", requireBidder, biddingHandler.PlaceCommissionBidHandler)
		lots.POST("/:lot_id/activate", biddingHandler.ActivateLotHandler)
		lots.POST("/:lot_id/close", biddingHandler.CloseLotHandler)
		lots.POST("/:lot_id/withdraw", biddingHandler.WithdrawLotHandler)
	}

	bidders := router.Group("/bidders")
	{
		bidders.GET("/:bidder_id/lots", biddingHandler.GetLotsByBidderHandler)
	}

	return router
}
