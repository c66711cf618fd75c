package biddingerrors

import (
	"errors"
	"fmt"
)

// Repository-level errors
var (
	ErrLotNotFound        = errors.New("lot not found")
	ErrLotExists          = errors.New("lot already exists")
	ErrBidderNoBids       = errors.New("bidder has not placed any bids")
	ErrVersionConflict    = errors.New("lot version conflict")
	ErrPersistence        = errors.New("persistence failure")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Validation errors. These are business outcomes returned to the caller.
var (
	ErrLotNotOpen       = errors.New("lot is not open for bidding")
	ErrSelfOutbid       = errors.New("bidder already holds the standing bid")
	ErrBelowMinimum     = errors.New("bid amount below next minimum bid")
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrInvalidBid       = errors.New("invalid bid")
	ErrInvalidLot       = errors.New("invalid lot")
	ErrUnauthenticated  = errors.New("bidder is not authenticated")
)

// Lifecycle errors
var (
	ErrInvalidTransition = errors.New("invalid lot status transition")
	ErrLotNotClosable    = errors.New("lot cannot be closed yet")
)

// Consistency errors. Reaching one of these means a serialization bug.
var (
	ErrOutOfOrder     = errors.New("ledger append out of order")
	ErrAmountOverflow = errors.New("amount overflow")
)

// BidError is a rejected bid submission. It carries the reason sentinel and
// the next minimum bid at the time of rejection. MinimumBid is the formatted
// amount; it is empty when the lot was not open.
type BidError struct {
	Reason       error
	Code         string
	LotID        string
	MinimumBid   string
	MinimumMinor int64
	Currency     string
}

func (e *BidError) Error() string {
	if e.MinimumBid != "" {
		return fmt.Sprintf("lot %s: %v, minimum is %s", e.LotID, e.Reason, e.MinimumBid)
	}
	return fmt.Sprintf("lot %s: %v", e.LotID, e.Reason)
}

func (e *BidError) Unwrap() error { return e.Reason }

// IsValidation reports whether err is an expected bid rejection rather than a fault.
func IsValidation(err error) bool {
	var be *BidError
	if errors.As(err, &be) {
		return true
	}
	return errors.Is(err, ErrLotNotOpen) ||
		errors.Is(err, ErrSelfOutbid) ||
		errors.Is(err, ErrBelowMinimum) ||
		errors.Is(err, ErrCurrencyMismatch)
}
