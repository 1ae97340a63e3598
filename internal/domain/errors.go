package domain

import "errors"

// Error strings are part of the service contract: the handler layer passes
// them through to callers unchanged. A bidder that loses a race gets the
// same message as one that simply bid too low.
var (
	// Validation errors. Detected before any persistence.
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrMissingField     = errors.New("missing required field")

	// Not-found errors.
	ErrAuctionNotFound = errors.New("Auction not found")
	// ErrAuctionNotActive folds missing and not-yet-active auctions into one
	// answer for bid placement.
	ErrAuctionNotActive = errors.New("Auction not found or not active")

	// Conflict. The routine outcome of losing a bid race, not a fault.
	ErrBidTooLow = errors.New("Bid amount must be higher than current price")
)

// IsValidation reports whether err is malformed input rejected before any
// write happened.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidTimeRange) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrMissingField)
}

// IsNotFound reports whether err means the referenced auction does not
// exist (or, for bids, is not accepting bids).
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAuctionNotFound) || errors.Is(err, ErrAuctionNotActive)
}

// IsConflict reports whether err is a business-rule violation discovered
// under the conditional update.
func IsConflict(err error) bool {
	return errors.Is(err, ErrBidTooLow)
}
