package domain

import (
	"time"
)

// Auction is the single shared mutable record of the engine. CurrentPrice
// and BidCount are only ever changed by the conditional update inside bid
// placement, so CurrentPrice is non-decreasing and BidCount always equals
// the number of persisted bids for the auction.
type Auction struct {
	ID           string
	SellerID     string
	Title        string
	Description  string
	StartPrice   float64
	ReservePrice *float64
	CurrentPrice float64
	BidCount     int
	Status       AuctionStatus
	StartTime    time.Time
	EndTime      time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Bid is an append-only ledger row. Once accepted it is never mutated.
type Bid struct {
	ID        string
	AuctionID string
	BidderID  string
	Amount    float64
	CreatedAt time.Time
}

type AuctionStatus int

const (
	AuctionPending AuctionStatus = iota
	AuctionActive
	AuctionEnded
	AuctionCancelled
)

func (s AuctionStatus) String() string {
	switch s {
	case AuctionPending:
		return "pending"
	case AuctionActive:
		return "active"
	case AuctionEnded:
		return "ended"
	case AuctionCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ParseAuctionStatus maps a status name back to its enum value. The second
// return value is false for unknown names.
func ParseAuctionStatus(s string) (AuctionStatus, bool) {
	switch s {
	case "pending":
		return AuctionPending, true
	case "active":
		return AuctionActive, true
	case "ended":
		return AuctionEnded, true
	case "cancelled":
		return AuctionCancelled, true
	default:
		return 0, false
	}
}

type CreateAuctionRequest struct {
	Title        string
	Description  string
	StartPrice   float64
	ReservePrice *float64
	StartTime    time.Time
	EndTime      time.Time
}

type PlaceBidRequest struct {
	AuctionID string
	Amount    float64
}

// PlaceBidResult pairs the accepted bid with the auction row it updated,
// both read back from the same transaction.
type PlaceBidResult struct {
	Bid     *Bid
	Auction *Auction
}

// ListAuctionsFilter filters by lifecycle status and/or seller. Status is
// nil for no status filter. Limit <= 0 falls back to the service default.
type ListAuctionsFilter struct {
	Status   *AuctionStatus
	SellerID string
	Limit    int
}

type BidHistoryRequest struct {
	AuctionID string
	Limit     int
	Offset    int
}

// BidHistory holds one page of an auction's bids plus the total count
// regardless of paging.
type BidHistory struct {
	Bids  []*Bid
	Total int
}
