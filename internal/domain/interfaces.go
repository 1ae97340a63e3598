package domain

import (
	"context"
	"time"
)

// Repository interfaces
type AuctionRepository interface {
	CreateAuction(ctx context.Context, auction *Auction) error
	GetAuction(ctx context.Context, auctionID string) (*Auction, error)
	UpdateAuctionStatus(ctx context.Context, auctionID string, status AuctionStatus, updatedAt time.Time) error
	ListAuctions(ctx context.Context, filter ListAuctionsFilter) ([]*Auction, error)
	GetAuctionsByIDs(ctx context.Context, ids []string) (map[string]*Auction, error)
}

type BidRepository interface {
	// PlaceBid applies the conditional update to the auction row and inserts
	// the bid in one transaction. It returns the updated auction, or
	// ErrAuctionNotActive / ErrBidTooLow when the guard rejects the bid.
	PlaceBid(ctx context.Context, bid *Bid) (*Auction, error)
	GetBidHistory(ctx context.Context, auctionID string, limit, offset int) ([]*Bid, int, error)
}

// Clock and IDGenerator are injected so tests can pin time and ids.
type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(prefix string) string
}
