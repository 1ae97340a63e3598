package services

import (
	"context"

	"auction-engine/internal/domain"
	"auction-engine/pkg/logger"
)

// BidService arbitrates bid placement. Correctness under concurrency is
// delegated to the repository's conditional update; the service never
// read-then-writes the price outside that guard, so a stale caller view of
// current_price cannot let a low bid through.
type BidService struct {
	bidRepo domain.BidRepository
	idGen   domain.IDGenerator
	clock   domain.Clock
	log     logger.Logger
}

func NewBidService(
	bidRepo domain.BidRepository,
	idGen domain.IDGenerator,
	clock domain.Clock,
	log logger.Logger,
) *BidService {
	return &BidService{
		bidRepo: bidRepo,
		idGen:   idGen,
		clock:   clock,
		log:     log,
	}
}

// PlaceBid accepts the bid only if its amount strictly exceeds the
// auction's current price at the moment the conditional update commits.
// A lost race surfaces as ErrBidTooLow, the same answer a deliberately low
// bid gets; callers retrying must re-check the (now higher) current price.
func (s *BidService) PlaceBid(ctx context.Context, bidderID string, req domain.PlaceBidRequest) (*domain.PlaceBidResult, error) {
	if bidderID == "" || req.AuctionID == "" {
		return nil, domain.ErrMissingField
	}
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	bid := &domain.Bid{
		ID:        s.idGen.NewID("bid"),
		AuctionID: req.AuctionID,
		BidderID:  bidderID,
		Amount:    req.Amount,
		CreatedAt: s.clock.Now(),
	}

	auction, err := s.bidRepo.PlaceBid(ctx, bid)
	if err != nil {
		if domain.IsConflict(err) || domain.IsNotFound(err) {
			s.log.Debug("Bid rejected",
				"auction_id", req.AuctionID, "bidder_id", bidderID,
				"amount", req.Amount, "reason", err.Error())
		}
		return nil, err
	}

	s.log.Info("Bid accepted",
		"auction_id", auction.ID, "bidder_id", bidderID,
		"amount", bid.Amount, "bid_count", auction.BidCount)

	return &domain.PlaceBidResult{Bid: bid, Auction: auction}, nil
}

// GetBidHistory pages through an auction's ledger most-recent-first. Total
// reflects the full ledger size regardless of paging.
func (s *BidService) GetBidHistory(ctx context.Context, req domain.BidHistoryRequest) (*domain.BidHistory, error) {
	if req.AuctionID == "" {
		return nil, domain.ErrMissingField
	}
	if req.Limit <= 0 {
		req.Limit = defaultListLimit
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	bids, total, err := s.bidRepo.GetBidHistory(ctx, req.AuctionID, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	return &domain.BidHistory{Bids: bids, Total: total}, nil
}
