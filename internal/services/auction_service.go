package services

import (
	"context"

	"auction-engine/internal/domain"
	"auction-engine/pkg/logger"
)

// defaultListLimit bounds listing and history queries when the caller does
// not ask for a specific page size.
const defaultListLimit = 50

// AuctionService owns auction lifecycle and the read surface. All state
// lives in the repository; the service holds no locks and no background
// work, so any number of instances can share one store.
type AuctionService struct {
	auctionRepo domain.AuctionRepository
	idGen       domain.IDGenerator
	clock       domain.Clock
	log         logger.Logger
}

func NewAuctionService(
	auctionRepo domain.AuctionRepository,
	idGen domain.IDGenerator,
	clock domain.Clock,
	log logger.Logger,
) *AuctionService {
	return &AuctionService{
		auctionRepo: auctionRepo,
		idGen:       idGen,
		clock:       clock,
		log:         log,
	}
}

func (s *AuctionService) CreateAuction(ctx context.Context, sellerID string, req domain.CreateAuctionRequest) (*domain.Auction, error) {
	if sellerID == "" || req.Title == "" {
		return nil, domain.ErrMissingField
	}
	if req.StartPrice <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, domain.ErrInvalidTimeRange
	}

	now := s.clock.Now()
	auction := &domain.Auction{
		ID:           s.idGen.NewID("auction"),
		SellerID:     sellerID,
		Title:        req.Title,
		Description:  req.Description,
		StartPrice:   req.StartPrice,
		ReservePrice: req.ReservePrice,
		CurrentPrice: req.StartPrice,
		BidCount:     0,
		Status:       domain.AuctionPending,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.auctionRepo.CreateAuction(ctx, auction); err != nil {
		return nil, err
	}

	s.log.Info("Auction created", "auction_id", auction.ID, "seller_id", sellerID)
	return auction, nil
}

// ActivateAuction opens the auction for bids. Activating an already-active
// auction is idempotent.
func (s *AuctionService) ActivateAuction(ctx context.Context, auctionID string) (*domain.Auction, error) {
	auction, err := s.auctionRepo.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := s.auctionRepo.UpdateAuctionStatus(ctx, auctionID, domain.AuctionActive, now); err != nil {
		return nil, err
	}

	auction.Status = domain.AuctionActive
	auction.UpdatedAt = now

	s.log.Info("Auction activated", "auction_id", auctionID)
	return auction, nil
}

func (s *AuctionService) GetAuction(ctx context.Context, auctionID string) (*domain.Auction, error) {
	return s.auctionRepo.GetAuction(ctx, auctionID)
}

// ListAuctions returns auctions most recently created first.
func (s *AuctionService) ListAuctions(ctx context.Context, filter domain.ListAuctionsFilter) ([]*domain.Auction, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	return s.auctionRepo.ListAuctions(ctx, filter)
}

// GetAuctionsByIDs is the batch point-lookup backing request collapsing in
// calling layers. Unknown ids are omitted, never an error, and an empty
// input returns an empty map without touching the store.
func (s *AuctionService) GetAuctionsByIDs(ctx context.Context, ids []string) (map[string]*domain.Auction, error) {
	if len(ids) == 0 {
		return map[string]*domain.Auction{}, nil
	}
	return s.auctionRepo.GetAuctionsByIDs(ctx, ids)
}
