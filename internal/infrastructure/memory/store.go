package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"auction-engine/internal/domain"
)

// Store is a concurrency-safe in-memory implementation of the repository
// interfaces. The mutex plays the role the database's transaction isolation
// plays for the MySQL store: the conditional update and the ledger append
// happen as one atomic step, so the engine's race guarantees hold here too.
type Store struct {
	mu       sync.RWMutex
	auctions map[string]*domain.Auction
	bids     map[string][]*domain.Bid // key: auctionID, append order
	order    []string                 // auction ids in creation order
}

func NewStore() *Store {
	return &Store{
		auctions: make(map[string]*domain.Auction),
		bids:     make(map[string][]*domain.Bid),
	}
}

func (s *Store) CreateAuction(ctx context.Context, auction *domain.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *auction
	s.auctions[auction.ID] = &cp
	s.order = append(s.order, auction.ID)
	return nil
}

func (s *Store) GetAuction(ctx context.Context, auctionID string) (*domain.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	auction, ok := s.auctions[auctionID]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	cp := *auction
	return &cp, nil
}

func (s *Store) UpdateAuctionStatus(ctx context.Context, auctionID string, status domain.AuctionStatus, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction, ok := s.auctions[auctionID]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	auction.Status = status
	auction.UpdatedAt = updatedAt
	return nil
}

func (s *Store) ListAuctions(ctx context.Context, filter domain.ListAuctionsFilter) ([]*domain.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Most recently created first, matching the MySQL ORDER BY created_at DESC.
	var auctions []*domain.Auction
	for i := len(s.order) - 1; i >= 0; i-- {
		auction := s.auctions[s.order[i]]
		if filter.Status != nil && auction.Status != *filter.Status {
			continue
		}
		if filter.SellerID != "" && auction.SellerID != filter.SellerID {
			continue
		}
		cp := *auction
		auctions = append(auctions, &cp)
		if filter.Limit > 0 && len(auctions) == filter.Limit {
			break
		}
	}
	return auctions, nil
}

func (s *Store) GetAuctionsByIDs(ctx context.Context, ids []string) (map[string]*domain.Auction, error) {
	result := make(map[string]*domain.Auction, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range ids {
		if auction, ok := s.auctions[id]; ok {
			cp := *auction
			result[id] = &cp
		}
	}
	return result, nil
}

// PlaceBid mirrors the MySQL transaction: guard check, auction update and
// ledger append under one critical section.
func (s *Store) PlaceBid(ctx context.Context, bid *domain.Bid) (*domain.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	auction, ok := s.auctions[bid.AuctionID]
	if !ok || auction.Status != domain.AuctionActive {
		return nil, domain.ErrAuctionNotActive
	}
	if bid.Amount <= auction.CurrentPrice {
		return nil, domain.ErrBidTooLow
	}

	auction.CurrentPrice = bid.Amount
	auction.BidCount++
	auction.UpdatedAt = bid.CreatedAt

	cp := *bid
	s.bids[bid.AuctionID] = append(s.bids[bid.AuctionID], &cp)

	out := *auction
	return &out, nil
}

func (s *Store) GetBidHistory(ctx context.Context, auctionID string, limit, offset int) ([]*domain.Bid, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.bids[auctionID]
	total := len(all)

	ordered := make([]*domain.Bid, total)
	copy(ordered, all)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Amount > ordered[j].Amount
	})

	if offset >= total {
		return nil, total, nil
	}
	ordered = ordered[offset:]
	if limit > 0 && len(ordered) > limit {
		ordered = ordered[:limit]
	}

	bids := make([]*domain.Bid, len(ordered))
	for i, b := range ordered {
		cp := *b
		bids[i] = &cp
	}
	return bids, total, nil
}
