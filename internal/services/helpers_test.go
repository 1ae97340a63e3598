package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"auction-engine/internal/domain"
	"auction-engine/internal/infrastructure/memory"
	"auction-engine/pkg/logger"
	"auction-engine/pkg/utils"
)

// fakeClock pins time for deterministic records.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// seqIDGen issues predictable ids: "auction-1", "bid-2", ...
type seqIDGen struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDGen) NewID(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", prefix, g.n)
}

type testEnv struct {
	store    *memory.Store
	clock    *fakeClock
	auctions *AuctionService
	bids     *BidService
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	idGen := &seqIDGen{}
	log := logger.NewNop()

	return &testEnv{
		store:    store,
		clock:    clock,
		auctions: NewAuctionService(store, idGen, clock, log),
		bids:     NewBidService(store, idGen, clock, log),
	}
}

// createActiveAuction creates and activates an auction in one step.
func (e *testEnv) createActiveAuction(ctx context.Context, sellerID string, startPrice float64) (*domain.Auction, error) {
	now := e.clock.Now()
	auction, err := e.auctions.CreateAuction(ctx, sellerID, domain.CreateAuctionRequest{
		Title:      "Vintage Camera",
		StartPrice: startPrice,
		StartTime:  now,
		EndTime:    now.Add(24 * time.Hour),
	})
	if err != nil {
		return nil, err
	}
	return e.auctions.ActivateAuction(ctx, auction.ID)
}

// unreachableRepo fails every call. It backs tests that must prove an
// operation never reaches storage.
type unreachableRepo struct{}

var errUnreachable = errors.New("storage must not be touched")

func (unreachableRepo) CreateAuction(context.Context, *domain.Auction) error {
	return errUnreachable
}

func (unreachableRepo) GetAuction(context.Context, string) (*domain.Auction, error) {
	return nil, errUnreachable
}

func (unreachableRepo) UpdateAuctionStatus(context.Context, string, domain.AuctionStatus, time.Time) error {
	return errUnreachable
}

func (unreachableRepo) ListAuctions(context.Context, domain.ListAuctionsFilter) ([]*domain.Auction, error) {
	return nil, errUnreachable
}

func (unreachableRepo) GetAuctionsByIDs(context.Context, []string) (map[string]*domain.Auction, error) {
	return nil, errUnreachable
}

var _ domain.AuctionRepository = unreachableRepo{}
var _ domain.Clock = utils.SystemClock{}
var _ domain.IDGenerator = utils.UUIDGenerator{}
