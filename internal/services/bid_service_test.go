package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"auction-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBidService_PlaceBid(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts_higher_bid", func(t *testing.T) {
		env := newTestEnv()
		auction, err := env.createActiveAuction(ctx, "seller-1", 100.0)
		require.NoError(t, err)

		result, err := env.bids.PlaceBid(ctx, "bidder-1", domain.PlaceBidRequest{
			AuctionID: auction.ID,
			Amount:    150.0,
		})
		require.NoError(t, err)

		assert.Equal(t, 150.0, result.Auction.CurrentPrice)
		assert.Equal(t, 1, result.Auction.BidCount)
		assert.Equal(t, auction.ID, result.Bid.AuctionID)
		assert.Equal(t, "bidder-1", result.Bid.BidderID)
		assert.Equal(t, 150.0, result.Bid.Amount)
	})

	t.Run("rejects_equal_amount", func(t *testing.T) {
		env := newTestEnv()
		auction, err := env.createActiveAuction(ctx, "seller-1", 100.0)
		require.NoError(t, err)

		_, err = env.bids.PlaceBid(ctx, "bidder-1", domain.PlaceBidRequest{AuctionID: auction.ID, Amount: 150.0})
		require.NoError(t, err)

		_, err = env.bids.PlaceBid(ctx, "bidder-2", domain.PlaceBidRequest{AuctionID: auction.ID, Amount: 150.0})
		require.ErrorIs(t, err, domain.ErrBidTooLow)
		require.EqualError(t, err, "Bid amount must be higher than current price")
	})

	t.Run("rejects_bid_at_start_price", func(t *testing.T) {
		env := newTestEnv()
		auction, err := env.createActiveAuction(ctx, "seller-1", 100.0)
		require.NoError(t, err)

		_, err = env.bids.PlaceBid(ctx, "bidder-1", domain.PlaceBidRequest{AuctionID: auction.ID, Amount: 100.0})
		require.ErrorIs(t, err, domain.ErrBidTooLow)
	})

	t.Run("rejects_pending_auction", func(t *testing.T) {
		env := newTestEnv()
		auction, err := env.auctions.CreateAuction(ctx, "seller-1", domain.CreateAuctionRequest{
			Title:      "Vintage Camera",
			StartPrice: 100.0,
			StartTime:  env.clock.Now(),
			EndTime:    env.clock.Now().Add(time.Hour),
		})
		require.NoError(t, err)

		_, err = env.bids.PlaceBid(ctx, "bidder-1", domain.PlaceBidRequest{AuctionID: auction.ID, Amount: 500.0})
		require.ErrorIs(t, err, domain.ErrAuctionNotActive)
		require.EqualError(t, err, "Auction not found or not active")
	})

	t.Run("rejects_unknown_auction", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.bids.PlaceBid(ctx, "bidder-1", domain.PlaceBidRequest{AuctionID: "auction-ghost", Amount: 500.0})
		require.ErrorIs(t, err, domain.ErrAuctionNotActive)
	})

	t.Run("rejects_invalid_input", func(t *testing.T) {
		env := newTestEnv()
		auction, err := env.createActiveAuction(ctx, "seller-1", 100.0)
		require.NoError(t, err)

		_, err = env.bids.PlaceBid(ctx, "", domain.PlaceBidRequest{AuctionID: auction.ID, Amount: 150.0})
		require.ErrorIs(t, err, domain.ErrMissingField)

		_, err = env.bids.PlaceBid(ctx, "bidder-1", domain.PlaceBidRequest{AuctionID: "", Amount: 150.0})
		require.ErrorIs(t, err, domain.ErrMissingField)

		_, err = env.bids.PlaceBid(ctx, "bidder-1", domain.PlaceBidRequest{AuctionID: auction.ID, Amount: 0})
		require.ErrorIs(t, err, domain.ErrInvalidAmount)

		_, err = env.bids.PlaceBid(ctx, "bidder-1", domain.PlaceBidRequest{AuctionID: auction.ID, Amount: -5})
		require.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}

// Each accepted bid must strictly exceed the price before it, and the bid
// count must track the ledger exactly.
func TestBidService_PriceMonotonicity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	auction, err := env.createActiveAuction(ctx, "seller-1", 100.0)
	require.NoError(t, err)

	amounts := []float64{110, 125, 125.5, 200, 350}
	prev := auction.CurrentPrice
	for _, amount := range amounts {
		result, err := env.bids.PlaceBid(ctx, "bidder-1", domain.PlaceBidRequest{
			AuctionID: auction.ID,
			Amount:    amount,
		})
		require.NoError(t, err)
		assert.Greater(t, result.Auction.CurrentPrice, prev)
		prev = result.Auction.CurrentPrice
	}

	final, err := env.auctions.GetAuction(ctx, auction.ID)
	require.NoError(t, err)
	assert.Equal(t, 350.0, final.CurrentPrice)
	assert.Equal(t, len(amounts), final.BidCount)

	history, err := env.bids.GetBidHistory(ctx, domain.BidHistoryRequest{AuctionID: auction.ID})
	require.NoError(t, err)
	assert.Equal(t, final.BidCount, history.Total)
}

// Two bids for the same amount racing against the same observed price:
// exactly one wins, the loser gets the conflict error, and the bid count
// moves by exactly one.
func TestBidService_ConcurrentEqualBids(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	auction, err := env.createActiveAuction(ctx, "seller-1", 100.0)
	require.NoError(t, err)

	_, err = env.bids.PlaceBid(ctx, "bidder-0", domain.PlaceBidRequest{AuctionID: auction.ID, Amount: 120.0})
	require.NoError(t, err)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, bidder := range []string{"bidder-1", "bidder-2"} {
		wg.Add(1)
		go func(i int, bidder string) {
			defer wg.Done()
			_, errs[i] = env.bids.PlaceBid(ctx, bidder, domain.PlaceBidRequest{
				AuctionID: auction.ID,
				Amount:    150.0,
			})
		}(i, bidder)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case domain.IsConflict(err):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)

	final, err := env.auctions.GetAuction(ctx, auction.ID)
	require.NoError(t, err)
	assert.Equal(t, 150.0, final.CurrentPrice)
	assert.Equal(t, 2, final.BidCount)
}

// A wider fan-out: the number of accepted bids always equals the final bid
// count, and the final price is the highest accepted amount.
func TestBidService_ConcurrentFanOut(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	auction, err := env.createActiveAuction(ctx, "seller-1", 100.0)
	require.NoError(t, err)

	const bidders = 32
	accepted := make([]*domain.PlaceBidResult, bidders)
	errs := make([]error, bidders)

	var wg sync.WaitGroup
	for i := 0; i < bidders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			accepted[i], errs[i] = env.bids.PlaceBid(ctx, "bidder", domain.PlaceBidRequest{
				AuctionID: auction.ID,
				Amount:    100.0 + float64(i+1),
			})
		}(i)
	}
	wg.Wait()

	var wins int
	var highest float64
	for i := 0; i < bidders; i++ {
		if errs[i] == nil {
			wins++
			if accepted[i].Bid.Amount > highest {
				highest = accepted[i].Bid.Amount
			}
		} else {
			require.ErrorIs(t, errs[i], domain.ErrBidTooLow)
		}
	}
	require.GreaterOrEqual(t, wins, 1)

	final, err := env.auctions.GetAuction(ctx, auction.ID)
	require.NoError(t, err)
	assert.Equal(t, wins, final.BidCount)
	assert.Equal(t, highest, final.CurrentPrice)

	history, err := env.bids.GetBidHistory(ctx, domain.BidHistoryRequest{AuctionID: auction.ID, Limit: bidders})
	require.NoError(t, err)
	assert.Equal(t, wins, history.Total)
}

func TestBidService_GetBidHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("empty_auction", func(t *testing.T) {
		env := newTestEnv()
		auction, err := env.createActiveAuction(ctx, "seller-1", 100.0)
		require.NoError(t, err)

		history, err := env.bids.GetBidHistory(ctx, domain.BidHistoryRequest{AuctionID: auction.ID})
		require.NoError(t, err)
		assert.Empty(t, history.Bids)
		assert.Equal(t, 0, history.Total)
	})

	t.Run("most_recent_first_with_paging", func(t *testing.T) {
		env := newTestEnv()
		auction, err := env.createActiveAuction(ctx, "seller-1", 100.0)
		require.NoError(t, err)

		amounts := []float64{110, 120, 130, 140, 150}
		for _, amount := range amounts {
			env.clock.Advance(time.Second)
			_, err := env.bids.PlaceBid(ctx, "bidder-1", domain.PlaceBidRequest{AuctionID: auction.ID, Amount: amount})
			require.NoError(t, err)
		}

		history, err := env.bids.GetBidHistory(ctx, domain.BidHistoryRequest{AuctionID: auction.ID, Limit: 2})
		require.NoError(t, err)
		require.Len(t, history.Bids, 2)
		assert.Equal(t, 5, history.Total)
		assert.Equal(t, 150.0, history.Bids[0].Amount)
		assert.Equal(t, 140.0, history.Bids[1].Amount)

		page2, err := env.bids.GetBidHistory(ctx, domain.BidHistoryRequest{AuctionID: auction.ID, Limit: 2, Offset: 2})
		require.NoError(t, err)
		require.Len(t, page2.Bids, 2)
		assert.Equal(t, 5, page2.Total)
		assert.Equal(t, 130.0, page2.Bids[0].Amount)
		assert.Equal(t, 120.0, page2.Bids[1].Amount)

		tail, err := env.bids.GetBidHistory(ctx, domain.BidHistoryRequest{AuctionID: auction.ID, Limit: 2, Offset: 4})
		require.NoError(t, err)
		require.Len(t, tail.Bids, 1)
		assert.Equal(t, 110.0, tail.Bids[0].Amount)

		past, err := env.bids.GetBidHistory(ctx, domain.BidHistoryRequest{AuctionID: auction.ID, Limit: 2, Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, past.Bids)
		assert.Equal(t, 5, past.Total)
	})

	t.Run("missing_auction_id", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.bids.GetBidHistory(ctx, domain.BidHistoryRequest{})
		require.ErrorIs(t, err, domain.ErrMissingField)
	})
}
