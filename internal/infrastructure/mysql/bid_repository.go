package mysql

import (
	"context"
	"database/sql"
	"errors"

	"auction-engine/internal/domain"
)

type MySQLBidRepository struct {
	db *sql.DB
}

func NewMySQLBidRepository(db *sql.DB) *MySQLBidRepository {
	return &MySQLBidRepository{db: db}
}

// PlaceBid runs the race-safe bid protocol in one transaction:
//
//  1. conditional update on the auction row, guarded by
//     status = active AND current_price < amount;
//  2. zero rows affected means the guard rejected the bid, and a read
//     inside the same transaction decides which error applies;
//  3. one row affected means the bid is inserted into the ledger and the
//     updated auction row is read back before commit.
//
// The guard plus MySQL's row locking serializes concurrent bids on the same
// auction: the loser re-evaluates the guard against the committed, higher
// current_price and fails. No application-level locking is involved, so the
// protocol holds across concurrent service instances.
func (r *MySQLBidRepository) PlaceBid(ctx context.Context, bid *domain.Bid) (*domain.Auction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	updateQuery := `
        UPDATE auctions
        SET current_price = ?, bid_count = bid_count + 1, updated_at = ?
        WHERE id = ? AND status = ? AND current_price < ?
    `
	res, err := tx.ExecContext(ctx, updateQuery,
		bid.Amount, bid.CreatedAt, bid.AuctionID, int(domain.AuctionActive), bid.Amount)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, r.classifyRejection(ctx, tx, bid.AuctionID)
	}

	insertQuery := `
        INSERT INTO bids (id, auction_id, bidder_id, amount, created_at)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err = tx.ExecContext(ctx, insertQuery,
		bid.ID, bid.AuctionID, bid.BidderID, bid.Amount, bid.CreatedAt)
	if err != nil {
		return nil, err
	}

	auction, err := scanAuction(tx.QueryRowContext(ctx,
		`SELECT `+auctionColumns+` FROM auctions WHERE id = ?`, bid.AuctionID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return auction, nil
}

// classifyRejection runs after the conditional update touched no rows. It
// reads the auction inside the same transaction to tell a missing or
// inactive auction apart from a bid at or below the current price.
func (r *MySQLBidRepository) classifyRejection(ctx context.Context, tx *sql.Tx, auctionID string) error {
	var status int
	err := tx.QueryRowContext(ctx,
		`SELECT status FROM auctions WHERE id = ?`, auctionID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrAuctionNotActive
	}
	if err != nil {
		return err
	}
	if domain.AuctionStatus(status) != domain.AuctionActive {
		return domain.ErrAuctionNotActive
	}
	return domain.ErrBidTooLow
}

func (r *MySQLBidRepository) GetBidHistory(ctx context.Context, auctionID string, limit, offset int) ([]*domain.Bid, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bids WHERE auction_id = ?`, auctionID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	// Amounts are strictly increasing within an auction, so ordering by
	// amount descending is most-recent-first and fully deterministic.
	query := `
        SELECT id, auction_id, bidder_id, amount, created_at
        FROM bids
        WHERE auction_id = ?
        ORDER BY amount DESC
        LIMIT ? OFFSET ?
    `
	rows, err := r.db.QueryContext(ctx, query, auctionID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		var bid domain.Bid
		err := rows.Scan(&bid.ID, &bid.AuctionID, &bid.BidderID, &bid.Amount, &bid.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		bids = append(bids, &bid)
	}

	return bids, total, rows.Err()
}
