package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"auction-engine/internal/domain"

	_ "github.com/go-sql-driver/mysql"
)

const auctionColumns = `id, seller_id, title, description, start_price, reserve_price,
        current_price, bid_count, status, start_time, end_time, created_at, updated_at`

type MySQLAuctionRepository struct {
	db *sql.DB
}

func NewMySQLAuctionRepository(db *sql.DB) *MySQLAuctionRepository {
	return &MySQLAuctionRepository{db: db}
}

func (r *MySQLAuctionRepository) CreateAuction(ctx context.Context, auction *domain.Auction) error {
	query := `
        INSERT INTO auctions (` + auctionColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		auction.ID, auction.SellerID, auction.Title, nullString(auction.Description),
		auction.StartPrice, nullFloat(auction.ReservePrice),
		auction.CurrentPrice, auction.BidCount, int(auction.Status),
		auction.StartTime, auction.EndTime, auction.CreatedAt, auction.UpdatedAt)
	return err
}

func (r *MySQLAuctionRepository) GetAuction(ctx context.Context, auctionID string) (*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id = ?`

	auction, err := scanAuction(r.db.QueryRowContext(ctx, query, auctionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAuctionNotFound
	}
	if err != nil {
		return nil, err
	}
	return auction, nil
}

func (r *MySQLAuctionRepository) UpdateAuctionStatus(ctx context.Context, auctionID string, status domain.AuctionStatus, updatedAt time.Time) error {
	query := `UPDATE auctions SET status = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, int(status), updatedAt, auctionID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrAuctionNotFound
	}
	return nil
}

func (r *MySQLAuctionRepository) ListAuctions(ctx context.Context, filter domain.ListAuctionsFilter) ([]*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions`

	var conds []string
	var args []interface{}
	if filter.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, int(*filter.Status))
	}
	if filter.SellerID != "" {
		conds = append(conds, "seller_id = ?")
		args = append(args, filter.SellerID)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var auctions []*domain.Auction
	for rows.Next() {
		auction, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		auctions = append(auctions, auction)
	}

	return auctions, rows.Err()
}

func (r *MySQLAuctionRepository) GetAuctionsByIDs(ctx context.Context, ids []string) (map[string]*domain.Auction, error) {
	result := make(map[string]*domain.Auction, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.Repeat("?, ", len(ids)-1) + "?"
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id IN (` + placeholders + `)`

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		auction, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		result[auction.ID] = auction
	}

	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAuction(row rowScanner) (*domain.Auction, error) {
	var auction domain.Auction
	var status int
	var description sql.NullString
	var reservePrice sql.NullFloat64

	err := row.Scan(
		&auction.ID, &auction.SellerID, &auction.Title, &description,
		&auction.StartPrice, &reservePrice,
		&auction.CurrentPrice, &auction.BidCount, &status,
		&auction.StartTime, &auction.EndTime, &auction.CreatedAt, &auction.UpdatedAt)
	if err != nil {
		return nil, err
	}

	auction.Status = domain.AuctionStatus(status)
	auction.Description = description.String
	if reservePrice.Valid {
		auction.ReservePrice = &reservePrice.Float64
	}
	return &auction, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
