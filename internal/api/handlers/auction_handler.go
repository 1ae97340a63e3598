package handlers

import (
	"net/http"
	"strconv"
	"time"

	"auction-engine/internal/domain"
	"auction-engine/internal/services"
	"auction-engine/pkg/logger"

	"github.com/labstack/echo/v4"
)

// maxListLimit caps page sizes requested over HTTP.
const maxListLimit = 100

// AuctionHandler translates wire requests into engine calls and engine
// errors into status codes. It carries no business rules.
type AuctionHandler struct {
	auctionService *services.AuctionService
	bidService     *services.BidService
	log            logger.Logger
}

func NewAuctionHandler(auctionService *services.AuctionService, bidService *services.BidService, log logger.Logger) *AuctionHandler {
	return &AuctionHandler{
		auctionService: auctionService,
		bidService:     bidService,
		log:            log,
	}
}

func (h *AuctionHandler) Register(g *echo.Group) {
	g.POST("/auctions", h.CreateAuction)
	g.GET("/auctions", h.ListAuctions)
	g.POST("/auctions/batch", h.GetAuctionsByIDs)
	g.GET("/auctions/:id", h.GetAuction)
	g.POST("/auctions/:id/activate", h.ActivateAuction)
	g.POST("/auctions/:id/bids", h.PlaceBid)
	g.GET("/auctions/:id/bids", h.GetBidHistory)
}

type CreateAuctionRequest struct {
	SellerID     string    `json:"seller_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	StartPrice   float64   `json:"start_price"`
	ReservePrice *float64  `json:"reserve_price,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
}

type PlaceBidBody struct {
	BidderID string  `json:"bidder_id"`
	Amount   float64 `json:"amount"`
}

type BatchLookupRequest struct {
	IDs []string `json:"ids"`
}

type AuctionResponse struct {
	ID           string    `json:"id"`
	SellerID     string    `json:"seller_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	StartPrice   float64   `json:"start_price"`
	ReservePrice *float64  `json:"reserve_price,omitempty"`
	CurrentPrice float64   `json:"current_price"`
	BidCount     int       `json:"bid_count"`
	Status       string    `json:"status"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type BidResponse struct {
	ID        string    `json:"id"`
	AuctionID string    `json:"auction_id"`
	BidderID  string    `json:"bidder_id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

type PlaceBidResponse struct {
	Bid     BidResponse     `json:"bid"`
	Auction AuctionResponse `json:"auction"`
}

type BidHistoryResponse struct {
	Bids  []BidResponse `json:"bids"`
	Total int           `json:"total"`
}

func (h *AuctionHandler) CreateAuction(c echo.Context) error {
	var req CreateAuctionRequest
	if err := c.Bind(&req); err != nil {
		h.log.Error("Failed to bind request", "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	auction, err := h.auctionService.CreateAuction(c.Request().Context(), req.SellerID, domain.CreateAuctionRequest{
		Title:        req.Title,
		Description:  req.Description,
		StartPrice:   req.StartPrice,
		ReservePrice: req.ReservePrice,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
	})
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, toAuctionResponse(auction))
}

func (h *AuctionHandler) ActivateAuction(c echo.Context) error {
	auction, err := h.auctionService.ActivateAuction(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toAuctionResponse(auction))
}

func (h *AuctionHandler) GetAuction(c echo.Context) error {
	auction, err := h.auctionService.GetAuction(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, toAuctionResponse(auction))
}

func (h *AuctionHandler) ListAuctions(c echo.Context) error {
	filter := domain.ListAuctionsFilter{
		SellerID: c.QueryParam("seller_id"),
		Limit:    clampLimit(intParam(c, "limit", 0)),
	}
	if statusParam := c.QueryParam("status"); statusParam != "" {
		status, ok := domain.ParseAuctionStatus(statusParam)
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown status"})
		}
		filter.Status = &status
	}

	auctions, err := h.auctionService.ListAuctions(c.Request().Context(), filter)
	if err != nil {
		return h.writeError(c, err)
	}

	responses := make([]AuctionResponse, 0, len(auctions))
	for _, auction := range auctions {
		responses = append(responses, toAuctionResponse(auction))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"auctions": responses})
}

func (h *AuctionHandler) GetAuctionsByIDs(c echo.Context) error {
	var req BatchLookupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	auctions, err := h.auctionService.GetAuctionsByIDs(c.Request().Context(), req.IDs)
	if err != nil {
		return h.writeError(c, err)
	}

	responses := make(map[string]AuctionResponse, len(auctions))
	for id, auction := range auctions {
		responses[id] = toAuctionResponse(auction)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"auctions": responses})
}

func (h *AuctionHandler) PlaceBid(c echo.Context) error {
	var body PlaceBidBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	result, err := h.bidService.PlaceBid(c.Request().Context(), body.BidderID, domain.PlaceBidRequest{
		AuctionID: c.Param("id"),
		Amount:    body.Amount,
	})
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, PlaceBidResponse{
		Bid:     toBidResponse(result.Bid),
		Auction: toAuctionResponse(result.Auction),
	})
}

func (h *AuctionHandler) GetBidHistory(c echo.Context) error {
	history, err := h.bidService.GetBidHistory(c.Request().Context(), domain.BidHistoryRequest{
		AuctionID: c.Param("id"),
		Limit:     clampLimit(intParam(c, "limit", 0)),
		Offset:    intParam(c, "offset", 0),
	})
	if err != nil {
		return h.writeError(c, err)
	}

	bids := make([]BidResponse, 0, len(history.Bids))
	for _, bid := range history.Bids {
		bids = append(bids, toBidResponse(bid))
	}
	return c.JSON(http.StatusOK, BidHistoryResponse{Bids: bids, Total: history.Total})
}

// writeError maps the engine's error taxonomy onto status codes. Anything
// unclassified is an infrastructure failure and surfaces as a 500.
func (h *AuctionHandler) writeError(c echo.Context, err error) error {
	switch {
	case domain.IsValidation(err):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case domain.IsNotFound(err):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case domain.IsConflict(err):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		h.log.Error("Request failed", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}

func toAuctionResponse(a *domain.Auction) AuctionResponse {
	return AuctionResponse{
		ID:           a.ID,
		SellerID:     a.SellerID,
		Title:        a.Title,
		Description:  a.Description,
		StartPrice:   a.StartPrice,
		ReservePrice: a.ReservePrice,
		CurrentPrice: a.CurrentPrice,
		BidCount:     a.BidCount,
		Status:       a.Status.String(),
		StartTime:    a.StartTime,
		EndTime:      a.EndTime,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func toBidResponse(b *domain.Bid) BidResponse {
	return BidResponse{
		ID:        b.ID,
		AuctionID: b.AuctionID,
		BidderID:  b.BidderID,
		Amount:    b.Amount,
		CreatedAt: b.CreatedAt,
	}
}

func intParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func clampLimit(limit int) int {
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
