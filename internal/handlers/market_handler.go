package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"papertrade/internal/dates"
	apperrors "papertrade/internal/errors"
	"papertrade/internal/marketdata"
	"papertrade/internal/models"
	"papertrade/internal/services"
)

// MarketHandler serves price lookups and trade execution.
type MarketHandler struct {
	market       *marketdata.Store
	tradeService services.TradeServicer
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(market *marketdata.Store, tradeService services.TradeServicer) *MarketHandler {
	return &MarketHandler{market: market, tradeService: tradeService}
}

// TickRequest represents the request payload for a single-day price lookup.
type TickRequest struct {
	Symbol string `json:"symbol" binding:"required,symbol"`
	Date   string `json:"date" binding:"required,datestr"`
}

// RangeRequest represents the request payload for a date-range price lookup.
type RangeRequest struct {
	Symbol string `json:"symbol" binding:"required,symbol"`
	From   string `json:"from" binding:"required,datestr"`
	To     string `json:"to" binding:"required,datestr"`
}

// TradeRequest represents the request payload for executing a trade.
type TradeRequest struct {
	PortfolioID   string  `json:"portfolio_id" binding:"required"`
	Symbol        string  `json:"symbol" binding:"required,symbol"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	Quantity      int64   `json:"quantity" binding:"required,gt=0"`
	Type          string  `json:"type" binding:"required,trade_type"`
	ExecutionDate string  `json:"execution_date" binding:"required,datestr"`
}

// TickResponse is one day's price for a symbol.
type TickResponse struct {
	Symbol string  `json:"symbol"`
	Date   string  `json:"date"`
	Price  float64 `json:"price"`
}

// Tick returns the open/close average price for a symbol on one day.
func (h *MarketHandler) Tick(c *gin.Context) {
	var req TickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	day, _ := dates.Parse(req.Date)
	quote, err := h.market.Quote(req.Symbol, day)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TickResponse{
		Symbol: req.Symbol,
		Date:   dates.Format(quote.Date),
		Price:  quote.Average(),
	})
}

// RangeData returns average prices for every trading day in a range,
// ascending.
func (h *MarketHandler) RangeData(c *gin.Context) {
	var req RangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	from, _ := dates.Parse(req.From)
	to, _ := dates.Parse(req.To)
	quotes, err := h.market.Range(req.Symbol, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ticks := make([]TickResponse, 0, len(quotes))
	for _, q := range quotes {
		ticks = append(ticks, TickResponse{
			Symbol: req.Symbol,
			Date:   dates.Format(q.Date),
			Price:  q.Average(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"ticks": ticks})
}

// Trade executes one trade against a portfolio.
func (h *MarketHandler) Trade(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	executionDate, _ := dates.Parse(req.ExecutionDate)
	trade, err := h.tradeService.ExecuteTrade(userID, services.TradeRequest{
		PortfolioID:   req.PortfolioID,
		Symbol:        req.Symbol,
		Price:         req.Price,
		Quantity:      req.Quantity,
		Type:          models.TradeType(req.Type),
		ExecutionDate: executionDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"trade": trade})
}
