package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "papertrade/internal/errors"
	"papertrade/internal/pagination"
	"papertrade/internal/services"
)

// PortfolioHandler handles portfolio lifecycle requests.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
	tradeService     services.TradeServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer, tradeService services.TradeServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService, tradeService: tradeService}
}

// HoldingRequest represents one holding supplied at portfolio creation.
type HoldingRequest struct {
	Symbol   string  `json:"symbol" binding:"required,symbol"`
	Quantity int64   `json:"quantity" binding:"required,gt=0"`
	Price    float64 `json:"price" binding:"required,gt=0"`
}

// CreatePortfolioRequest represents the request payload for creating a portfolio.
type CreatePortfolioRequest struct {
	StrategyID    string           `json:"strategy_id" binding:"required"`
	CashRemaining *float64         `json:"cash_remaining" binding:"omitempty,gte=0"`
	Holdings      []HoldingRequest `json:"holdings" binding:"omitempty,dive"`
}

// Create handles portfolio creation.
func (h *PortfolioHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	holdings := make([]services.HoldingInput, 0, len(req.Holdings))
	for _, hr := range req.Holdings {
		holdings = append(holdings, services.HoldingInput{
			Symbol:   hr.Symbol,
			Quantity: hr.Quantity,
			Price:    hr.Price,
		})
	}

	portfolio, err := h.portfolioService.CreatePortfolio(userID, req.StrategyID, req.CashRemaining, holdings)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"portfolio": portfolio})
}

// Get returns a single portfolio with its holdings.
func (h *PortfolioHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	portfolio, err := h.portfolioService.GetPortfolio(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"portfolio": portfolio})
}

// Delete removes a portfolio and all dependent records, returning the final
// snapshot.
func (h *PortfolioHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	portfolio, err := h.portfolioService.DeletePortfolio(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"portfolio": portfolio})
}

// NetWorth returns cash plus holdings valued at their stored prices.
func (h *PortfolioHandler) NetWorth(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	netWorth, err := h.portfolioService.NetWorth(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"net_worth": netWorth})
}

// Strategies returns the static strategy catalog.
func (h *PortfolioHandler) Strategies(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"strategies": h.portfolioService.Strategies()})
}

// ListTrades returns the paginated trade history of a portfolio.
func (h *PortfolioHandler) ListTrades(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.tradeService.GetPortfolioTrades(userID, c.Param("id"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
