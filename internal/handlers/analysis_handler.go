package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "papertrade/internal/errors"
	"papertrade/internal/services"
)

// AnalysisHandler serves historical return estimates.
type AnalysisHandler struct {
	analysisService services.AnalysisServicer
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService services.AnalysisServicer) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// StockReturn estimates the annualized return of one symbol between two dates.
func (h *AnalysisHandler) StockReturn(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	symbol := c.Query("symbol")
	if symbol == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required"))
		return
	}
	start, err := parseDateQuery(c, "start")
	if err != nil {
		respondWithError(c, err)
		return
	}
	end, err := parseDateQuery(c, "end")
	if err != nil {
		respondWithError(c, err)
		return
	}

	cagr, err := h.analysisService.EstimateStockReturn(symbol, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cagr_pct": cagr})
}

// PortfolioReturn estimates the annualized return of a portfolio's holdings
// between two dates.
func (h *AnalysisHandler) PortfolioReturn(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	portfolioID := c.Query("portfolio_id")
	if portfolioID == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "portfolio_id is required"))
		return
	}
	start, err := parseDateQuery(c, "start")
	if err != nil {
		respondWithError(c, err)
		return
	}
	end, err := parseDateQuery(c, "end")
	if err != nil {
		respondWithError(c, err)
		return
	}

	cagr, err := h.analysisService.EstimatePortfolioReturn(userID, portfolioID, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cagr_pct": cagr})
}
