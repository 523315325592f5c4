package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"papertrade/internal/dates"
	apperrors "papertrade/internal/errors"
	"papertrade/internal/services"
)

// BacktestHandler runs strategy simulations.
type BacktestHandler struct {
	backtestService services.BacktestServicer
}

// NewBacktestHandler creates a new BacktestHandler.
func NewBacktestHandler(backtestService services.BacktestServicer) *BacktestHandler {
	return &BacktestHandler{backtestService: backtestService}
}

// BacktestRequest represents the request payload for a backtest run.
type BacktestRequest struct {
	PortfolioID    string  `json:"portfolio_id" binding:"required"`
	StartDate      string  `json:"start_date" binding:"required,datestr"`
	EndDate        string  `json:"end_date" binding:"required,datestr"`
	InitialCapital float64 `json:"initial_capital" binding:"required,gt=0"`
}

// Run simulates the strategy over the portfolio's holdings.
func (h *BacktestHandler) Run(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	start, _ := dates.Parse(req.StartDate)
	end, _ := dates.Parse(req.EndDate)
	if end.Before(start) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "end_date must not precede start_date"))
		return
	}

	result, err := h.backtestService.Run(userID, req.PortfolioID, start, end, req.InitialCapital)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
