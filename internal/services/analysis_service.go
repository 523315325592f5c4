package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "papertrade/internal/errors"
	"papertrade/internal/marketdata"
	"papertrade/internal/returns"
)

// analysisService estimates historical returns from recorded close prices.
type analysisService struct {
	db     *gorm.DB
	market *marketdata.Store
}

// NewAnalysisService creates a new AnalysisServicer.
func NewAnalysisService(db *gorm.DB, market *marketdata.Store) AnalysisServicer {
	return &analysisService{db: db, market: market}
}

// EstimateStockReturn computes the CAGR (percent) of one symbol between the
// close prices on two exact calendar dates.
func (s *analysisService) EstimateStockReturn(symbol string, start, end time.Time) (float64, error) {
	startClose, err := s.closeOn(symbol, start)
	if err != nil {
		return 0, err
	}
	endClose, err := s.closeOn(symbol, end)
	if err != nil {
		return 0, err
	}

	return returns.CAGR(startClose, endClose, start, end), nil
}

// EstimatePortfolioReturn computes the CAGR (percent) of a portfolio's
// quantity-weighted value between two dates. Every holding must have a quote
// on both dates.
func (s *analysisService) EstimatePortfolioReturn(userID uint, portfolioID string, start, end time.Time) (float64, error) {
	portfolio, err := getOwnedPortfolio(s.db, userID, portfolioID)
	if err != nil {
		return 0, err
	}

	var totalStart, totalEnd float64
	for _, holding := range portfolio.Holdings {
		startClose, err := s.closeOn(holding.Symbol, start)
		if err != nil {
			return 0, err
		}
		endClose, err := s.closeOn(holding.Symbol, end)
		if err != nil {
			return 0, err
		}

		totalStart += float64(holding.Quantity) * startClose
		totalEnd += float64(holding.Quantity) * endClose
	}

	if totalStart == 0 {
		return 0, apperrors.ErrZeroBaseValue
	}

	return returns.CAGR(totalStart, totalEnd, start, end), nil
}

// closeOn returns the close price on an exact date. A date with no quote is
// an invalid range; an unknown symbol keeps its own error.
func (s *analysisService) closeOn(symbol string, day time.Time) (float64, error) {
	quote, err := s.market.Quote(symbol, day)
	if err != nil {
		if errors.Is(err, apperrors.ErrQuoteNotFound) {
			return 0, apperrors.ErrInvalidDateRange
		}
		return 0, err
	}
	return quote.Close, nil
}
