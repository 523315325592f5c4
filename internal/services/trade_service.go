package services

import (
	"errors"

	"gorm.io/gorm"

	"papertrade/internal/clock"
	"papertrade/internal/dates"
	apperrors "papertrade/internal/errors"
	"papertrade/internal/marketdata"
	"papertrade/internal/models"
	"papertrade/internal/pagination"
)

// tradeService validates and applies trades against portfolios.
type tradeService struct {
	db     *gorm.DB
	market *marketdata.Store
	clock  clock.Clock
}

// NewTradeService creates a new TradeServicer.
func NewTradeService(db *gorm.DB, market *marketdata.Store, clk clock.Clock) TradeServicer {
	return &tradeService{db: db, market: market, clock: clk}
}

// ExecuteTrade validates one trade and applies it: cash, holding, trade
// record, batch record, and the portfolio clock all move in a single
// transaction, guarded by the portfolio's version column so concurrent
// trades cannot race on cash.
func (s *tradeService) ExecuteTrade(userID uint, req TradeRequest) (*models.Trade, error) {
	if req.Quantity <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be greater than zero")
	}
	if req.Type != models.TradeTypeBuy && req.Type != models.TradeTypeSell {
		return nil, apperrors.ErrInvalidTradeType
	}

	var trade *models.Trade
	err := s.db.Transaction(func(tx *gorm.DB) error {
		portfolio, txErr := getOwnedPortfolio(tx, userID, req.PortfolioID)
		if txErr != nil {
			return txErr
		}

		// Trades compare calendar days, never times of day.
		if dates.Before(req.ExecutionDate, portfolio.CurrentTS) {
			return apperrors.ErrStaleTrade
		}

		quote, txErr := s.market.Quote(req.Symbol, req.ExecutionDate)
		if txErr != nil {
			return txErr
		}

		// The recorded price is always the day's open/close average,
		// regardless of what the caller asked for.
		average := quote.Average()

		lo, hi := quote.Open, quote.Close
		if hi < lo {
			lo, hi = hi, lo
		}
		if req.Price < lo || req.Price > hi {
			return apperrors.ErrPriceOutOfRange
		}

		cost := average * float64(req.Quantity)
		newCash := portfolio.CashRemaining

		switch req.Type {
		case models.TradeTypeBuy:
			if portfolio.CashRemaining < cost {
				return apperrors.ErrInsufficientFunds
			}
			newCash -= cost
		case models.TradeTypeSell:
			held := heldQuantity(portfolio, req.Symbol)
			if held < req.Quantity {
				return apperrors.ErrInsufficientHoldings
			}
			newCash += cost
		}

		if txErr := applyHolding(tx, portfolio.ID, req, average); txErr != nil {
			return txErr
		}

		now := s.clock.Now()
		batch := &models.TradeBatch{
			PortfolioID: portfolio.ID,
			Date:        now,
		}
		if txErr := tx.Create(batch).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		trade = &models.Trade{
			PortfolioID: portfolio.ID,
			BatchID:     batch.ID,
			Symbol:      req.Symbol,
			Price:       average,
			Quantity:    req.Quantity,
			Type:        req.Type,
			ExecutionTS: dates.Day(req.ExecutionDate),
		}
		if txErr := tx.Create(trade).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		// Optimistic concurrency: the version read at the start must still be
		// current when cash and the clock are written.
		res := tx.Model(&models.Portfolio{}).
			Where("id = ? AND version = ?", portfolio.ID, portfolio.Version).
			Updates(map[string]interface{}{
				"cash_remaining": newCash,
				"current_ts":     now,
				"version":        portfolio.Version + 1,
			})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrTradeConflict
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return trade, nil
}

// GetPortfolioTrades returns a paginated trade history for a portfolio,
// newest first.
func (s *tradeService) GetPortfolioTrades(userID uint, portfolioID string, page pagination.PageRequest) (*pagination.PageResponse[models.Trade], error) {
	if _, err := getOwnedPortfolio(s.db, userID, portfolioID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.Trade{}).Where("portfolio_id = ?", portfolioID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var trades []models.Trade
	if err := base.Order("execution_ts DESC, id DESC").
		Scopes(pagination.Paginate(page)).Find(&trades).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(trades, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// heldQuantity returns the quantity of a symbol in the loaded holdings.
func heldQuantity(p *models.Portfolio, symbol string) int64 {
	for _, h := range p.Holdings {
		if h.Symbol == symbol {
			return h.Quantity
		}
	}
	return 0
}

// applyHolding upserts the (portfolio, symbol) holding row for a trade.
// Buys add to the position, sells subtract; the stored price becomes the
// recorded trade price. A position sold down to zero keeps its row.
func applyHolding(tx *gorm.DB, portfolioID string, req TradeRequest, average float64) error {
	delta := req.Quantity
	if req.Type == models.TradeTypeSell {
		delta = -req.Quantity
	}

	var holding models.Holding
	err := tx.Where("portfolio_id = ? AND symbol = ?", portfolioID, req.Symbol).First(&holding).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		holding = models.Holding{
			PortfolioID: portfolioID,
			Symbol:      req.Symbol,
			Quantity:    delta,
			Price:       average,
		}
		if txErr := tx.Create(&holding).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if txErr := tx.Model(&holding).Updates(map[string]interface{}{
		"quantity": holding.Quantity + delta,
		"price":    average,
	}).Error; txErr != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
	}
	return nil
}
