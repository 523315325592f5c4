package services

import (
	"errors"

	"gorm.io/gorm"

	"papertrade/internal/clock"
	apperrors "papertrade/internal/errors"
	"papertrade/internal/models"
)

// portfolioService handles portfolio lifecycle and valuation.
type portfolioService struct {
	db    *gorm.DB
	clock clock.Clock
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(db *gorm.DB, clk clock.Clock) PortfolioServicer {
	return &portfolioService{db: db, clock: clk}
}

// CreatePortfolio creates a portfolio with the given initial cash (defaulting
// to models.DefaultInitialCash) and any seed holdings, all in one transaction.
func (s *portfolioService) CreatePortfolio(userID uint, strategyID string, cash *float64, holdings []HoldingInput) (*models.Portfolio, error) {
	initialCash := models.DefaultInitialCash
	if cash != nil {
		if *cash < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "cash_remaining cannot be negative")
		}
		initialCash = *cash
	}

	seen := make(map[string]bool, len(holdings))
	for _, h := range holdings {
		if seen[h.Symbol] {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "duplicate holding symbol "+h.Symbol)
		}
		seen[h.Symbol] = true
	}

	portfolio := &models.Portfolio{
		UserID:        userID,
		StrategyID:    strategyID,
		CashRemaining: initialCash,
		CurrentTS:     s.clock.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Create(portfolio).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}

		for _, h := range holdings {
			holding := models.Holding{
				PortfolioID: portfolio.ID,
				Symbol:      h.Symbol,
				Quantity:    h.Quantity,
				Price:       h.Price,
			}
			if txErr := tx.Create(&holding).Error; txErr != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
			}
			portfolio.Holdings = append(portfolio.Holdings, holding)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if portfolio.Holdings == nil {
		portfolio.Holdings = []models.Holding{}
	}
	return portfolio, nil
}

// GetPortfolio retrieves a portfolio by ID for a specific user, holdings
// included.
func (s *portfolioService) GetPortfolio(userID uint, portfolioID string) (*models.Portfolio, error) {
	return getOwnedPortfolio(s.db, userID, portfolioID)
}

// DeletePortfolio deletes a portfolio and everything that hangs off it:
// holdings, trades, and trade batches. Returns the final snapshot.
func (s *portfolioService) DeletePortfolio(userID uint, portfolioID string) (*models.Portfolio, error) {
	portfolio, err := getOwnedPortfolio(s.db, userID, portfolioID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Explicit cascade, children first.
		if txErr := tx.Where("portfolio_id = ?", portfolio.ID).Delete(&models.Trade{}).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if txErr := tx.Where("portfolio_id = ?", portfolio.ID).Delete(&models.TradeBatch{}).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if txErr := tx.Where("portfolio_id = ?", portfolio.ID).Delete(&models.Holding{}).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		if txErr := tx.Delete(&models.Portfolio{}, "id = ?", portfolio.ID).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return portfolio, nil
}

// NetWorth values a portfolio as cash plus holdings at their stored prices.
// This is "as of last recorded price", not mark-to-market.
func (s *portfolioService) NetWorth(userID uint, portfolioID string) (float64, error) {
	portfolio, err := getOwnedPortfolio(s.db, userID, portfolioID)
	if err != nil {
		return 0, err
	}

	netWorth := portfolio.CashRemaining
	for _, h := range portfolio.Holdings {
		netWorth += float64(h.Quantity) * h.Price
	}
	return netWorth, nil
}

// Strategies returns the static strategy catalog.
func (s *portfolioService) Strategies() []Strategy {
	return []Strategy{
		{ID: "0", Name: "default"},
	}
}

// getOwnedPortfolio loads a portfolio with holdings, scoped to its owner.
func getOwnedPortfolio(db *gorm.DB, userID uint, portfolioID string) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	err := db.Preload("Holdings").
		Where("id = ? AND user_id = ?", portfolioID, userID).
		First(&portfolio).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if portfolio.Holdings == nil {
		portfolio.Holdings = []models.Holding{}
	}
	return &portfolio, nil
}
