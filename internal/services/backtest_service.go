package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "papertrade/internal/errors"
	"papertrade/internal/marketdata"
	"papertrade/internal/models"
	"papertrade/internal/returns"
)

// lotSize is the fixed trade size of the canned backtest strategy.
const lotSize = 100

// backtestService simulates the single hard-coded strategy: buy a lot on
// down days, sell a lot on up days.
type backtestService struct {
	db     *gorm.DB
	market *marketdata.Store
}

// NewBacktestService creates a new BacktestServicer.
func NewBacktestService(db *gorm.DB, market *marketdata.Store) BacktestServicer {
	return &backtestService{db: db, market: market}
}

// Run replays the strategy over each holding's daily prices in the range.
// The simulation runs on copies of the holdings; persisted portfolio state
// is never mutated.
func (s *backtestService) Run(userID uint, portfolioID string, start, end time.Time, initialCapital float64) (*BacktestResult, error) {
	portfolio, err := getOwnedPortfolio(s.db, userID, portfolioID)
	if err != nil {
		return nil, err
	}
	if len(portfolio.Holdings) == 0 {
		return nil, apperrors.ErrNoHoldings
	}

	capital := initialCapital
	trades := []SimulatedTrade{}

	for _, holding := range portfolio.Holdings {
		quotes, err := s.market.Range(holding.Symbol, start, end)
		if err != nil {
			// Holdings without price data in the range are skipped,
			// not fatal.
			if errors.Is(err, apperrors.ErrStockDataNotFound) || errors.Is(err, apperrors.ErrQuoteNotFound) {
				continue
			}
			return nil, err
		}

		position := holding.Quantity
		for _, q := range quotes {
			if capital <= 0 {
				break
			}

			switch {
			case q.Close < q.Open:
				cost := lotSize * q.Close
				if capital >= cost {
					capital -= cost
					position += lotSize
					trades = append(trades, SimulatedTrade{
						Symbol:        holding.Symbol,
						Price:         q.Close,
						Quantity:      lotSize,
						Type:          models.TradeTypeBuy,
						ExecutionDate: q.Date,
					})
				}
			case q.Close > q.Open && position >= lotSize:
				capital += lotSize * q.Close
				position -= lotSize
				trades = append(trades, SimulatedTrade{
					Symbol:        holding.Symbol,
					Price:         q.Close,
					Quantity:      lotSize,
					Type:          models.TradeTypeSell,
					ExecutionDate: q.Date,
				})
			}
		}
	}

	return &BacktestResult{
		StartDate:        start,
		EndDate:          end,
		InitialCapital:   initialCapital,
		FinalCapital:     capital,
		ProfitLoss:       capital - initialCapital,
		AnnualizedReturn: returns.CAGR(initialCapital, capital, start, end),
		Trades:           trades,
	}, nil
}
