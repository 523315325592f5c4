package services

import (
	"time"

	"papertrade/internal/models"
	"papertrade/internal/pagination"
)

// UserServicer defines the contract for user registration and login checks.
type UserServicer interface {
	Register(email, firstName, lastName, password string) (*models.User, error)
	VerifyCredentials(email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
}

// HoldingInput describes one holding supplied at portfolio creation.
type HoldingInput struct {
	Symbol   string
	Quantity int64
	Price    float64
}

// Strategy is one entry of the static strategy catalog.
type Strategy struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PortfolioServicer defines the contract for portfolio lifecycle operations.
// Every lookup is ownership-scoped: a portfolio belonging to another user is
// indistinguishable from one that does not exist.
type PortfolioServicer interface {
	CreatePortfolio(userID uint, strategyID string, cash *float64, holdings []HoldingInput) (*models.Portfolio, error)
	GetPortfolio(userID uint, portfolioID string) (*models.Portfolio, error)
	DeletePortfolio(userID uint, portfolioID string) (*models.Portfolio, error)
	NetWorth(userID uint, portfolioID string) (float64, error)
	Strategies() []Strategy
}

// TradeRequest carries the caller's side of one trade.
type TradeRequest struct {
	PortfolioID   string
	Symbol        string
	Price         float64
	Quantity      int64
	Type          models.TradeType
	ExecutionDate time.Time
}

// TradeServicer validates and applies trades against a portfolio.
type TradeServicer interface {
	ExecuteTrade(userID uint, req TradeRequest) (*models.Trade, error)
	GetPortfolioTrades(userID uint, portfolioID string, page pagination.PageRequest) (*pagination.PageResponse[models.Trade], error)
}

// SimulatedTrade is one trade produced by a backtest run. Nothing is persisted.
type SimulatedTrade struct {
	Symbol        string           `json:"symbol"`
	Price         float64          `json:"price"`
	Quantity      int64            `json:"quantity"`
	Type          models.TradeType `json:"type"`
	ExecutionDate time.Time        `json:"execution_ts"`
}

// BacktestResult summarizes a backtest run over a date range.
type BacktestResult struct {
	StartDate        time.Time        `json:"start_date"`
	EndDate          time.Time        `json:"end_date"`
	InitialCapital   float64          `json:"initial_capital"`
	FinalCapital     float64          `json:"final_capital"`
	ProfitLoss       float64          `json:"profit_loss"`
	AnnualizedReturn float64          `json:"annualized_return"`
	Trades           []SimulatedTrade `json:"trades"`
}

// BacktestServicer simulates the canned buy-low/sell-high strategy over a
// portfolio's holdings.
type BacktestServicer interface {
	Run(userID uint, portfolioID string, start, end time.Time, initialCapital float64) (*BacktestResult, error)
}

// AnalysisServicer estimates historical returns from recorded prices.
type AnalysisServicer interface {
	EstimateStockReturn(symbol string, start, end time.Time) (float64, error)
	EstimatePortfolioReturn(userID uint, portfolioID string, start, end time.Time) (float64, error)
}
