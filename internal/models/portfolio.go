package models

import (
	"time"

	"papertrade/internal/uuid"

	"gorm.io/gorm"
)

// DefaultInitialCash is the cash balance a new portfolio starts with when
// the request does not specify one.
const DefaultInitialCash = 1_000_000.0

// Portfolio holds a user's cash, holdings, and the logical "as-of" clock
// that only trades advance.
type Portfolio struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	StrategyID    string    `gorm:"not null" json:"strategy_id"`
	CashRemaining float64   `gorm:"not null" json:"cash_remaining"`
	CurrentTS     time.Time `gorm:"not null" json:"current_ts"`
	Version       int64     `gorm:"not null;default:0" json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Holdings []Holding `gorm:"foreignKey:PortfolioID" json:"holdings"`
}

// BeforeCreate hook generates a UUIDv7 for new portfolios.
func (p *Portfolio) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}

// Holding is a quantity of one symbol owned by a portfolio, with the price
// it was last recorded at. One row per (portfolio, symbol).
type Holding struct {
	Base
	PortfolioID string  `gorm:"type:uuid;not null;uniqueIndex:uq_holdings_portfolio_symbol" json:"-"`
	Symbol      string  `gorm:"not null;uniqueIndex:uq_holdings_portfolio_symbol" json:"symbol"`
	Quantity    int64   `gorm:"not null" json:"quantity"`
	Price       float64 `gorm:"not null" json:"price"`
}
