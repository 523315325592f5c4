package models

import "time"

// TradeType is the direction of a trade.
type TradeType string

const (
	TradeTypeBuy  TradeType = "BUY"
	TradeTypeSell TradeType = "SELL"
)

// Trade records one executed trade. Price is the recorded execution price,
// the open/close average of the execution day, not the price the caller
// requested.
type Trade struct {
	Base
	PortfolioID string    `gorm:"type:uuid;index;not null" json:"portfolio_id"`
	BatchID     uint      `gorm:"index;not null" json:"batch_id"`
	Symbol      string    `gorm:"not null" json:"symbol"`
	Price       float64   `gorm:"not null" json:"price"`
	Quantity    int64     `gorm:"not null" json:"quantity"`
	Type        TradeType `gorm:"not null" json:"type"`
	ExecutionTS time.Time `gorm:"not null" json:"execution_ts"`
}

// TradeBatch groups the trades created by one trading action.
type TradeBatch struct {
	Base
	PortfolioID string    `gorm:"type:uuid;index;not null" json:"portfolio_id"`
	Date        time.Time `gorm:"not null" json:"date"`

	Trades []Trade `gorm:"foreignKey:BatchID" json:"trades,omitempty"`
}
