package models

import "time"

// Base contains common columns for integer-keyed tables. Rows are hard
// deleted; portfolio deletion must leave no queryable orphans, so there are
// no soft-delete columns anywhere in the schema.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
