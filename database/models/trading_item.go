package models

import (
	"time"

	"github.com/uptrace/bun"
)

// TradingItem is a catalog entry whose value fluctuates over time.
// Catalog data normally lives in MongoDB; the bun tags exist so the same
// struct can be persisted relationally when the document store is down.
type TradingItem struct {
	bun.BaseModel `bun:"table:trading_items,alias:ti"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id" bson:"_id"`
	Name          string    `bun:"name,notnull" json:"name" bson:"name"`
	Type          string    `bun:"type,notnull" json:"type" bson:"type"`
	Rarity        string    `bun:"rarity,notnull" json:"rarity" bson:"rarity"`
	CurrentValue  int       `bun:"current_value,notnull" json:"currentValue" bson:"currentValue"`
	PreviousValue int       `bun:"previous_value" json:"previousValue" bson:"previousValue"`
	ChangePercent string    `bun:"change_percent" json:"changePercent" bson:"changePercent"`
	ImageURL      string    `bun:"image_url" json:"imageUrl" bson:"imageUrl"`
	Tradeable     bool      `bun:"tradeable,notnull,default:true" json:"tradeable" bson:"tradeable"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt" bson:"updatedAt"`
}
