package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ChatMessage belongs to exactly one trade ad and one user. Append-only.
type ChatMessage struct {
	bun.BaseModel `bun:"table:chat_messages,alias:cm"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID    string    `bun:"user_id,notnull" json:"userId"`
	TradeAdID int64     `bun:"trade_ad_id,notnull" json:"tradeAdId"`
	Message   string    `bun:"message,notnull" json:"message"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`

	User    *User    `bun:"rel:belongs-to,join:user_id=id" json:"-"`
	TradeAd *TradeAd `bun:"rel:belongs-to,join:trade_ad_id=id" json:"-"`
}
