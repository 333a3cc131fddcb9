package models

import (
	"time"

	"github.com/uptrace/bun"
)

type TradeAdStatus string

const (
	TradeAdActive    TradeAdStatus = "active"
	TradeAdCompleted TradeAdStatus = "completed"
	TradeAdCancelled TradeAdStatus = "cancelled"
)

// TradeAd is a user-authored listing. OfferingItems and WantingItems are
// JSON-encoded arrays of item descriptors; the storage layer treats them
// as opaque strings.
type TradeAd struct {
	bun.BaseModel `bun:"table:trade_ads,alias:ta"`

	ID            int64         `bun:"id,pk,autoincrement" json:"id"`
	UserID        string        `bun:"user_id,notnull" json:"userId"`
	Title         string        `bun:"title,notnull" json:"title"`
	Description   string        `bun:"description" json:"description,omitempty"`
	OfferingItems string        `bun:"offering_items,notnull" json:"offeringItems"`
	WantingItems  string        `bun:"wanting_items,notnull" json:"wantingItems"`
	Status        TradeAdStatus `bun:"status,notnull,default:'active'" json:"status"`
	CreatedAt     time.Time     `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt     time.Time     `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`

	User *User `bun:"rel:belongs-to,join:user_id=id" json:"-"`
}

// TradeAdListing is a trade ad joined with its owner's public profile so
// list endpoints avoid a second round trip.
type TradeAdListing struct {
	TradeAd

	Username        string `bun:"username" json:"username,omitempty"`
	ProfileImageURL string `bun:"profile_image_url" json:"profileImageUrl,omitempty"`
}
