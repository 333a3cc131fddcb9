package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Vouch is a 1-5 rating left by one trader for another. Append-only; no
// edit or delete path is exposed.
type Vouch struct {
	bun.BaseModel `bun:"table:vouches,alias:v"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	FromUserID string    `bun:"from_user_id,notnull" json:"fromUserId"`
	ToUserID   string    `bun:"to_user_id,notnull" json:"toUserId"`
	Rating     int       `bun:"rating,notnull" json:"rating"`
	Comment    string    `bun:"comment" json:"comment,omitempty"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`

	FromUser *User `bun:"rel:belongs-to,join:from_user_id=id" json:"-"`
	ToUser   *User `bun:"rel:belongs-to,join:to_user_id=id" json:"-"`
}
