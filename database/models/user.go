package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User holds an identity created from a Roblox OAuth login. The primary
// key is the provider's user id stored as a string.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID              string    `bun:"id,pk" json:"id"`
	Email           string    `bun:"email,unique,nullzero" json:"email,omitempty"`
	FirstName       string    `bun:"first_name,nullzero" json:"firstName,omitempty"`
	LastName        string    `bun:"last_name,nullzero" json:"lastName,omitempty"`
	Username        string    `bun:"username,notnull,unique" json:"username"`
	ProfileImageURL string    `bun:"profile_image_url,nullzero" json:"profileImageUrl,omitempty"`
	Reputation      int       `bun:"reputation,notnull,default:0" json:"reputation"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt       time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}
