package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// UserIdentity is the identity a trusted client asserts through the
// x-user-data header: a JSON object carrying at least id and username.
// There is no signature on the header itself; signed sessions are
// layered on top by the session service.
type UserIdentity struct {
	ID       json.Number `json:"id"`
	Username string      `json:"username"`
}

// IDString returns the claimed id in the form trade ads store it.
func (u *UserIdentity) IDString() string {
	return u.ID.String()
}

// UnmarshalJSON accepts the id as either a JSON number or a string;
// both shapes exist in the wild.
func (u *UserIdentity) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       any    `json:"id"`
		Username string `json:"username"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	u.Username = raw.Username
	switch id := raw.ID.(type) {
	case nil:
		u.ID = ""
	case json.Number:
		u.ID = id
	case string:
		u.ID = json.Number(id)
	default:
		return fmt.Errorf("unsupported id type %T", raw.ID)
	}
	return nil
}

// Owns reports whether the identity matches a stored owner id. The
// stored value may be either the numeric id (stringified) or the
// username; both are accepted, which means a username that equals
// another user's numeric id would collide. That ambiguity is inherited
// from the wire contract and deliberately kept.
func (u *UserIdentity) Owns(storedUserID string) bool {
	return storedUserID == u.IDString() || storedUserID == u.Username
}

// UserSession is the server-issued, HMAC-signed counterpart of
// UserIdentity, set as a cookie on OAuth login.
type UserSession struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Identity converts a session to the identity shape the ownership
// checks run on.
func (s *UserSession) Identity() *UserIdentity {
	return &UserIdentity{
		ID:       json.Number(s.UserID),
		Username: s.Username,
	}
}

// CreateTradeAdRequest is the POST /api/trade-ads body. UserID is never
// read from the body; it always comes from the authenticated identity.
type CreateTradeAdRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	OfferingItems string `json:"offeringItems"`
	WantingItems  string `json:"wantingItems"`
}

type CreateChatMessageRequest struct {
	TradeAdID int64  `json:"tradeAdId"`
	Message   string `json:"message"`
}

type CreateVouchRequest struct {
	ToUserID string `json:"toUserId"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

type CreateTradingItemRequest struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Rarity        string `json:"rarity"`
	CurrentValue  int    `json:"currentValue"`
	PreviousValue int    `json:"previousValue"`
	ChangePercent string `json:"changePercent"`
	ImageURL      string `json:"imageUrl"`
	Tradeable     *bool  `json:"tradeable"`
}

// ValidationError is a single field failure reported back on 400s.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RobloxUser is the public user object returned from the OAuth
// callback, shaped for the frontend.
type RobloxUser struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	DisplayName     string `json:"displayName"`
	ProfileImageURL string `json:"profileImageUrl"`
}
