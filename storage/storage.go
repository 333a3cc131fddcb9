// Package storage defines the two storage contracts behind the API and
// the backends that satisfy them: Postgres for users, trade ads, chat
// and vouches, MongoDB for the item catalog, and an in-memory store
// that stands in for either side when its database is unreachable at
// startup.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahilm/fuzzy"

	"github.com/gardenexchange/backend/database/models"
	"github.com/gardenexchange/backend/database/repositories"
)

// IsNotFound reports whether err means a missing record, whichever
// backend produced it.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	if errors.As(err, &nfe) {
		return true
	}
	return repositories.IsNotFound(err)
}

// BackendKind identifies what actually serves a data family.
type BackendKind string

const (
	BackendPostgres BackendKind = "postgresql"
	BackendMongo    BackendKind = "mongodb"
	BackendMemory   BackendKind = "memory"
)

// TradeStore backs users, trade ads, chat messages and vouches.
type TradeStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpsertUser(ctx context.Context, user *models.User) (*models.User, error)

	GetAllTradeAds(ctx context.Context) ([]models.TradeAdListing, error)
	GetTradeAdsPage(ctx context.Context, page, limit int) ([]models.TradeAdListing, error)
	GetTradeAd(ctx context.Context, id int64) (*models.TradeAd, error)
	GetTradeAdsByOwner(ctx context.Context, userID, username string) ([]models.TradeAdListing, error)
	CreateTradeAd(ctx context.Context, ad *models.TradeAd) error
	CreateTradeAds(ctx context.Context, ads []*models.TradeAd) error
	UpdateTradeAdStatus(ctx context.Context, id int64, status models.TradeAdStatus) (*models.TradeAd, error)

	GetChatMessagesByTradeAd(ctx context.Context, tradeAdID int64) ([]models.ChatMessage, error)
	CreateChatMessage(ctx context.Context, message *models.ChatMessage) error

	GetVouchesByUser(ctx context.Context, toUserID string) ([]models.Vouch, error)
	CreateVouch(ctx context.Context, vouch *models.Vouch) error

	TradeStats(ctx context.Context) (*TradeStats, error)
}

// CatalogStore backs the trading item catalog.
type CatalogStore interface {
	GetAllTradingItems(ctx context.Context) ([]models.TradingItem, error)
	GetTradingItem(ctx context.Context, id int64) (*models.TradingItem, error)
	CreateTradingItem(ctx context.Context, item *models.TradingItem) error
	UpdateTradingItemValue(ctx context.Context, id int64, newValue int) (*models.TradingItem, error)
	SearchTradingItems(ctx context.Context, query string, limit int) ([]models.TradingItem, error)

	CatalogStats(ctx context.Context) (*CatalogStats, error)
	CurrentWeather(ctx context.Context) (*Weather, error)
}

type TradeStats struct {
	TotalUsers     int64 `json:"totalUsers"`
	ActiveTradeAds int64 `json:"activeTradeAds"`
}

type CatalogStats struct {
	TotalItems int64 `json:"totalTradingItems"`
}

type Weather struct {
	Current string `json:"current"`
	Effect  string `json:"effect"`
	Icon    string `json:"icon"`
}

// changePercent formats the relative move from old to new value the
// way the frontend displays it, e.g. "+12.5%" or "-3.0%".
func changePercent(oldValue, newValue int) string {
	if oldValue == 0 {
		return "0%"
	}
	pct := (float64(newValue) - float64(oldValue)) / float64(oldValue) * 100
	if pct >= 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

type itemNames []models.TradingItem

func (n itemNames) String(i int) string { return n[i].Name }
func (n itemNames) Len() int            { return len(n) }

// rankItems orders items by fuzzy match quality against query. Items
// that do not match at all are dropped.
func rankItems(items []models.TradingItem, query string, limit int) []models.TradingItem {
	matches := fuzzy.FindFrom(query, itemNames(items))

	if limit <= 0 || limit > len(matches) {
		limit = len(matches)
	}

	ranked := make([]models.TradingItem, 0, limit)
	for _, m := range matches[:limit] {
		ranked = append(ranked, items[m.Index])
	}
	return ranked
}
