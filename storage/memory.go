package storage

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gardenexchange/backend/database/models"
	"github.com/gardenexchange/backend/database/repositories"
)

// ActiveAdsCap mirrors the relational adapter's listing cap so both
// backends honor the same contract.
const ActiveAdsCap = repositories.ActiveAdsCap

// MemoryStore is the map-backed fallback for both storage contracts.
// A single incrementing id is shared across all entity types, matching
// the behavior callers observe from the real backends' serial columns
// closely enough for a degraded mode. Nothing survives a restart and
// each process has its own maps.
type MemoryStore struct {
	mu sync.RWMutex

	users        map[string]models.User
	tradingItems map[int64]models.TradingItem
	tradeAds     map[int64]models.TradeAd
	chatMessages map[int64]models.ChatMessage
	vouches      map[int64]models.Vouch
	nextID       int64
}

// NewMemoryStore returns an empty store. Seed data is intentionally
// disabled; a fallback catalog serves zero items.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]models.User),
		tradingItems: make(map[int64]models.TradingItem),
		tradeAds:     make(map[int64]models.TradeAd),
		chatMessages: make(map[int64]models.ChatMessage),
		vouches:      make(map[int64]models.Vouch),
		nextID:       1,
	}
}

var (
	_ TradeStore   = (*MemoryStore)(nil)
	_ CatalogStore = (*MemoryStore)(nil)
)

func (s *MemoryStore) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// User operations

func (s *MemoryStore) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, &NotFoundError{Entity: "user", ID: id}
	}
	return &user, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, &NotFoundError{Entity: "user", ID: username}
}

func (s *MemoryStore) UpsertUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if existing, ok := s.users[user.ID]; ok {
		user.CreatedAt = existing.CreatedAt
		user.Reputation = existing.Reputation
	} else {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return user, nil
}

// Trade ad operations

func (s *MemoryStore) activeAdsSorted() []models.TradeAd {
	ads := make([]models.TradeAd, 0, len(s.tradeAds))
	for _, ad := range s.tradeAds {
		if ad.Status == models.TradeAdActive {
			ads = append(ads, ad)
		}
	}
	sort.Slice(ads, func(i, j int) bool {
		if ads[i].CreatedAt.Equal(ads[j].CreatedAt) {
			return ads[i].ID > ads[j].ID
		}
		return ads[i].CreatedAt.After(ads[j].CreatedAt)
	})
	return ads
}

func (s *MemoryStore) toListing(ad models.TradeAd) models.TradeAdListing {
	listing := models.TradeAdListing{TradeAd: ad}
	if user, ok := s.users[ad.UserID]; ok {
		listing.Username = user.Username
		listing.ProfileImageURL = user.ProfileImageURL
	}
	return listing
}

func (s *MemoryStore) GetAllTradeAds(_ context.Context) ([]models.TradeAdListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ads := s.activeAdsSorted()
	if len(ads) > ActiveAdsCap {
		ads = ads[:ActiveAdsCap]
	}

	listings := make([]models.TradeAdListing, 0, len(ads))
	for _, ad := range ads {
		listings = append(listings, s.toListing(ad))
	}
	return listings, nil
}

func (s *MemoryStore) GetTradeAdsPage(_ context.Context, page, limit int) ([]models.TradeAdListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > ActiveAdsCap {
		limit = 20
	}

	ads := s.activeAdsSorted()
	offset := (page - 1) * limit
	if offset >= len(ads) {
		return []models.TradeAdListing{}, nil
	}
	end := offset + limit
	if end > len(ads) {
		end = len(ads)
	}

	listings := make([]models.TradeAdListing, 0, end-offset)
	for _, ad := range ads[offset:end] {
		listings = append(listings, s.toListing(ad))
	}
	return listings, nil
}

func (s *MemoryStore) GetTradeAd(_ context.Context, id int64) (*models.TradeAd, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ad, ok := s.tradeAds[id]
	if !ok {
		return nil, &NotFoundError{Entity: "trade_ad", ID: id}
	}
	return &ad, nil
}

func (s *MemoryStore) GetTradeAdsByOwner(_ context.Context, userID, username string) ([]models.TradeAdListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var listings []models.TradeAdListing
	for _, ad := range s.tradeAds {
		if ad.UserID == userID || ad.UserID == username {
			listings = append(listings, s.toListing(ad))
		}
	}
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
	return listings, nil
}

func (s *MemoryStore) CreateTradeAd(_ context.Context, ad *models.TradeAd) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ad.ID = s.allocID()
	now := time.Now()
	ad.CreatedAt = now
	ad.UpdatedAt = now
	if ad.Status == "" {
		ad.Status = models.TradeAdActive
	}
	s.tradeAds[ad.ID] = *ad
	return nil
}

func (s *MemoryStore) CreateTradeAds(ctx context.Context, ads []*models.TradeAd) error {
	for _, ad := range ads {
		if err := s.CreateTradeAd(ctx, ad); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) UpdateTradeAdStatus(_ context.Context, id int64, status models.TradeAdStatus) (*models.TradeAd, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ad, ok := s.tradeAds[id]
	if !ok {
		return nil, &NotFoundError{Entity: "trade_ad", ID: id}
	}
	ad.Status = status
	ad.UpdatedAt = time.Now()
	s.tradeAds[id] = ad
	return &ad, nil
}

// Chat operations

func (s *MemoryStore) GetChatMessagesByTradeAd(_ context.Context, tradeAdID int64) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var messages []models.ChatMessage
	for _, msg := range s.chatMessages {
		if msg.TradeAdID == tradeAdID {
			messages = append(messages, msg)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

func (s *MemoryStore) CreateChatMessage(_ context.Context, message *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	message.ID = s.allocID()
	message.CreatedAt = time.Now()
	s.chatMessages[message.ID] = *message
	return nil
}

// Vouch operations

func (s *MemoryStore) GetVouchesByUser(_ context.Context, toUserID string) ([]models.Vouch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var vouches []models.Vouch
	for _, vouch := range s.vouches {
		if vouch.ToUserID == toUserID {
			vouches = append(vouches, vouch)
		}
	}
	sort.Slice(vouches, func(i, j int) bool {
		return vouches[i].CreatedAt.After(vouches[j].CreatedAt)
	})
	return vouches, nil
}

func (s *MemoryStore) CreateVouch(_ context.Context, vouch *models.Vouch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vouch.ID = s.allocID()
	vouch.CreatedAt = time.Now()
	s.vouches[vouch.ID] = *vouch
	return nil
}

// Catalog operations

func (s *MemoryStore) GetAllTradingItems(_ context.Context) ([]models.TradingItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.TradingItem, 0, len(s.tradingItems))
	for _, item := range s.tradingItems {
		if item.Tradeable {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *MemoryStore) GetTradingItem(_ context.Context, id int64) (*models.TradingItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.tradingItems[id]
	if !ok {
		return nil, &NotFoundError{Entity: "trading_item", ID: id}
	}
	return &item, nil
}

func (s *MemoryStore) CreateTradingItem(_ context.Context, item *models.TradingItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = s.allocID()
	item.UpdatedAt = time.Now()
	s.tradingItems[item.ID] = *item
	return nil
}

func (s *MemoryStore) UpdateTradingItemValue(_ context.Context, id int64, newValue int) (*models.TradingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.tradingItems[id]
	if !ok {
		return nil, &NotFoundError{Entity: "trading_item", ID: id}
	}
	item.ChangePercent = changePercent(item.CurrentValue, newValue)
	item.PreviousValue = item.CurrentValue
	item.CurrentValue = newValue
	item.UpdatedAt = time.Now()
	s.tradingItems[id] = item
	return &item, nil
}

func (s *MemoryStore) SearchTradingItems(ctx context.Context, query string, limit int) ([]models.TradingItem, error) {
	items, err := s.GetAllTradingItems(ctx)
	if err != nil {
		return nil, err
	}
	return rankItems(items, query, limit), nil
}

// Stats

func (s *MemoryStore) TradeStats(_ context.Context) (*TradeStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var active int64
	for _, ad := range s.tradeAds {
		if ad.Status == models.TradeAdActive {
			active++
		}
	}
	return &TradeStats{
		TotalUsers:     int64(len(s.users)),
		ActiveTradeAds: active,
	}, nil
}

func (s *MemoryStore) CatalogStats(_ context.Context) (*CatalogStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &CatalogStats{TotalItems: int64(len(s.tradingItems))}, nil
}

func (s *MemoryStore) CurrentWeather(_ context.Context) (*Weather, error) {
	return &Weather{
		Current: "Sunny",
		Effect:  "+15% Crop Growth",
		Icon:    "☀️",
	}, nil
}

// NotFoundError mirrors the repository error shape so handlers can map
// missing records to 404 regardless of backend.
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (e *NotFoundError) Error() string {
	return e.Entity + " " + idString(e.ID) + " not found"
}

func idString(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return "?"
	}
}
