package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/gardenexchange/backend/database/models"
)

func TestUpsertUserPreservesCreatedAtAndReputation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.UpsertUser(ctx, &models.User{ID: "42", Username: "alice"})
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	created := first.CreatedAt

	// Simulate reputation earned between logins.
	stored, _ := store.GetUser(ctx, "42")
	stored.Reputation = 5
	store.users["42"] = *stored

	second, err := store.UpsertUser(ctx, &models.User{ID: "42", Username: "alice_renamed"})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	if !second.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed on upsert: %v != %v", second.CreatedAt, created)
	}
	if second.Reputation != 5 {
		t.Errorf("Reputation = %d, want 5", second.Reputation)
	}
	if second.Username != "alice_renamed" {
		t.Errorf("Username = %q, want updated value", second.Username)
	}
}

func TestGetAllTradeAdsOrderAndCap(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < ActiveAdsCap+10; i++ {
		ad := &models.TradeAd{
			UserID:        "42",
			Title:         fmt.Sprintf("ad %d", i),
			OfferingItems: "[]",
			WantingItems:  "[]",
		}
		if err := store.CreateTradeAd(ctx, ad); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}

	ads, err := store.GetAllTradeAds(ctx)
	if err != nil {
		t.Fatalf("GetAllTradeAds failed: %v", err)
	}
	if len(ads) != ActiveAdsCap {
		t.Fatalf("got %d ads, want cap %d", len(ads), ActiveAdsCap)
	}
	for i := 1; i < len(ads); i++ {
		prev, cur := ads[i-1], ads[i]
		if cur.CreatedAt.After(prev.CreatedAt) {
			t.Fatalf("ads out of order at %d: %v before %v", i, prev.CreatedAt, cur.CreatedAt)
		}
		if cur.CreatedAt.Equal(prev.CreatedAt) && cur.ID > prev.ID {
			t.Fatalf("tie-break wrong at %d: id %d listed after %d", i, prev.ID, cur.ID)
		}
	}
	// Newest ad must be first.
	if ads[0].Title != fmt.Sprintf("ad %d", ActiveAdsCap+9) {
		t.Errorf("first ad = %q, want the newest", ads[0].Title)
	}
}

func TestCancelledAdsExcludedFromListings(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	ad := &models.TradeAd{UserID: "42", Title: "keep", OfferingItems: "[]", WantingItems: "[]"}
	if err := store.CreateTradeAd(ctx, ad); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := store.UpdateTradeAdStatus(ctx, ad.ID, models.TradeAdCancelled)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if updated.Status != models.TradeAdCancelled {
		t.Errorf("status = %q, want cancelled", updated.Status)
	}

	ads, _ := store.GetAllTradeAds(ctx)
	if len(ads) != 0 {
		t.Errorf("cancelled ad still listed: %d ads", len(ads))
	}

	// The record itself survives; soft delete only hides it.
	got, err := store.GetTradeAd(ctx, ad.ID)
	if err != nil {
		t.Fatalf("cancelled ad not fetchable: %v", err)
	}
	if got.Status != models.TradeAdCancelled {
		t.Errorf("stored status = %q, want cancelled", got.Status)
	}
}

func TestGetTradeAdsByOwnerMatchesIDOrUsername(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	byID := &models.TradeAd{UserID: "42", Title: "by id", OfferingItems: "[]", WantingItems: "[]"}
	byName := &models.TradeAd{UserID: "alice", Title: "by name", OfferingItems: "[]", WantingItems: "[]"}
	other := &models.TradeAd{UserID: "99", Title: "other", OfferingItems: "[]", WantingItems: "[]"}
	for _, ad := range []*models.TradeAd{byID, byName, other} {
		if err := store.CreateTradeAd(ctx, ad); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	ads, err := store.GetTradeAdsByOwner(ctx, "42", "alice")
	if err != nil {
		t.Fatalf("GetTradeAdsByOwner failed: %v", err)
	}
	if len(ads) != 2 {
		t.Fatalf("got %d ads, want 2", len(ads))
	}
	for _, ad := range ads {
		if ad.Title == "other" {
			t.Errorf("foreign ad returned")
		}
	}
}

func TestListingJoinsOwnerProfile(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.UpsertUser(ctx, &models.User{ID: "42", Username: "alice", ProfileImageURL: "http://img/a.png"})
	ad := &models.TradeAd{UserID: "42", Title: "x", OfferingItems: "[]", WantingItems: "[]"}
	store.CreateTradeAd(ctx, ad)

	ads, _ := store.GetAllTradeAds(ctx)
	if len(ads) != 1 {
		t.Fatalf("got %d ads, want 1", len(ads))
	}
	if ads[0].Username != "alice" || ads[0].ProfileImageURL != "http://img/a.png" {
		t.Errorf("owner profile not joined: %+v", ads[0])
	}
}

func TestUpdateTradingItemValueRollsPrevious(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	item := &models.TradingItem{Name: "Carrot", Type: "seeds", CurrentValue: 100, Tradeable: true}
	if err := store.CreateTradingItem(ctx, item); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := store.UpdateTradingItemValue(ctx, item.ID, 150)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.PreviousValue != 100 {
		t.Errorf("PreviousValue = %d, want 100", updated.PreviousValue)
	}
	if updated.CurrentValue != 150 {
		t.Errorf("CurrentValue = %d, want 150", updated.CurrentValue)
	}
	if updated.ChangePercent != "+50.0%" {
		t.Errorf("ChangePercent = %q, want +50.0%%", updated.ChangePercent)
	}
}

func TestSearchTradingItemsFuzzy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	names := []string{"Candy Blossom", "Carrot", "Watering Can", "Dragon Fruit"}
	for _, name := range names {
		store.CreateTradingItem(ctx, &models.TradingItem{Name: name, Type: "seeds", Tradeable: true})
	}

	results, err := store.SearchTradingItems(ctx, "carot", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("no results for near-miss query")
	}
	if results[0].Name != "Carrot" {
		t.Errorf("top result = %q, want Carrot", results[0].Name)
	}

	none, _ := store.SearchTradingItems(ctx, "zzzzqq", 10)
	if len(none) != 0 {
		t.Errorf("non-matching query returned %d results", len(none))
	}
}

func TestUntradeableItemsHiddenFromList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.CreateTradingItem(ctx, &models.TradingItem{Name: "Visible", Type: "seeds", Tradeable: true})
	store.CreateTradingItem(ctx, &models.TradingItem{Name: "Hidden", Type: "seeds", Tradeable: false})

	items, _ := store.GetAllTradingItems(ctx)
	if len(items) != 1 || items[0].Name != "Visible" {
		t.Errorf("untradeable item leaked into listing: %+v", items)
	}
}

func TestChatMessagesOldestFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	ad := &models.TradeAd{UserID: "42", Title: "x", OfferingItems: "[]", WantingItems: "[]"}
	store.CreateTradeAd(ctx, ad)

	for i := 0; i < 3; i++ {
		msg := &models.ChatMessage{UserID: "42", TradeAdID: ad.ID, Message: fmt.Sprintf("m%d", i)}
		if err := store.CreateChatMessage(ctx, msg); err != nil {
			t.Fatalf("create message failed: %v", err)
		}
	}

	messages, err := store.GetChatMessagesByTradeAd(ctx, ad.ID)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(messages))
	}
	for i, msg := range messages {
		if want := fmt.Sprintf("m%d", i); msg.Message != want {
			t.Errorf("message[%d] = %q, want %q", i, msg.Message, want)
		}
	}
}

func TestTradeStatsCountsActiveOnly(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.UpsertUser(ctx, &models.User{ID: "42", Username: "alice"})
	active := &models.TradeAd{UserID: "42", Title: "a", OfferingItems: "[]", WantingItems: "[]"}
	done := &models.TradeAd{UserID: "42", Title: "b", OfferingItems: "[]", WantingItems: "[]"}
	store.CreateTradeAd(ctx, active)
	store.CreateTradeAd(ctx, done)
	store.UpdateTradeAdStatus(ctx, done.ID, models.TradeAdCompleted)

	stats, err := store.TradeStats(ctx)
	if err != nil {
		t.Fatalf("TradeStats failed: %v", err)
	}
	if stats.TotalUsers != 1 {
		t.Errorf("TotalUsers = %d, want 1", stats.TotalUsers)
	}
	if stats.ActiveTradeAds != 1 {
		t.Errorf("ActiveTradeAds = %d, want 1", stats.ActiveTradeAds)
	}
}

func TestIsNotFound(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.GetTradeAd(ctx, 12345)
	if err == nil {
		t.Fatal("expected error for missing ad")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
	if IsNotFound(nil) {
		t.Error("IsNotFound(nil) = true")
	}
}
