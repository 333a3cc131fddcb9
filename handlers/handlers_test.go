package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/gardenexchange/backend/config"
	dbmodels "github.com/gardenexchange/backend/database/models"
	"github.com/gardenexchange/backend/middleware"
	"github.com/gardenexchange/backend/storage"
)

// newTestApp wires the API surface onto in-memory backends, mirroring
// the production route table for the endpoints under test.
func newTestApp() (*fiber.App, *storage.MemoryStore) {
	mem := storage.NewMemoryStore()
	backends := &storage.Backends{
		Trades:         mem,
		Catalog:        mem,
		TradeBackend:   storage.BackendMemory,
		CatalogBackend: storage.BackendMemory,
	}
	webApp := NewWebApp(&config.Config{}, backends, "test")

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	api := app.Group("/api")

	tradeAds := api.Group("/trade-ads")
	tradeAds.Get("/", webApp.GetTradeAds)
	tradeAds.Get("/page", webApp.GetTradeAdsPage)
	tradeAds.Get("/my-ads", middleware.IdentityRequired(webApp.Sessions), webApp.GetMyTradeAds)
	tradeAds.Get("/:id", webApp.GetTradeAd)
	tradeAds.Post("/", middleware.IdentityRequired(webApp.Sessions), webApp.CreateTradeAd)
	tradeAds.Patch("/:id/status", middleware.IdentityRequired(webApp.Sessions), webApp.UpdateTradeAdStatus)
	tradeAds.Delete("/:id", middleware.IdentityRequired(webApp.Sessions), webApp.DeleteTradeAd)

	chat := api.Group("/chat-messages")
	chat.Get("/:tradeAdId", webApp.GetChatMessages)
	chat.Post("/", middleware.IdentityRequired(webApp.Sessions), webApp.CreateChatMessage)

	vouches := api.Group("/vouches")
	vouches.Get("/:userId", webApp.GetVouches)
	vouches.Post("/", middleware.IdentityRequired(webApp.Sessions), webApp.CreateVouch)

	items := api.Group("/trading-items")
	items.Get("/", webApp.GetTradingItems)
	items.Get("/:id", webApp.GetTradingItem)
	items.Post("/", middleware.IdentityRequired(webApp.Sessions), webApp.CreateTradingItem)
	items.Patch("/:id/value", middleware.IdentityRequired(webApp.Sessions), webApp.UpdateTradingItemValue)

	api.Get("/stock", webApp.GetStock)
	api.Get("/stats", webApp.GetStats)
	api.Get("/system-status", webApp.GetSystemStatus)
	api.Get("/item-image/:name", webApp.GetItemImage)
	api.Get("/image-proxy", webApp.ProxyImage)

	return app, mem
}

func jsonRequest(method, target string, body any, userData string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userData != "" {
		req.Header.Set("x-user-data", userData)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		t.Fatalf("decode body %q: %v", data, err)
	}
}

func TestCreateTradeAdLifecycle(t *testing.T) {
	app, _ := newTestApp()

	// Create as alice (id 42). The owner id must come from the header.
	req := jsonRequest(fiber.MethodPost, "/api/trade-ads/", map[string]any{
		"title":         "Trading dragon fruit",
		"offeringItems": `[{"name":"Dragon Fruit"}]`,
		"wantingItems":  `[{"name":"Candy Blossom"}]`,
		"userId":        "hacker",
	}, `{"id":42,"username":"alice"}`)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created dbmodels.TradeAd
	decodeBody(t, resp, &created)
	if created.UserID != "42" {
		t.Fatalf("userId = %q, want \"42\"", created.UserID)
	}
	if created.ID == 0 || created.Status != dbmodels.TradeAdActive {
		t.Fatalf("created ad = %+v", created)
	}

	// Bob must not be able to delete alice's ad.
	req = jsonRequest(fiber.MethodDelete, fmt.Sprintf("/api/trade-ads/%d", created.ID), nil,
		`{"id":99,"username":"bob"}`)
	resp, _ = app.Test(req)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("foreign delete status = %d, want 403", resp.StatusCode)
	}

	// Alice cancels her own ad.
	req = jsonRequest(fiber.MethodDelete, fmt.Sprintf("/api/trade-ads/%d", created.ID), nil,
		`{"id":42,"username":"alice"}`)
	resp, _ = app.Test(req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("owner delete status = %d, want 200", resp.StatusCode)
	}
	var cancelled dbmodels.TradeAd
	decodeBody(t, resp, &cancelled)
	if cancelled.Status != dbmodels.TradeAdCancelled {
		t.Fatalf("status = %q, want cancelled", cancelled.Status)
	}

	// The cancelled ad no longer shows in active listings.
	resp, _ = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/trade-ads/", nil))
	var listings []dbmodels.TradeAdListing
	decodeBody(t, resp, &listings)
	if len(listings) != 0 {
		t.Fatalf("cancelled ad still listed: %d listings", len(listings))
	}

	// But it is still fetchable by id.
	resp, _ = app.Test(httptest.NewRequest(fiber.MethodGet, fmt.Sprintf("/api/trade-ads/%d", created.ID), nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("fetch cancelled ad status = %d, want 200", resp.StatusCode)
	}
}

func TestIdentityHeaderContract(t *testing.T) {
	app, _ := newTestApp()
	body := map[string]any{"title": "x", "offeringItems": "[]", "wantingItems": "[]"}

	tests := []struct {
		name       string
		userData   string
		wantStatus int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"malformed json", "{not json", fiber.StatusBadRequest},
		{"empty object", "{}", fiber.StatusBadRequest},
		{"valid", `{"id":42,"username":"alice"}`, fiber.StatusCreated},
		{"string id", `{"id":"42","username":"alice"}`, fiber.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest(fiber.MethodPost, "/api/trade-ads/", body, tt.userData))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestOwnershipByUsernameMatch(t *testing.T) {
	app, mem := newTestApp()

	// Legacy rows may store the username rather than the numeric id.
	ad := &dbmodels.TradeAd{UserID: "alice", Title: "legacy", OfferingItems: "[]", WantingItems: "[]"}
	mem.CreateTradeAd(context.Background(), ad)

	req := jsonRequest(fiber.MethodDelete, fmt.Sprintf("/api/trade-ads/%d", ad.ID), nil,
		`{"id":42,"username":"alice"}`)
	resp, _ := app.Test(req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("username-matched delete status = %d, want 200", resp.StatusCode)
	}
}

func TestCreateTradeAdValidation(t *testing.T) {
	app, _ := newTestApp()

	resp, _ := app.Test(jsonRequest(fiber.MethodPost, "/api/trade-ads/", map[string]any{
		"title":         "",
		"offeringItems": "not json",
	}, `{"id":42,"username":"alice"}`))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	var body struct {
		Error   string `json:"error"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	decodeBody(t, resp, &body)
	if len(body.Details) < 2 {
		t.Errorf("expected title and offeringItems failures, got %+v", body.Details)
	}
}

func TestChatMessageFlow(t *testing.T) {
	app, mem := newTestApp()

	ad := &dbmodels.TradeAd{UserID: "42", Title: "x", OfferingItems: "[]", WantingItems: "[]"}
	mem.CreateTradeAd(context.Background(), ad)

	// Message on a missing ad is a 404.
	resp, _ := app.Test(jsonRequest(fiber.MethodPost, "/api/chat-messages/", map[string]any{
		"tradeAdId": 9999, "message": "hello",
	}, `{"id":7,"username":"carol"}`))
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("missing ad status = %d, want 404", resp.StatusCode)
	}

	resp, _ = app.Test(jsonRequest(fiber.MethodPost, "/api/chat-messages/", map[string]any{
		"tradeAdId": ad.ID, "message": "hello",
	}, `{"id":7,"username":"carol"}`))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest(fiber.MethodGet, fmt.Sprintf("/api/chat-messages/%d", ad.ID), nil))
	var messages []dbmodels.ChatMessage
	decodeBody(t, resp, &messages)
	if len(messages) != 1 || messages[0].Message != "hello" || messages[0].UserID != "7" {
		t.Errorf("messages = %+v", messages)
	}
}

func TestVouchFlow(t *testing.T) {
	app, _ := newTestApp()

	// Self-vouch is rejected whether matched by id or username.
	resp, _ := app.Test(jsonRequest(fiber.MethodPost, "/api/vouches/", map[string]any{
		"toUserId": "42", "rating": 5,
	}, `{"id":42,"username":"alice"}`))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("self-vouch status = %d, want 400", resp.StatusCode)
	}

	// Out-of-range rating fails validation.
	resp, _ = app.Test(jsonRequest(fiber.MethodPost, "/api/vouches/", map[string]any{
		"toUserId": "99", "rating": 6,
	}, `{"id":42,"username":"alice"}`))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("bad rating status = %d, want 400", resp.StatusCode)
	}

	resp, _ = app.Test(jsonRequest(fiber.MethodPost, "/api/vouches/", map[string]any{
		"toUserId": "99", "rating": 5, "comment": "great trade",
	}, `{"id":42,"username":"alice"}`))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/vouches/99", nil))
	var vouches []dbmodels.Vouch
	decodeBody(t, resp, &vouches)
	if len(vouches) != 1 || vouches[0].FromUserID != "42" || vouches[0].Rating != 5 {
		t.Errorf("vouches = %+v", vouches)
	}
}

func TestTradingItemEndpoints(t *testing.T) {
	app, _ := newTestApp()

	resp, _ := app.Test(jsonRequest(fiber.MethodPost, "/api/trading-items/", map[string]any{
		"name": "Carrot", "type": "seeds", "rarity": "Common", "currentValue": 100,
	}, `{"id":1,"username":"admin"}`))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var item dbmodels.TradingItem
	decodeBody(t, resp, &item)
	if !item.Tradeable {
		t.Error("tradeable should default to true")
	}
	if item.ImageURL == "" {
		t.Error("image fallback not applied")
	}

	resp, _ = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/trading-items/999", nil))
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("missing item status = %d, want 404", resp.StatusCode)
	}

	resp, _ = app.Test(jsonRequest(fiber.MethodPatch, fmt.Sprintf("/api/trading-items/%d/value", item.ID),
		map[string]any{"currentValue": 150}, `{"id":1,"username":"admin"}`))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("value update status = %d, want 200", resp.StatusCode)
	}
	var updated dbmodels.TradingItem
	decodeBody(t, resp, &updated)
	if updated.PreviousValue != 100 || updated.CurrentValue != 150 {
		t.Errorf("updated item = %+v", updated)
	}

	resp, _ = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/trading-items/?q=carot", nil))
	var results []dbmodels.TradingItem
	decodeBody(t, resp, &results)
	if len(results) != 1 || results[0].Name != "Carrot" {
		t.Errorf("search results = %+v", results)
	}
}

func TestStatsAndSystemStatus(t *testing.T) {
	app, mem := newTestApp()

	mem.UpsertUser(context.Background(), &dbmodels.User{ID: "42", Username: "alice"})
	mem.CreateTradeAd(context.Background(), &dbmodels.TradeAd{UserID: "42", Title: "x", OfferingItems: "[]", WantingItems: "[]"})
	mem.CreateTradingItem(context.Background(), &dbmodels.TradingItem{Name: "Carrot", Type: "seeds", Tradeable: true})

	resp, _ := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/stats", nil))
	var stats map[string]int64
	decodeBody(t, resp, &stats)
	if stats["totalUsers"] != 1 || stats["activeTradeAds"] != 1 || stats["totalTradingItems"] != 1 {
		t.Errorf("stats = %+v", stats)
	}

	resp, _ = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/system-status", nil))
	var status struct {
		Backends map[string]string `json:"backends"`
	}
	decodeBody(t, resp, &status)
	if status.Backends["trades"] != "memory" || status.Backends["catalog"] != "memory" {
		t.Errorf("backends = %+v", status.Backends)
	}
}

func TestStockSnapshotShape(t *testing.T) {
	app, _ := newTestApp()

	resp, _ := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/stock", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var snap struct {
		Stocks            map[string][]any `json:"stocks"`
		RestockTimers     map[string]int64 `json:"restockTimers"`
		TimerCalculatedAt int64            `json:"timerCalculatedAt"`
	}
	decodeBody(t, resp, &snap)
	for _, cat := range []string{"seeds", "gears", "eggs", "honey", "cosmetics"} {
		if _, ok := snap.RestockTimers[cat]; !ok {
			t.Errorf("category %q missing restock timer", cat)
		}
	}
	if snap.TimerCalculatedAt == 0 {
		t.Error("timerCalculatedAt missing")
	}
}

func TestProxyImageRejectsUnknownHost(t *testing.T) {
	app, _ := newTestApp()

	tests := []struct {
		name       string
		url        string
		wantStatus int
	}{
		{"missing url", "/api/image-proxy", fiber.StatusBadRequest},
		{"http scheme", "/api/image-proxy?url=http%3A%2F%2Fi.postimg.cc%2Fx.png", fiber.StatusBadRequest},
		{"unlisted host", "/api/image-proxy?url=https%3A%2F%2Fevil.example.com%2Fx.png", fiber.StatusBadRequest},
		{"lookalike host", "/api/image-proxy?url=https%3A%2F%2Fnotrbxcdn.com%2Fx.png", fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := app.Test(httptest.NewRequest(fiber.MethodGet, tt.url, nil))
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestItemImageEndpoint(t *testing.T) {
	app, _ := newTestApp()

	resp, _ := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/item-image/Carrot", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Name     string `json:"name"`
		ImageURL string `json:"imageUrl"`
	}
	decodeBody(t, resp, &body)
	if body.Name != "Carrot" || body.ImageURL == "" {
		t.Errorf("body = %+v", body)
	}
}
