package utils

import (
	"strings"
	"testing"

	"github.com/gardenexchange/backend/models"
)

func TestValidateTradeAd(t *testing.T) {
	tests := []struct {
		name      string
		req       models.CreateTradeAdRequest
		wantField string
	}{
		{"valid", models.CreateTradeAdRequest{Title: "t", OfferingItems: "[]", WantingItems: "[]"}, ""},
		{"empty title", models.CreateTradeAdRequest{OfferingItems: "[]"}, "title"},
		{"whitespace title", models.CreateTradeAdRequest{Title: "   "}, "title"},
		{"long title", models.CreateTradeAdRequest{Title: strings.Repeat("a", 201)}, "title"},
		{"bad offering json", models.CreateTradeAdRequest{Title: "t", OfferingItems: "{"}, "offeringItems"},
		{"bad wanting json", models.CreateTradeAdRequest{Title: "t", WantingItems: "nope"}, "wantingItems"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateTradeAd(&tt.req)
			checkField(t, errs, tt.wantField)
		})
	}
}

func TestValidateVouch(t *testing.T) {
	tests := []struct {
		name      string
		req       models.CreateVouchRequest
		wantField string
	}{
		{"valid", models.CreateVouchRequest{ToUserID: "42", Rating: 3}, ""},
		{"rating low", models.CreateVouchRequest{ToUserID: "42", Rating: 0}, "rating"},
		{"rating high", models.CreateVouchRequest{ToUserID: "42", Rating: 6}, "rating"},
		{"missing target", models.CreateVouchRequest{Rating: 3}, "toUserId"},
		{"long comment", models.CreateVouchRequest{ToUserID: "42", Rating: 3, Comment: strings.Repeat("x", 501)}, "comment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateVouch(&tt.req)
			checkField(t, errs, tt.wantField)
		})
	}
}

func TestValidateChatMessage(t *testing.T) {
	tests := []struct {
		name      string
		req       models.CreateChatMessageRequest
		wantField string
	}{
		{"valid", models.CreateChatMessageRequest{TradeAdID: 1, Message: "hi"}, ""},
		{"missing ad", models.CreateChatMessageRequest{Message: "hi"}, "tradeAdId"},
		{"empty message", models.CreateChatMessageRequest{TradeAdID: 1, Message: "  "}, "message"},
		{"long message", models.CreateChatMessageRequest{TradeAdID: 1, Message: strings.Repeat("x", 1001)}, "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateChatMessage(&tt.req)
			checkField(t, errs, tt.wantField)
		})
	}
}

func TestValidateTradingItem(t *testing.T) {
	tests := []struct {
		name      string
		req       models.CreateTradingItemRequest
		wantField string
	}{
		{"valid", models.CreateTradingItemRequest{Name: "Carrot", Type: "seeds", CurrentValue: 10}, ""},
		{"missing name", models.CreateTradingItemRequest{Type: "seeds"}, "name"},
		{"missing type", models.CreateTradingItemRequest{Name: "Carrot"}, "type"},
		{"negative value", models.CreateTradingItemRequest{Name: "Carrot", Type: "seeds", CurrentValue: -1}, "currentValue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateTradingItem(&tt.req)
			checkField(t, errs, tt.wantField)
		})
	}
}

func checkField(t *testing.T, errs []models.ValidationError, wantField string) {
	t.Helper()
	if wantField == "" {
		if len(errs) != 0 {
			t.Errorf("unexpected errors: %+v", errs)
		}
		return
	}
	for _, e := range errs {
		if e.Field == wantField {
			return
		}
	}
	t.Errorf("no error for field %q in %+v", wantField, errs)
}
