package utils

import (
	"encoding/json"
	"strings"

	"github.com/gardenexchange/backend/models"
)

const (
	maxTitleLength   = 200
	maxMessageLength = 1000
	maxCommentLength = 500
)

func ValidateTradeAd(req *models.CreateTradeAdRequest) []models.ValidationError {
	var errs []models.ValidationError
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, models.ValidationError{Field: "title", Message: "title is required"})
	} else if len(req.Title) > maxTitleLength {
		errs = append(errs, models.ValidationError{Field: "title", Message: "title is too long"})
	}
	if req.OfferingItems != "" && !json.Valid([]byte(req.OfferingItems)) {
		errs = append(errs, models.ValidationError{Field: "offeringItems", Message: "offeringItems must be valid JSON"})
	}
	if req.WantingItems != "" && !json.Valid([]byte(req.WantingItems)) {
		errs = append(errs, models.ValidationError{Field: "wantingItems", Message: "wantingItems must be valid JSON"})
	}
	return errs
}

func ValidateChatMessage(req *models.CreateChatMessageRequest) []models.ValidationError {
	var errs []models.ValidationError
	if req.TradeAdID <= 0 {
		errs = append(errs, models.ValidationError{Field: "tradeAdId", Message: "tradeAdId is required"})
	}
	if strings.TrimSpace(req.Message) == "" {
		errs = append(errs, models.ValidationError{Field: "message", Message: "message is required"})
	} else if len(req.Message) > maxMessageLength {
		errs = append(errs, models.ValidationError{Field: "message", Message: "message is too long"})
	}
	return errs
}

func ValidateVouch(req *models.CreateVouchRequest) []models.ValidationError {
	var errs []models.ValidationError
	if strings.TrimSpace(req.ToUserID) == "" {
		errs = append(errs, models.ValidationError{Field: "toUserId", Message: "toUserId is required"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		errs = append(errs, models.ValidationError{Field: "rating", Message: "rating must be between 1 and 5"})
	}
	if len(req.Comment) > maxCommentLength {
		errs = append(errs, models.ValidationError{Field: "comment", Message: "comment is too long"})
	}
	return errs
}

func ValidateTradingItem(req *models.CreateTradingItemRequest) []models.ValidationError {
	var errs []models.ValidationError
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, models.ValidationError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(req.Type) == "" {
		errs = append(errs, models.ValidationError{Field: "type", Message: "type is required"})
	}
	if req.CurrentValue < 0 {
		errs = append(errs, models.ValidationError{Field: "currentValue", Message: "currentValue cannot be negative"})
	}
	return errs
}
