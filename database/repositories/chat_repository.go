package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/gardenexchange/backend/database/models"
)

type ChatMessageRepository interface {
	GetByTradeAd(ctx context.Context, tradeAdID int64) ([]models.ChatMessage, error)
	Create(ctx context.Context, message *models.ChatMessage) error
}

type chatMessageRepository struct {
	*BaseRepository
}

func NewChatMessageRepository(db *bun.DB) ChatMessageRepository {
	return &chatMessageRepository{BaseRepository: NewBaseRepository(db)}
}

// GetByTradeAd returns a trade ad's messages oldest first, the order a
// chat transcript reads in.
func (r *chatMessageRepository) GetByTradeAd(ctx context.Context, tradeAdID int64) ([]models.ChatMessage, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var messages []models.ChatMessage
	err := r.db.NewSelect().
		Model(&messages).
		Where("trade_ad_id = ?", tradeAdID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get_by_trade_ad", "chat_message", tradeAdID, err)
	}
	return messages, nil
}

func (r *chatMessageRepository) Create(ctx context.Context, message *models.ChatMessage) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	message.CreatedAt = time.Now()
	_, err := r.db.NewInsert().
		Model(message).
		Returning("*").
		Exec(ctx)
	return r.HandleError("create", "chat_message", err)
}
