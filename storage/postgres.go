package storage

import (
	"context"

	"github.com/gardenexchange/backend/database"
	"github.com/gardenexchange/backend/database/models"
	"github.com/gardenexchange/backend/database/repositories"
)

// PostgresTradeStore satisfies TradeStore on top of the bun
// repositories.
type PostgresTradeStore struct {
	users    repositories.UserRepository
	tradeAds repositories.TradeAdRepository
	chat     repositories.ChatMessageRepository
	vouches  repositories.VouchRepository
}

var _ TradeStore = (*PostgresTradeStore)(nil)

func NewPostgresTradeStore(db *database.DB) *PostgresTradeStore {
	bunDB := db.BunDB()
	return &PostgresTradeStore{
		users:    repositories.NewUserRepository(bunDB),
		tradeAds: repositories.NewTradeAdRepository(bunDB),
		chat:     repositories.NewChatMessageRepository(bunDB),
		vouches:  repositories.NewVouchRepository(bunDB),
	}
}

func (s *PostgresTradeStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *PostgresTradeStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.users.GetByUsername(ctx, username)
}

func (s *PostgresTradeStore) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	return s.users.Upsert(ctx, user)
}

func (s *PostgresTradeStore) GetAllTradeAds(ctx context.Context) ([]models.TradeAdListing, error) {
	return s.tradeAds.GetAllActive(ctx)
}

func (s *PostgresTradeStore) GetTradeAdsPage(ctx context.Context, page, limit int) ([]models.TradeAdListing, error) {
	return s.tradeAds.GetPage(ctx, page, limit)
}

func (s *PostgresTradeStore) GetTradeAd(ctx context.Context, id int64) (*models.TradeAd, error) {
	return s.tradeAds.GetByID(ctx, id)
}

func (s *PostgresTradeStore) GetTradeAdsByOwner(ctx context.Context, userID, username string) ([]models.TradeAdListing, error) {
	return s.tradeAds.GetByOwner(ctx, userID, username)
}

func (s *PostgresTradeStore) CreateTradeAd(ctx context.Context, ad *models.TradeAd) error {
	return s.tradeAds.Create(ctx, ad)
}

func (s *PostgresTradeStore) CreateTradeAds(ctx context.Context, ads []*models.TradeAd) error {
	return s.tradeAds.CreateBatch(ctx, ads)
}

func (s *PostgresTradeStore) UpdateTradeAdStatus(ctx context.Context, id int64, status models.TradeAdStatus) (*models.TradeAd, error) {
	return s.tradeAds.UpdateStatus(ctx, id, status)
}

func (s *PostgresTradeStore) GetChatMessagesByTradeAd(ctx context.Context, tradeAdID int64) ([]models.ChatMessage, error) {
	return s.chat.GetByTradeAd(ctx, tradeAdID)
}

func (s *PostgresTradeStore) CreateChatMessage(ctx context.Context, message *models.ChatMessage) error {
	return s.chat.Create(ctx, message)
}

func (s *PostgresTradeStore) GetVouchesByUser(ctx context.Context, toUserID string) ([]models.Vouch, error) {
	return s.vouches.GetByUser(ctx, toUserID)
}

func (s *PostgresTradeStore) CreateVouch(ctx context.Context, vouch *models.Vouch) error {
	return s.vouches.Create(ctx, vouch)
}

func (s *PostgresTradeStore) TradeStats(ctx context.Context) (*TradeStats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	activeAds, err := s.tradeAds.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	return &TradeStats{
		TotalUsers:     totalUsers,
		ActiveTradeAds: activeAds,
	}, nil
}
