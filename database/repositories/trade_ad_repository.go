package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/gardenexchange/backend/database/models"
)

// ActiveAdsCap bounds the unpaginated active-ads listing. Callers that
// need more must use GetPage explicitly.
const ActiveAdsCap = 100

type TradeAdRepository interface {
	GetAllActive(ctx context.Context) ([]models.TradeAdListing, error)
	GetPage(ctx context.Context, page, limit int) ([]models.TradeAdListing, error)
	GetByID(ctx context.Context, id int64) (*models.TradeAd, error)
	GetByOwner(ctx context.Context, userID, username string) ([]models.TradeAdListing, error)
	Create(ctx context.Context, ad *models.TradeAd) error
	CreateBatch(ctx context.Context, ads []*models.TradeAd) error
	UpdateStatus(ctx context.Context, id int64, status models.TradeAdStatus) (*models.TradeAd, error)
	CountActive(ctx context.Context) (int64, error)
}

type tradeAdRepository struct {
	*BaseRepository
}

func NewTradeAdRepository(db *bun.DB) TradeAdRepository {
	return &tradeAdRepository{BaseRepository: NewBaseRepository(db)}
}

func listingQuery(db *bun.DB, ads *[]models.TradeAdListing) *bun.SelectQuery {
	return db.NewSelect().
		Model(ads).
		ModelTableExpr("trade_ads AS ta").
		ColumnExpr("ta.*").
		ColumnExpr("u.username AS username").
		ColumnExpr("u.profile_image_url AS profile_image_url").
		Join("LEFT JOIN users AS u ON u.id = ta.user_id")
}

// GetAllActive returns active ads newest first, capped at ActiveAdsCap,
// each joined with the owner's username and avatar.
func (r *tradeAdRepository) GetAllActive(ctx context.Context) ([]models.TradeAdListing, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var ads []models.TradeAdListing
	err := listingQuery(r.db, &ads).
		Where("ta.status = ?", models.TradeAdActive).
		OrderExpr("ta.created_at DESC").
		Limit(ActiveAdsCap).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get_all", "trade_ad", err)
	}
	return ads, nil
}

func (r *tradeAdRepository) GetPage(ctx context.Context, page, limit int) ([]models.TradeAdListing, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > ActiveAdsCap {
		limit = 20
	}

	var ads []models.TradeAdListing
	err := listingQuery(r.db, &ads).
		Where("ta.status = ?", models.TradeAdActive).
		OrderExpr("ta.created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get_page", "trade_ad", err)
	}
	return ads, nil
}

func (r *tradeAdRepository) GetByID(ctx context.Context, id int64) (*models.TradeAd, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	ad := new(models.TradeAd)
	err := r.db.NewSelect().
		Model(ad).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "trade_ad", id, err)
	}
	return ad, nil
}

func (r *tradeAdRepository) GetByOwner(ctx context.Context, userID, username string) ([]models.TradeAdListing, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var ads []models.TradeAdListing
	err := listingQuery(r.db, &ads).
		Where("ta.user_id = ? OR ta.user_id = ?", userID, username).
		OrderExpr("ta.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get_by_owner", "trade_ad", err)
	}
	return ads, nil
}

func (r *tradeAdRepository) Create(ctx context.Context, ad *models.TradeAd) error {
	now := time.Now()
	ad.CreatedAt = now
	ad.UpdatedAt = now
	if ad.Status == "" {
		ad.Status = models.TradeAdActive
	}

	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(ad).
			Returning("*").
			Exec(ctx)
		return err
	})
	return r.HandleError("create", "trade_ad", err)
}

// CreateBatch inserts a set of ads in a single transaction so bulk
// imports are all-or-nothing.
func (r *tradeAdRepository) CreateBatch(ctx context.Context, ads []*models.TradeAd) error {
	if len(ads) == 0 {
		return nil
	}

	now := time.Now()
	for _, ad := range ads {
		ad.CreatedAt = now
		ad.UpdatedAt = now
		if ad.Status == "" {
			ad.Status = models.TradeAdActive
		}
	}

	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&ads).
			Returning("*").
			Exec(ctx)
		return err
	})
	return r.HandleError("create_batch", "trade_ad", err)
}

func (r *tradeAdRepository) UpdateStatus(ctx context.Context, id int64, status models.TradeAdStatus) (*models.TradeAd, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	ad := new(models.TradeAd)
	err := r.db.NewUpdate().
		Model(ad).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Returning("*").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("update_status", "trade_ad", id, err)
	}
	return ad, nil
}

func (r *tradeAdRepository) CountActive(ctx context.Context) (int64, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	count, err := r.db.NewSelect().
		Model((*models.TradeAd)(nil)).
		Where("status = ?", models.TradeAdActive).
		Count(ctx)
	if err != nil {
		return 0, r.HandleError("count", "trade_ad", err)
	}
	return int64(count), nil
}
