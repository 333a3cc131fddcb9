package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/gardenexchange/backend/database/models"
)

type VouchRepository interface {
	GetByUser(ctx context.Context, toUserID string) ([]models.Vouch, error)
	Create(ctx context.Context, vouch *models.Vouch) error
}

type vouchRepository struct {
	*BaseRepository
}

func NewVouchRepository(db *bun.DB) VouchRepository {
	return &vouchRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *vouchRepository) GetByUser(ctx context.Context, toUserID string) ([]models.Vouch, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var vouches []models.Vouch
	err := r.db.NewSelect().
		Model(&vouches).
		Where("to_user_id = ?", toUserID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get_by_user", "vouch", toUserID, err)
	}
	return vouches, nil
}

func (r *vouchRepository) Create(ctx context.Context, vouch *models.Vouch) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	vouch.CreatedAt = time.Now()
	_, err := r.db.NewInsert().
		Model(vouch).
		Returning("*").
		Exec(ctx)
	return r.HandleError("create", "vouch", err)
}
