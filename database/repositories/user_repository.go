package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/gardenexchange/backend/database/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	AddReputation(ctx context.Context, id string, delta int) error
}

type userRepository struct {
	*BaseRepository
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "user", id, err)
	}
	return user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "user", username, err)
	}
	return user, nil
}

// Upsert inserts the user on first login and refreshes profile fields on
// every later login. Users are never deleted.
func (r *userRepository) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := r.db.NewInsert().
		Model(user).
		On("CONFLICT (id) DO UPDATE").
		Set("username = EXCLUDED.username").
		Set("email = EXCLUDED.email").
		Set("first_name = EXCLUDED.first_name").
		Set("last_name = EXCLUDED.last_name").
		Set("profile_image_url = EXCLUDED.profile_image_url").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("upsert", "user", user.ID, err)
	}
	return user, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	count, err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Count(ctx)
	if err != nil {
		return 0, r.HandleError("count", "user", err)
	}
	return int64(count), nil
}

func (r *userRepository) AddReputation(ctx context.Context, id string, delta int) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("reputation = reputation + ?", delta).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	return r.HandleErrorWithID("update", "user", id, err)
}
