package repository

import (
	"context"

	"github.com/atolyem/marketplace-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SocialRepository interface {
	AddFavorite(ctx context.Context, fav *model.Favorite) error
	RemoveFavorite(ctx context.Context, userUID string, listingID uint64) error
	ListFavorites(ctx context.Context, userUID string) ([]model.Favorite, error)
	AddFollow(ctx context.Context, follow *model.Follow) error
	RemoveFollow(ctx context.Context, userUID string, shopID uint64) error
	ListFollows(ctx context.Context, userUID string) ([]model.Follow, error)
	SetDB(db *gorm.DB)
}

type socialRepository struct {
	db *gorm.DB
}

func NewSocialRepository(db *gorm.DB) SocialRepository {
	return &socialRepository{db: db}
}

func (r *socialRepository) AddFavorite(ctx context.Context, fav *model.Favorite) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	// Favoriting twice is a no-op, not an error.
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(fav).Error
}

func (r *socialRepository) RemoveFavorite(ctx context.Context, userUID string, listingID uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Where("user_uid = ? AND listing_id = ?", userUID, listingID).
		Delete(&model.Favorite{}).Error
}

func (r *socialRepository) ListFavorites(ctx context.Context, userUID string) ([]model.Favorite, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var favs []model.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_uid = ?", userUID).
		Order("created_at DESC").
		Find(&favs).Error; err != nil {
		return nil, err
	}
	return favs, nil
}

func (r *socialRepository) AddFollow(ctx context.Context, follow *model.Follow) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(follow).Error
}

func (r *socialRepository) RemoveFollow(ctx context.Context, userUID string, shopID uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Where("user_uid = ? AND shop_id = ?", userUID, shopID).
		Delete(&model.Follow{}).Error
}

func (r *socialRepository) ListFollows(ctx context.Context, userUID string) ([]model.Follow, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var follows []model.Follow
	if err := r.db.WithContext(ctx).
		Where("user_uid = ?", userUID).
		Order("created_at DESC").
		Find(&follows).Error; err != nil {
		return nil, err
	}
	return follows, nil
}

func (r *socialRepository) SetDB(db *gorm.DB) {
	r.db = db
}
