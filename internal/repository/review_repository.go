package repository

import (
	"context"
	"errors"

	"github.com/atolyem/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	ExistsForOrderItem(ctx context.Context, orderItemID uint64) (bool, error)
	ListByListing(ctx context.Context, listingID uint64) ([]model.Review, error)
	SetDB(db *gorm.DB)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) ExistsForOrderItem(ctx context.Context, orderItemID uint64) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	var review model.Review
	err := r.db.WithContext(ctx).
		Where("order_item_id = ?", orderItemID).
		First(&review).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func (r *reviewRepository) ListByListing(ctx context.Context, listingID uint64) ([]model.Review, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var reviews []model.Review
	if err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("id DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) SetDB(db *gorm.DB) {
	r.db = db
}
