package repository

import (
	"context"

	"github.com/atolyem/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type CartRepository interface {
	Add(ctx context.Context, item *model.CartItem) error
	FindByID(ctx context.Context, id uint64) (*model.CartItem, error)
	FindByBuyerAndListing(ctx context.Context, buyerUID string, listingID uint64, variantID *uint64) (*model.CartItem, error)
	ListByBuyer(ctx context.Context, buyerUID string) ([]model.CartItem, error)
	Update(ctx context.Context, item *model.CartItem) error
	Remove(ctx context.Context, id uint64, buyerUID string) error
	ClearForBuyer(tx *gorm.DB, buyerUID string) error
	SetDB(db *gorm.DB)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Add(ctx context.Context, item *model.CartItem) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cartRepository) FindByID(ctx context.Context, id uint64) (*model.CartItem, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var item model.CartItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) FindByBuyerAndListing(ctx context.Context, buyerUID string, listingID uint64, variantID *uint64) (*model.CartItem, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	q := r.db.WithContext(ctx).Where("buyer_uid = ? AND listing_id = ?", buyerUID, listingID)
	if variantID != nil {
		q = q.Where("variant_id = ?", *variantID)
	} else {
		q = q.Where("variant_id IS NULL")
	}
	var item model.CartItem
	if err := q.First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) ListByBuyer(ctx context.Context, buyerUID string) ([]model.CartItem, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var items []model.CartItem
	if err := r.db.WithContext(ctx).
		Where("buyer_uid = ?", buyerUID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) Update(ctx context.Context, item *model.CartItem) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *cartRepository) Remove(ctx context.Context, id uint64, buyerUID string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Where("id = ? AND buyer_uid = ?", id, buyerUID).
		Delete(&model.CartItem{}).Error
}

// ClearForBuyer runs inside the checkout transaction so the cart empties
// together with the order commit.
func (r *cartRepository) ClearForBuyer(tx *gorm.DB, buyerUID string) error {
	return tx.Where("buyer_uid = ?", buyerUID).Delete(&model.CartItem{}).Error
}

func (r *cartRepository) SetDB(db *gorm.DB) {
	r.db = db
}
