package repository

import (
	"context"
	"errors"

	"github.com/atolyem/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type ShopRepository interface {
	Create(ctx context.Context, shop *model.Shop) error
	FindByID(ctx context.Context, id uint64) (*model.Shop, error)
	FindByOwner(ctx context.Context, ownerUID string) (*model.Shop, error)
	ShippingRules(ctx context.Context, shopID uint64) ([]model.ShippingRule, error)
	ShippingRulesForShops(ctx context.Context, shopIDs []uint64) (map[uint64][]model.ShippingRule, error)
	UpsertShippingRule(ctx context.Context, rule *model.ShippingRule) error
	SetDB(db *gorm.DB)
}

type shopRepository struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) Create(ctx context.Context, shop *model.Shop) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(shop).Error
}

func (r *shopRepository) FindByID(ctx context.Context, id uint64) (*model.Shop, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var shop model.Shop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepository) FindByOwner(ctx context.Context, ownerUID string) (*model.Shop, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var shop model.Shop
	if err := r.db.WithContext(ctx).
		Where("owner_uid = ?", ownerUID).
		First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *shopRepository) ShippingRules(ctx context.Context, shopID uint64) ([]model.ShippingRule, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var rules []model.ShippingRule
	if err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *shopRepository) ShippingRulesForShops(ctx context.Context, shopIDs []uint64) (map[uint64][]model.ShippingRule, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var rules []model.ShippingRule
	if err := r.db.WithContext(ctx).
		Where("shop_id IN ?", shopIDs).
		Find(&rules).Error; err != nil {
		return nil, err
	}
	byShop := make(map[uint64][]model.ShippingRule, len(shopIDs))
	for _, rule := range rules {
		byShop[rule.ShopID] = append(byShop[rule.ShopID], rule)
	}
	return byShop, nil
}

func (r *shopRepository) UpsertShippingRule(ctx context.Context, rule *model.ShippingRule) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	var existing model.ShippingRule
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND zone = ?", rule.ShopID, rule.Zone).
		First(&existing).Error
	if err == nil {
		rule.ID = existing.ID
		rule.CreatedAt = existing.CreatedAt
		return r.db.WithContext(ctx).Save(rule).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *shopRepository) SetDB(db *gorm.DB) {
	r.db = db
}
