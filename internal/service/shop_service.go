package service

import (
	"context"
	"errors"
	"strings"

	"github.com/atolyem/marketplace-backend/internal/model"
	"github.com/atolyem/marketplace-backend/internal/repository"
	"github.com/atolyem/marketplace-backend/internal/rules"
	"gorm.io/gorm"
)

type ShippingRuleInput struct {
	Zone                model.ShippingZone
	BasePriceMinor      int64
	FreeAboveMinor      *int64
	AdditionalItemMinor *int64
}

type ShopService interface {
	Create(ctx context.Context, ownerUID, name, slug string) (*model.Shop, error)
	Get(ctx context.Context, id uint64) (*model.Shop, error)
	GetMine(ctx context.Context, ownerUID string) (*model.Shop, error)
	SetShippingRule(ctx context.Context, shopID uint64, actor rules.Viewer, in ShippingRuleInput) (*model.ShippingRule, error)
	ShippingRules(ctx context.Context, shopID uint64) ([]model.ShippingRule, error)
}

type shopService struct {
	shopRepo repository.ShopRepository
}

func NewShopService(shopRepo repository.ShopRepository) ShopService {
	return &shopService{shopRepo: shopRepo}
}

func (s *shopService) Create(ctx context.Context, ownerUID, name, slug string) (*model.Shop, error) {
	if ownerUID == "" {
		return nil, errors.New("owner is required")
	}
	name = strings.TrimSpace(name)
	slug = strings.TrimSpace(strings.ToLower(slug))
	if name == "" || len(name) > 120 {
		return nil, &rules.Error{Code: rules.CodeValidation, Message: "invalid shop name"}
	}
	if slug == "" {
		return nil, &rules.Error{Code: rules.CodeValidation, Message: "slug is required"}
	}
	if _, err := s.shopRepo.FindByOwner(ctx, ownerUID); err == nil {
		return nil, &rules.Error{Code: rules.CodeConflict, Message: "you already have a shop"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	shop := &model.Shop{OwnerUID: ownerUID, Name: name, Slug: slug, Currency: "TRY"}
	if err := s.shopRepo.Create(ctx, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

func (s *shopService) Get(ctx context.Context, id uint64) (*model.Shop, error) {
	shop, err := s.shopRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return shop, nil
}

func (s *shopService) GetMine(ctx context.Context, ownerUID string) (*model.Shop, error) {
	shop, err := s.shopRepo.FindByOwner(ctx, ownerUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return shop, nil
}

func (s *shopService) SetShippingRule(ctx context.Context, shopID uint64, actor rules.Viewer, in ShippingRuleInput) (*model.ShippingRule, error) {
	shop, err := s.Get(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if err := rules.AssertShopOwnership(shop.OwnerUID, actor); err != nil {
		return nil, err
	}
	if in.Zone != model.ShippingZoneDomestic && in.Zone != model.ShippingZoneInternational {
		return nil, &rules.Error{Code: rules.CodeValidation, Message: "zone must be domestic or international"}
	}
	if in.BasePriceMinor < 0 {
		return nil, &rules.Error{Code: rules.CodeValidation, Message: "base price must not be negative"}
	}
	if in.FreeAboveMinor != nil && *in.FreeAboveMinor < 0 {
		return nil, &rules.Error{Code: rules.CodeValidation, Message: "free-above threshold must not be negative"}
	}
	if in.AdditionalItemMinor != nil && *in.AdditionalItemMinor < 0 {
		return nil, &rules.Error{Code: rules.CodeValidation, Message: "additional item price must not be negative"}
	}

	rule := &model.ShippingRule{
		ShopID:              shopID,
		Zone:                in.Zone,
		BasePriceMinor:      in.BasePriceMinor,
		FreeAboveMinor:      in.FreeAboveMinor,
		AdditionalItemMinor: in.AdditionalItemMinor,
	}
	if err := s.shopRepo.UpsertShippingRule(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *shopService) ShippingRules(ctx context.Context, shopID uint64) ([]model.ShippingRule, error) {
	return s.shopRepo.ShippingRules(ctx, shopID)
}
