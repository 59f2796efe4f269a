package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/atolyem/marketplace-backend/internal/model"
	"github.com/atolyem/marketplace-backend/internal/repository"
	"github.com/atolyem/marketplace-backend/internal/rules"
	"gorm.io/gorm"
)

type CartService interface {
	Add(ctx context.Context, buyerUID string, listingID uint64, variantID *uint64, quantity int, personalization map[string]string) (*model.CartItem, error)
	UpdateQuantity(ctx context.Context, buyerUID string, cartItemID uint64, quantity int) (*model.CartItem, error)
	Remove(ctx context.Context, buyerUID string, cartItemID uint64) error
	List(ctx context.Context, buyerUID string) ([]CartLine, error)
}

// CartLine is a cart item joined with its current listing state for
// display. Prices here are informational; checkout recomputes everything.
type CartLine struct {
	Item           model.CartItem
	Listing        *model.Listing
	UnitPriceMinor int64
	Currency       string
	Available      bool
}

type cartService struct {
	cartRepo    repository.CartRepository
	listingRepo repository.ListingRepository
}

func NewCartService(cartRepo repository.CartRepository, listingRepo repository.ListingRepository) CartService {
	return &cartService{cartRepo: cartRepo, listingRepo: listingRepo}
}

// Add runs the same guards checkout will run later. Rejecting early is a
// courtesy; checkout re-checks everything because cart state goes stale.
func (s *cartService) Add(ctx context.Context, buyerUID string, listingID uint64, variantID *uint64, quantity int, personalization map[string]string) (*model.CartItem, error) {
	if buyerUID == "" {
		return nil, errors.New("buyer is required")
	}
	if quantity < 1 {
		return nil, &rules.Error{Code: rules.CodeValidation, Message: "quantity must be at least 1"}
	}
	listing, err := s.listingRepo.FindByIDFull(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := rules.AssertNotSelfPurchase(listing.SellerUID, buyerUID); err != nil {
		return nil, err
	}
	if err := rules.AssertCanViewListing(listing.View(), rules.Viewer{UserID: buyerUID}); err != nil {
		return nil, err
	}
	if err := rules.AssertListingPurchasable(listing.View()); err != nil {
		return nil, err
	}

	stock := listing.BaseQuantity
	if variantID != nil {
		variant, err := s.listingRepo.FindVariant(ctx, listingID, *variantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		stock = rules.EffectiveStock(listing.BaseQuantity, variant.Quantity)
	}
	if err := rules.AssertSufficientStock(rules.StockCheck{
		ListingID:         listingID,
		CurrentStock:      stock,
		RequestedQuantity: quantity,
		ListingStatus:     listing.Status,
	}); err != nil {
		return nil, err
	}

	defs := make([]rules.PersonalizationFieldDef, 0, len(listing.PersonalizationFields))
	for _, f := range listing.PersonalizationFields {
		defs = append(defs, f.Def())
	}
	sanitized := rules.SanitizePersonalization(personalization, defs)
	if err := rules.ValidatePersonalization(sanitized, defs); err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(sanitized)
	if err != nil {
		return nil, err
	}

	// Same listing and variant already in the cart: bump the quantity. The
	// stock check above saw only the incoming quantity, so the combined
	// total gets its own check before it lands in the cart.
	if existing, err := s.cartRepo.FindByBuyerAndListing(ctx, buyerUID, listingID, variantID); err == nil {
		combined := existing.Quantity + quantity
		if err := rules.AssertSufficientStock(rules.StockCheck{
			ListingID:         listingID,
			CurrentStock:      stock,
			RequestedQuantity: combined,
			ListingStatus:     listing.Status,
		}); err != nil {
			return nil, err
		}
		existing.Quantity = combined
		existing.Personalization = string(encoded)
		if err := s.cartRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item := &model.CartItem{
		BuyerUID:        buyerUID,
		ListingID:       listingID,
		VariantID:       variantID,
		Quantity:        quantity,
		Personalization: string(encoded),
	}
	if err := s.cartRepo.Add(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, buyerUID string, cartItemID uint64, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, &rules.Error{Code: rules.CodeValidation, Message: "quantity must be at least 1"}
	}
	item, err := s.cartRepo.FindByID(ctx, cartItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if item.BuyerUID != buyerUID {
		return nil, &rules.Error{Code: rules.CodeForbidden, Message: "this cart item belongs to someone else"}
	}
	item.Quantity = quantity
	if err := s.cartRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *cartService) Remove(ctx context.Context, buyerUID string, cartItemID uint64) error {
	return s.cartRepo.Remove(ctx, cartItemID, buyerUID)
}

func (s *cartService) List(ctx context.Context, buyerUID string) ([]CartLine, error) {
	items, err := s.cartRepo.ListByBuyer(ctx, buyerUID)
	if err != nil {
		return nil, err
	}
	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		line := CartLine{Item: item}
		listing, err := s.listingRepo.FindByID(ctx, item.ListingID)
		if err == nil {
			line.Listing = listing
			line.Currency = listing.Currency
			price := listing.BasePriceMinor
			if item.VariantID != nil {
				if variant, verr := s.listingRepo.FindVariant(ctx, item.ListingID, *item.VariantID); verr == nil {
					price = rules.EffectivePrice(listing.BasePriceMinor, variant.PriceMinor)
				}
			}
			line.UnitPriceMinor = price
			line.Available = rules.AssertListingPurchasable(listing.View()) == nil
		}
		lines = append(lines, line)
	}
	return lines, nil
}
