package service

import (
	"context"
	"testing"

	"github.com/atolyem/marketplace-backend/internal/model"
	"github.com/atolyem/marketplace-backend/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCartRepo struct {
	items map[uint64]*model.CartItem
	next  uint64
}

func newFakeCartRepo(items ...*model.CartItem) *fakeCartRepo {
	r := &fakeCartRepo{items: map[uint64]*model.CartItem{}, next: 100}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *fakeCartRepo) Add(ctx context.Context, item *model.CartItem) error {
	r.next++
	item.ID = r.next
	r.items[item.ID] = item
	return nil
}

func (r *fakeCartRepo) FindByID(ctx context.Context, id uint64) (*model.CartItem, error) {
	if it, ok := r.items[id]; ok {
		return it, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCartRepo) FindByBuyerAndListing(ctx context.Context, buyerUID string, listingID uint64, variantID *uint64) (*model.CartItem, error) {
	for _, it := range r.items {
		if it.BuyerUID != buyerUID || it.ListingID != listingID {
			continue
		}
		if (it.VariantID == nil) != (variantID == nil) {
			continue
		}
		if it.VariantID != nil && *it.VariantID != *variantID {
			continue
		}
		return it, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCartRepo) ListByBuyer(ctx context.Context, buyerUID string) ([]model.CartItem, error) {
	return nil, nil
}

func (r *fakeCartRepo) Update(ctx context.Context, item *model.CartItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *fakeCartRepo) Remove(ctx context.Context, id uint64, buyerUID string) error {
	delete(r.items, id)
	return nil
}

func (r *fakeCartRepo) ClearForBuyer(tx *gorm.DB, buyerUID string) error { return nil }

func (r *fakeCartRepo) SetDB(db *gorm.DB) {}

type fakeListingRepo struct {
	listings map[uint64]*model.Listing
}

func newFakeListingRepo(listings ...*model.Listing) *fakeListingRepo {
	r := &fakeListingRepo{listings: map[uint64]*model.Listing{}}
	for _, l := range listings {
		r.listings[l.ID] = l
	}
	return r
}

func (r *fakeListingRepo) Create(ctx context.Context, listing *model.Listing) error { return nil }

func (r *fakeListingRepo) FindByID(ctx context.Context, id uint64) (*model.Listing, error) {
	if l, ok := r.listings[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeListingRepo) FindByIDFull(ctx context.Context, id uint64) (*model.Listing, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeListingRepo) FindForUpdate(tx *gorm.DB, id uint64) (*model.Listing, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeListingRepo) FindVariantForUpdate(tx *gorm.DB, id uint64) (*model.ListingVariant, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeListingRepo) List(ctx context.Context, limit, offset int) ([]model.Listing, int64, error) {
	return nil, 0, nil
}

func (r *fakeListingRepo) ListBySeller(ctx context.Context, sellerUID string) ([]model.Listing, error) {
	return nil, nil
}

func (r *fakeListingRepo) Update(ctx context.Context, listing *model.Listing) error {
	r.listings[listing.ID] = listing
	return nil
}

func (r *fakeListingRepo) FindVariant(ctx context.Context, listingID, variantID uint64) (*model.ListingVariant, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeListingRepo) ReplaceTags(ctx context.Context, listingID uint64, names []string) error {
	return nil
}

func (r *fakeListingRepo) TagNames(ctx context.Context, listingID uint64) ([]string, error) {
	return nil, nil
}

func (r *fakeListingRepo) ReplacePersonalizationFields(ctx context.Context, listingID uint64, fields []model.PersonalizationField) error {
	return nil
}

func (r *fakeListingRepo) SetDB(db *gorm.DB) {}

func publishedListing() *model.Listing {
	return &model.Listing{
		ID:             1,
		ShopID:         1,
		SellerUID:      "seller",
		Title:          "El yapımı vazo",
		Type:           rules.ListingTypePhysical,
		Status:         rules.ListingPublished,
		Compliance:     rules.ComplianceOK,
		BasePriceMinor: 12000,
		Currency:       "TRY",
		BaseQuantity:   5,
	}
}

func TestCartAddMergeChecksCombinedQuantity(t *testing.T) {
	cartRepo := newFakeCartRepo(&model.CartItem{
		ID:        1,
		BuyerUID:  "buyer",
		ListingID: 1,
		Quantity:  3,
	})
	svc := NewCartService(cartRepo, newFakeListingRepo(publishedListing()))

	// 3 already in the cart plus 3 more exceeds the 5 in stock.
	_, err := svc.Add(context.Background(), "buyer", 1, nil, 3, nil)
	re, ok := rules.AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, rules.CodeInsufficientStock, re.Code)
	assert.Equal(t, 3, cartRepo.items[1].Quantity)

	// 3 plus 2 fits exactly.
	item, err := svc.Add(context.Background(), "buyer", 1, nil, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
	assert.Equal(t, 5, cartRepo.items[1].Quantity)
}

func TestCartAddNewItemStillChecksStock(t *testing.T) {
	svc := NewCartService(newFakeCartRepo(), newFakeListingRepo(publishedListing()))

	_, err := svc.Add(context.Background(), "buyer", 1, nil, 6, nil)
	re, ok := rules.AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, rules.CodeInsufficientStock, re.Code)
}
