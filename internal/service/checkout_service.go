package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/atolyem/marketplace-backend/internal/model"
	"github.com/atolyem/marketplace-backend/internal/repository"
	"github.com/atolyem/marketplace-backend/internal/rules"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CheckoutInput struct {
	BuyerUID       string
	IdempotencyKey string
	International  bool
	DiscountMinor  int64
}

type CheckoutService interface {
	Checkout(ctx context.Context, in CheckoutInput) (*model.Order, error)
	SetDB(db *gorm.DB)
}

type checkoutService struct {
	db          *gorm.DB
	cartRepo    repository.CartRepository
	listingRepo repository.ListingRepository
	shopRepo    repository.ShopRepository
	orderRepo   repository.OrderRepository
	cfg         rules.Config
}

func NewCheckoutService(db *gorm.DB, cartRepo repository.CartRepository, listingRepo repository.ListingRepository, shopRepo repository.ShopRepository, orderRepo repository.OrderRepository, cfg rules.Config) CheckoutService {
	return &checkoutService{
		db:          db,
		cartRepo:    cartRepo,
		listingRepo: listingRepo,
		shopRepo:    shopRepo,
		orderRepo:   orderRepo,
		cfg:         cfg,
	}
}

// Checkout turns the buyer's cart into an order. Everything that affects
// money or stock is re-read and re-validated inside one transaction with the
// listing rows locked, so a concurrent checkout of the same listing waits on
// the lock and then fails its own stock check rather than overselling.
//
// The idempotency key makes retries safe: a request replayed with the same
// key returns the already-created order and decrements nothing.
func (s *checkoutService) Checkout(ctx context.Context, in CheckoutInput) (*model.Order, error) {
	if in.BuyerUID == "" {
		return nil, &rules.Error{Code: rules.CodeValidation, Message: "buyer is required"}
	}
	if in.IdempotencyKey == "" {
		return nil, &rules.Error{Code: rules.CodeValidation, Message: "idempotency key is required"}
	}
	if in.DiscountMinor < 0 {
		return nil, &rules.Error{Code: rules.CodeValidation, Message: "discount must not be negative"}
	}
	if s.db == nil {
		return nil, repository.ErrDBNotReady
	}

	if existing, err := s.orderRepo.FindByIdempotencyKey(ctx, in.IdempotencyKey); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cartItems, err := s.cartRepo.ListByBuyer(ctx, in.BuyerUID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, &rules.Error{Code: rules.CodeValidation, Message: "your cart is empty"}
	}

	var order *model.Order
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var createErr error
		order, createErr = s.placeOrder(tx, cartItems, in)
		return createErr
	})
	if txErr != nil {
		// A concurrent request with the same key may have won the insert
		// race on the unique key; the order it created is our result.
		if existing, ferr := s.orderRepo.FindByIdempotencyKey(ctx, in.IdempotencyKey); ferr == nil {
			return existing, nil
		}
		return nil, txErr
	}
	return order, nil
}

type lockedLine struct {
	cart    model.CartItem
	listing *model.Listing
	variant *model.ListingVariant
	stock   int
	price   int64
	// personalization is the sanitized value map; validation ran on it, so
	// it is also what the order item snapshots.
	personalization map[string]string
}

func (s *checkoutService) placeOrder(tx *gorm.DB, cartItems []model.CartItem, in CheckoutInput) (*model.Order, error) {
	lines := make([]lockedLine, 0, len(cartItems))
	for _, item := range cartItems {
		listing, err := s.listingRepo.FindForUpdate(tx, item.ListingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &rules.Error{
					Code:    rules.CodeListingNotAvailable,
					Message: "a listing in your cart no longer exists",
					Details: map[string]any{"cartItemId": item.ID},
				}
			}
			return nil, err
		}
		line := lockedLine{cart: item, listing: listing, stock: listing.BaseQuantity, price: listing.BasePriceMinor}
		if item.VariantID != nil {
			variant, err := s.listingRepo.FindVariantForUpdate(tx, *item.VariantID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, &rules.Error{
						Code:    rules.CodeListingNotAvailable,
						Message: "a variant in your cart no longer exists",
						Details: map[string]any{"cartItemId": item.ID},
					}
				}
				return nil, err
			}
			line.variant = variant
			line.stock = rules.EffectiveStock(listing.BaseQuantity, variant.Quantity)
			line.price = rules.EffectivePrice(listing.BasePriceMinor, variant.PriceMinor)
		}
		if err := tx.Where("listing_id = ?", listing.ID).
			Find(&line.listing.PersonalizationFields).Error; err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	if err := s.validateLines(lines, in.BuyerUID); err != nil {
		return nil, err
	}

	currency := lines[0].listing.Currency
	priced := make([]rules.PricedItem, 0, len(lines))
	for _, line := range lines {
		priced = append(priced, rules.PricedItem{
			CartItemID:     line.cart.ID,
			ShopID:         line.listing.ShopID,
			UnitPriceMinor: line.price,
			Quantity:       line.cart.Quantity,
			Currency:       line.listing.Currency,
		})
	}

	shipping, err := s.computeShipping(tx.Statement.Context, lines, in.International, currency)
	if err != nil {
		return nil, err
	}
	discount, err := rules.NewMoney(in.DiscountMinor, currency)
	if err != nil {
		return nil, err
	}
	totals, err := rules.CalculateOrderTotals(priced, shipping, discount, currency)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &model.Order{
		Ref:             uuid.NewString(),
		BuyerUID:        in.BuyerUID,
		Status:          rules.OrderPendingPayment,
		Currency:        currency,
		SubtotalMinor:   totals.Subtotal.AmountMinor,
		ShippingMinor:   totals.Shipping.AmountMinor,
		DiscountMinor:   totals.Discount.AmountMinor,
		GrandTotalMinor: totals.GrandTotal.AmountMinor,
		International:   in.International,
		IdempotencyKey:  in.IdempotencyKey,
	}

	orderItems := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		variantLabel := ""
		if line.variant != nil {
			variantLabel = line.variant.Label
		}
		snap := rules.NewOrderItemSnapshot(rules.SnapshotInput{
			Title:             line.listing.Title,
			ListingType:       line.listing.Type,
			UnitPriceMinor:    line.price,
			Currency:          line.listing.Currency,
			VariantLabel:      variantLabel,
			Personalization:   line.personalization,
			ProcessingDaysMin: line.listing.ProcessingDaysMin,
			ProcessingDaysMax: line.listing.ProcessingDaysMax,
			ReturnPolicy:      line.listing.ReturnPolicy,
			ReturnWindowDays:  line.listing.ReturnWindowDays,
		}, now)
		encodedPersonalization, err := json.Marshal(snap.Personalization)
		if err != nil {
			return nil, err
		}
		orderItems = append(orderItems, model.OrderItem{
			ListingID:               line.listing.ID,
			VariantID:               line.cart.VariantID,
			ShopID:                  line.listing.ShopID,
			SellerUID:               line.listing.SellerUID,
			Quantity:                line.cart.Quantity,
			TitleSnapshot:           snap.Title,
			ListingTypeSnapshot:     snap.ListingType,
			UnitPriceMinor:          snap.UnitPriceMinor,
			Currency:                snap.Currency,
			VariantLabelSnapshot:    snap.VariantLabel,
			PersonalizationSnapshot: string(encodedPersonalization),
			ProcessingDaysMin:       snap.ProcessingDaysMin,
			ProcessingDaysMax:       snap.ProcessingDaysMax,
			ReturnPolicySnapshot:    snap.ReturnPolicy,
			ReturnWindowDays:        snap.ReturnWindowDays,
			SnapshotAt:              snap.CapturedAt,
		})
	}

	if err := s.orderRepo.CreateWithItems(tx, order, orderItems); err != nil {
		return nil, err
	}

	var deliveries []model.DigitalDelivery
	for i, line := range lines {
		if line.listing.Type != rules.ListingTypeDigital {
			continue
		}
		delivery := model.DigitalDelivery{
			OrderItemID:  orderItems[i].ID,
			BuyerUID:     in.BuyerUID,
			SellerUID:    line.listing.SellerUID,
			Mode:         line.listing.DeliveryMode,
			Status:       rules.DeliveryPending,
			MaxDownloads: line.listing.MaxDownloads,
			ExpiresAt:    rules.DownloadExpiry(now, s.cfg.DownloadExpiryDays),
		}
		// Instant items serve the listing's own file; the path is captured
		// here so a later asset swap cannot change a sold order.
		if line.listing.DeliveryMode == rules.DeliveryInstant {
			delivery.ObjectPath = line.listing.AssetObjectPath
		}
		deliveries = append(deliveries, delivery)
	}
	if len(deliveries) > 0 {
		if err := s.orderRepo.CreateDeliveries(tx, deliveries); err != nil {
			return nil, err
		}
	}

	// Decrement happens exactly once, on the rows still held under lock.
	for _, line := range lines {
		remaining, ok := rules.CalculateStockDecrement(line.stock, line.cart.Quantity)
		if !ok {
			// Validation above ran on the same locked values, so this is
			// unreachable short of a logic bug; fail the transaction.
			return nil, &rules.Error{
				Code:    rules.CodeInsufficientStock,
				Message: "stock changed during checkout",
				Details: map[string]any{"listingId": line.listing.ID},
			}
		}
		if line.variant != nil && line.variant.Quantity != nil {
			if err := tx.Model(&model.ListingVariant{}).
				Where("id = ?", line.variant.ID).
				Update("quantity", remaining).Error; err != nil {
				return nil, err
			}
		} else {
			if err := tx.Model(&model.Listing{}).
				Where("id = ?", line.listing.ID).
				Update("base_quantity", remaining).Error; err != nil {
				return nil, err
			}
		}
	}

	if err := s.cartRepo.ClearForBuyer(tx, in.BuyerUID); err != nil {
		return nil, err
	}
	order.Items = orderItems
	return order, nil
}

// validateLines runs the per-item rule checks and personalization
// validation, collecting every failure so the buyer sees all problems in one
// response.
func (s *checkoutService) validateLines(lines []lockedLine, buyerUID string) error {
	checkoutItems := make([]rules.CheckoutItem, 0, len(lines))
	for _, line := range lines {
		checkoutItems = append(checkoutItems, rules.CheckoutItem{
			CartItemID:        line.cart.ID,
			ListingID:         line.listing.ID,
			VariantID:         line.cart.VariantID,
			Quantity:          line.cart.Quantity,
			CurrentStock:      line.stock,
			ListingStatus:     line.listing.Status,
			ListingCompliance: line.listing.Compliance,
			SellerUserID:      line.listing.SellerUID,
		})
	}
	validations := rules.ValidateCartItemsForCheckout(checkoutItems, buyerUID)

	type itemProblem struct {
		CartItemID uint64         `json:"cartItemId"`
		ListingID  uint64         `json:"listingId"`
		Errors     []*rules.Error `json:"errors"`
	}
	var problems []itemProblem
	for i, v := range validations {
		errs := v.Errors
		if perr := s.validateLinePersonalization(&lines[i]); perr != nil {
			if re, ok := rules.AsRuleError(perr); ok {
				errs = append(errs, re)
			} else {
				return perr
			}
		}
		if len(errs) > 0 {
			problems = append(problems, itemProblem{CartItemID: v.CartItemID, ListingID: v.ListingID, Errors: errs})
		}
	}
	if len(problems) > 0 {
		return &rules.Error{
			Code:    rules.CodeValidation,
			Message: "some items in your cart cannot be checked out",
			Details: map[string]any{"items": problems},
		}
	}
	return nil
}

// validateLinePersonalization sanitizes the cart's stored values against the
// listing's current field definitions and keeps the sanitized map on the
// line. Fields can change between cart-add and checkout; only values that
// survive sanitization against the definitions of record end up in the
// order item snapshot.
func (s *checkoutService) validateLinePersonalization(line *lockedLine) error {
	values := map[string]string{}
	if line.cart.Personalization != "" {
		if err := json.Unmarshal([]byte(line.cart.Personalization), &values); err != nil {
			return err
		}
	}
	defs := make([]rules.PersonalizationFieldDef, 0, len(line.listing.PersonalizationFields))
	for _, f := range line.listing.PersonalizationFields {
		defs = append(defs, f.Def())
	}
	line.personalization = rules.SanitizePersonalization(values, defs)
	if len(defs) == 0 {
		return nil
	}
	return rules.ValidatePersonalization(line.personalization, defs)
}

// computeShipping prices shipping for the physical lines only; digital
// goods never ship.
func (s *checkoutService) computeShipping(ctx context.Context, lines []lockedLine, international bool, currency string) (rules.Money, error) {
	var priced []rules.PricedItem
	shopIDs := make([]uint64, 0)
	seen := map[uint64]struct{}{}
	for _, line := range lines {
		if line.listing.Type == rules.ListingTypeDigital {
			continue
		}
		priced = append(priced, rules.PricedItem{
			CartItemID:     line.cart.ID,
			ShopID:         line.listing.ShopID,
			UnitPriceMinor: line.price,
			Quantity:       line.cart.Quantity,
			Currency:       line.listing.Currency,
		})
		if _, ok := seen[line.listing.ShopID]; !ok {
			seen[line.listing.ShopID] = struct{}{}
			shopIDs = append(shopIDs, line.listing.ShopID)
		}
	}
	if len(priced) == 0 {
		return rules.ZeroMoney(currency), nil
	}

	ruleRows, err := s.shopRepo.ShippingRulesForShops(ctx, shopIDs)
	if err != nil {
		return rules.Money{}, err
	}
	rulesByShop := make(map[uint64]rules.ShippingRules, len(ruleRows))
	for shopID, rows := range ruleRows {
		var sr rules.ShippingRules
		for _, row := range rows {
			rate := rules.ShippingRate{
				BasePriceMinor:      row.BasePriceMinor,
				FreeAboveMinor:      row.FreeAboveMinor,
				AdditionalItemMinor: row.AdditionalItemMinor,
			}
			switch row.Zone {
			case model.ShippingZoneDomestic:
				sr.Domestic = rate
			case model.ShippingZoneInternational:
				intl := rate
				sr.International = &intl
			}
		}
		rulesByShop[shopID] = sr
	}
	return rules.CalculateShippingTotal(priced, rulesByShop, international, currency)
}

func (s *checkoutService) SetDB(db *gorm.DB) {
	s.db = db
}
