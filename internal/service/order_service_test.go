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

type fakeOrderRepo struct {
	orders  map[uint64]*model.Order
	updates int
}

func newFakeOrderRepo(orders ...*model.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: map[uint64]*model.Order{}}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) CreateWithItems(tx *gorm.DB, order *model.Order, items []model.OrderItem) error {
	return nil
}

func (r *fakeOrderRepo) CreateDeliveries(tx *gorm.DB, deliveries []model.DigitalDelivery) error {
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uint64) (*model.Order, error) {
	if o, ok := r.orders[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) FindByRef(ctx context.Context, ref string) (*model.Order, error) {
	for _, o := range r.orders {
		if o.Ref == ref {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) FindByIdempotencyKey(ctx context.Context, key string) (*model.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) FindItem(ctx context.Context, itemID uint64) (*model.OrderItem, *model.Order, error) {
	for _, o := range r.orders {
		for i := range o.Items {
			if o.Items[i].ID == itemID {
				return &o.Items[i], o, nil
			}
		}
	}
	return nil, nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) ListByBuyer(ctx context.Context, buyerUID string) ([]model.Order, error) {
	return nil, nil
}

func (r *fakeOrderRepo) ListItemsBySeller(ctx context.Context, sellerUID string) ([]model.OrderItem, error) {
	return nil, nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *model.Order) error {
	r.orders[order.ID] = order
	r.updates++
	return nil
}

func (r *fakeOrderRepo) SetDB(db *gorm.DB) {}

type deliveredCall struct {
	id         uint64
	objectPath string
}

type fakeDigitalRepo struct {
	deliveries map[uint64]*model.DigitalDelivery // keyed by order item id
	delivered  []deliveredCall
}

func newFakeDigitalRepo(deliveries ...*model.DigitalDelivery) *fakeDigitalRepo {
	r := &fakeDigitalRepo{deliveries: map[uint64]*model.DigitalDelivery{}}
	for _, d := range deliveries {
		r.deliveries[d.OrderItemID] = d
	}
	return r
}

func (r *fakeDigitalRepo) FindByOrderItem(ctx context.Context, orderItemID uint64) (*model.DigitalDelivery, error) {
	if d, ok := r.deliveries[orderItemID]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeDigitalRepo) MarkDelivered(ctx context.Context, id uint64, objectPath string) (int64, error) {
	r.delivered = append(r.delivered, deliveredCall{id: id, objectPath: objectPath})
	for _, d := range r.deliveries {
		if d.ID == id {
			d.Status = rules.DeliveryDelivered
			d.ObjectPath = objectPath
		}
	}
	return 1, nil
}

func (r *fakeDigitalRepo) RecordDownload(ctx context.Context, id uint64) (int64, error) {
	return 1, nil
}

func (r *fakeDigitalRepo) SetDB(db *gorm.DB) {}

func pendingOrder() *model.Order {
	return &model.Order{
		ID:       7,
		Ref:      "ref-7",
		BuyerUID: "buyer",
		Status:   rules.OrderPendingPayment,
		Items: []model.OrderItem{
			{ID: 70, OrderID: 7, SellerUID: "seller", ListingTypeSnapshot: rules.ListingTypeDigital, Quantity: 1},
		},
	}
}

func TestMarkPaidRejectsNonBuyer(t *testing.T) {
	orderRepo := newFakeOrderRepo(pendingOrder())
	svc := NewOrderService(orderRepo, newFakeDigitalRepo())

	_, err := svc.MarkPaid(context.Background(), 7, "stranger")
	re, ok := rules.AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, rules.CodeForbidden, re.Code)
	assert.Zero(t, orderRepo.updates)
	assert.Equal(t, rules.OrderPendingPayment, orderRepo.orders[7].Status)
}

func TestMarkPaidFlipsInstantDeliveryWithItsFile(t *testing.T) {
	orderRepo := newFakeOrderRepo(pendingOrder())
	digitalRepo := newFakeDigitalRepo(&model.DigitalDelivery{
		ID:          3,
		OrderItemID: 70,
		BuyerUID:    "buyer",
		SellerUID:   "seller",
		Mode:        rules.DeliveryInstant,
		Status:      rules.DeliveryPending,
		ObjectPath:  "listing-assets/1/siluet.pdf",
	})
	svc := NewOrderService(orderRepo, digitalRepo)

	order, err := svc.MarkPaid(context.Background(), 7, "buyer")
	require.NoError(t, err)
	assert.Equal(t, rules.OrderPaid, order.Status)
	require.NotNil(t, order.PaidAt)
	require.Len(t, digitalRepo.delivered, 1)
	assert.Equal(t, "listing-assets/1/siluet.pdf", digitalRepo.delivered[0].objectPath)
	assert.Equal(t, rules.DeliveryDelivered, digitalRepo.deliveries[70].Status)
}

func TestMarkPaidLeavesManualDeliveryPending(t *testing.T) {
	orderRepo := newFakeOrderRepo(pendingOrder())
	digitalRepo := newFakeDigitalRepo(&model.DigitalDelivery{
		ID:          4,
		OrderItemID: 70,
		BuyerUID:    "buyer",
		SellerUID:   "seller",
		Mode:        rules.DeliveryManual,
		Status:      rules.DeliveryPending,
	})
	svc := NewOrderService(orderRepo, digitalRepo)

	_, err := svc.MarkPaid(context.Background(), 7, "buyer")
	require.NoError(t, err)
	assert.Empty(t, digitalRepo.delivered)
	assert.Equal(t, rules.DeliveryPending, digitalRepo.deliveries[70].Status)
}

func TestMarkPaidRejectsSettledOrder(t *testing.T) {
	order := pendingOrder()
	order.Status = rules.OrderPaid
	svc := NewOrderService(newFakeOrderRepo(order), newFakeDigitalRepo())

	_, err := svc.MarkPaid(context.Background(), 7, "buyer")
	re, ok := rules.AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, rules.CodeConflict, re.Code)
}
