package repository

import (
	"context"
	"time"

	"github.com/atolyem/marketplace-backend/internal/model"
	"github.com/atolyem/marketplace-backend/internal/rules"
	"gorm.io/gorm"
)

type OrderRepository interface {
	CreateWithItems(tx *gorm.DB, order *model.Order, items []model.OrderItem) error
	CreateDeliveries(tx *gorm.DB, deliveries []model.DigitalDelivery) error
	FindByID(ctx context.Context, id uint64) (*model.Order, error)
	FindByRef(ctx context.Context, ref string) (*model.Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*model.Order, error)
	FindItem(ctx context.Context, itemID uint64) (*model.OrderItem, *model.Order, error)
	ListByBuyer(ctx context.Context, buyerUID string) ([]model.Order, error)
	ListItemsBySeller(ctx context.Context, sellerUID string) ([]model.OrderItem, error)
	Update(ctx context.Context, order *model.Order) error
	SetDB(db *gorm.DB)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateWithItems persists the order and its frozen item snapshots in the
// caller's transaction. Item rows never exist without their order; the
// caller reads the assigned item IDs back from the slice.
func (r *orderRepository) CreateWithItems(tx *gorm.DB, order *model.Order, items []model.OrderItem) error {
	if err := tx.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
		if err := tx.Create(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepository) CreateDeliveries(tx *gorm.DB, deliveries []model.DigitalDelivery) error {
	for i := range deliveries {
		if err := tx.Create(&deliveries[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uint64) (*model.Order, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var order model.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByRef(ctx context.Context, ref string) (*model.Order, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var order model.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("ref = ?", ref).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByIdempotencyKey(ctx context.Context, key string) (*model.Order, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var order model.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("idempotency_key = ?", key).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindItem(ctx context.Context, itemID uint64) (*model.OrderItem, *model.Order, error) {
	if r.db == nil {
		return nil, nil, ErrDBNotReady
	}
	var item model.OrderItem
	if err := r.db.WithContext(ctx).First(&item, itemID).Error; err != nil {
		return nil, nil, err
	}
	var order model.Order
	if err := r.db.WithContext(ctx).First(&order, item.OrderID).Error; err != nil {
		return nil, nil, err
	}
	return &item, &order, nil
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerUID string) ([]model.Order, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var orders []model.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("buyer_uid = ?", buyerUID).
		Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListItemsBySeller(ctx context.Context, sellerUID string) ([]model.OrderItem, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var items []model.OrderItem
	if err := r.db.WithContext(ctx).
		Where("seller_uid = ?", sellerUID).
		Order("id DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *orderRepository) SetDB(db *gorm.DB) {
	r.db = db
}

// PaymentCompleted reports whether an order has settled from the digital
// delivery rules' point of view.
func PaymentCompleted(status rules.OrderStatus, paidAt *time.Time) bool {
	if paidAt != nil {
		return true
	}
	switch status {
	case rules.OrderPaid, rules.OrderShipped, rules.OrderDelivered:
		return true
	}
	return false
}
