package service

import (
	"context"
	"errors"
	"time"

	"github.com/atolyem/marketplace-backend/internal/model"
	"github.com/atolyem/marketplace-backend/internal/repository"
	"github.com/atolyem/marketplace-backend/internal/rules"
	"gorm.io/gorm"
)

type OrderService interface {
	GetByRef(ctx context.Context, ref, uid string) (*model.Order, error)
	ListMine(ctx context.Context, buyerUID string) ([]model.Order, error)
	ListSales(ctx context.Context, sellerUID string) ([]model.OrderItem, error)
	MarkPaid(ctx context.Context, orderID uint64, buyerUID string) (*model.Order, error)
	MarkShipped(ctx context.Context, orderID uint64, sellerUID string, estimatedDelivery *time.Time) (*model.Order, error)
	MarkDelivered(ctx context.Context, orderID uint64, buyerUID string) (*model.Order, error)
	Cancel(ctx context.Context, orderID uint64, buyerUID string) (*model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	digitalRepo repository.DigitalDeliveryRepository
}

func NewOrderService(orderRepo repository.OrderRepository, digitalRepo repository.DigitalDeliveryRepository) OrderService {
	return &orderService{orderRepo: orderRepo, digitalRepo: digitalRepo}
}

func (s *orderService) GetByRef(ctx context.Context, ref, uid string) (*model.Order, error) {
	order, err := s.orderRepo.FindByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if uid != "" && uid != order.BuyerUID && !orderHasSeller(order, uid) {
		return nil, &rules.Error{Code: rules.CodeForbidden, Message: "you are not part of this order"}
	}
	return order, nil
}

func (s *orderService) ListMine(ctx context.Context, buyerUID string) ([]model.Order, error) {
	if buyerUID == "" {
		return nil, errors.New("buyer is required")
	}
	return s.orderRepo.ListByBuyer(ctx, buyerUID)
}

func (s *orderService) ListSales(ctx context.Context, sellerUID string) ([]model.OrderItem, error) {
	if sellerUID == "" {
		return nil, errors.New("seller is required")
	}
	return s.orderRepo.ListItemsBySeller(ctx, sellerUID)
}

// MarkPaid settles payment for the buyer's own order. Payment unlocks
// downloads and reviews, so nobody else may flip the switch. INSTANT digital
// items become downloadable as soon as payment settles.
func (s *orderService) MarkPaid(ctx context.Context, orderID uint64, buyerUID string) (*model.Order, error) {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerUID != buyerUID {
		return nil, &rules.Error{Code: rules.CodeForbidden, Message: "only the buyer can pay for this order"}
	}
	if order.Status != rules.OrderPendingPayment {
		return nil, &rules.Error{Code: rules.CodeConflict, Message: "order is not awaiting payment"}
	}
	now := time.Now()
	order.Status = rules.OrderPaid
	order.PaidAt = &now
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	for _, item := range order.Items {
		if item.ListingTypeSnapshot != rules.ListingTypeDigital {
			continue
		}
		delivery, err := s.digitalRepo.FindByOrderItem(ctx, item.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		if delivery.Mode == rules.DeliveryInstant && delivery.Status == rules.DeliveryPending {
			if _, err := s.digitalRepo.MarkDelivered(ctx, delivery.ID, delivery.ObjectPath); err != nil {
				return nil, err
			}
		}
	}
	return order, nil
}

func (s *orderService) MarkShipped(ctx context.Context, orderID uint64, sellerUID string, estimatedDelivery *time.Time) (*model.Order, error) {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !orderHasSeller(order, sellerUID) {
		return nil, &rules.Error{Code: rules.CodeForbidden, Message: "only a seller on this order can mark it shipped"}
	}
	if order.Status != rules.OrderPaid {
		return nil, &rules.Error{Code: rules.CodeConflict, Message: "only a paid order can be shipped"}
	}
	now := time.Now()
	order.Status = rules.OrderShipped
	order.ShippedAt = &now
	if estimatedDelivery != nil {
		order.EstimatedDeliveryDate = estimatedDelivery
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) MarkDelivered(ctx context.Context, orderID uint64, buyerUID string) (*model.Order, error) {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerUID != buyerUID {
		return nil, &rules.Error{Code: rules.CodeForbidden, Message: "only the buyer can confirm delivery"}
	}
	if order.Status == rules.OrderDelivered {
		return order, nil
	}
	if order.Status != rules.OrderShipped {
		return nil, &rules.Error{Code: rules.CodeConflict, Message: "only a shipped order can be confirmed delivered"}
	}
	now := time.Now()
	order.Status = rules.OrderDelivered
	order.DeliveredAt = &now
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel is only possible while the order still awaits payment. Stock is
// not restocked here; that is a policy decision handled by support tooling.
func (s *orderService) Cancel(ctx context.Context, orderID uint64, buyerUID string) (*model.Order, error) {
	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerUID != buyerUID {
		return nil, &rules.Error{Code: rules.CodeForbidden, Message: "only the buyer can cancel this order"}
	}
	if order.Status != rules.OrderPendingPayment {
		return nil, &rules.Error{Code: rules.CodeConflict, Message: "this order can no longer be cancelled"}
	}
	order.Status = rules.OrderCancelled
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) find(ctx context.Context, orderID uint64) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func orderHasSeller(order *model.Order, uid string) bool {
	if uid == "" {
		return false
	}
	for _, item := range order.Items {
		if item.SellerUID == uid {
			return true
		}
	}
	return false
}
