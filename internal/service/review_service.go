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

type ReviewService interface {
	Create(ctx context.Context, orderItemID uint64, uid string, rating int, body string) (*model.Review, error)
	ListByListing(ctx context.Context, listingID uint64) ([]model.Review, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	orderRepo   repository.OrderRepository
	digitalRepo repository.DigitalDeliveryRepository
	cfg         rules.Config
}

func NewReviewService(reviewRepo repository.ReviewRepository, orderRepo repository.OrderRepository, digitalRepo repository.DigitalDeliveryRepository, cfg rules.Config) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, orderRepo: orderRepo, digitalRepo: digitalRepo, cfg: cfg}
}

func (s *reviewService) Create(ctx context.Context, orderItemID uint64, uid string, rating int, body string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, &rules.Error{Code: rules.CodeValidation, Message: "rating must be between 1 and 5"}
	}
	item, order, err := s.orderRepo.FindItem(ctx, orderItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	hasReview, err := s.reviewRepo.ExistsForOrderItem(ctx, orderItemID)
	if err != nil {
		return nil, err
	}

	rc := rules.ReviewContext{
		OrderItemID:           orderItemID,
		BuyerUserID:           order.BuyerUID,
		ListingType:           item.ListingTypeSnapshot,
		OrderStatus:           order.Status,
		HasReview:             hasReview,
		ActualDeliveredAt:     order.DeliveredAt,
		EstimatedDeliveryDate: order.EstimatedDeliveryDate,
		OrderPaidAt:           order.PaidAt,
		OrderCreatedAt:        order.CreatedAt,
	}
	if item.ListingTypeSnapshot == rules.ListingTypeDigital {
		delivery, err := s.digitalRepo.FindByOrderItem(ctx, orderItemID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if delivery != nil {
			rc.FirstDownloadedAt = delivery.FirstDownload
		}
	}
	if err := rules.AssertCanReview(rc, uid, s.cfg, time.Now()); err != nil {
		return nil, err
	}

	review := &model.Review{
		OrderItemID: orderItemID,
		ListingID:   item.ListingID,
		BuyerUID:    uid,
		Rating:      rating,
		Body:        body,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListByListing(ctx context.Context, listingID uint64) ([]model.Review, error) {
	return s.reviewRepo.ListByListing(ctx, listingID)
}
