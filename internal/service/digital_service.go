package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/atolyem/marketplace-backend/internal/repository"
	"github.com/atolyem/marketplace-backend/internal/rules"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ObjectStore is the file backend digital goods live in.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath string, r io.Reader, contentType string) error
	SignedDownloadURL(objectPath string, ttl time.Duration) (string, error)
}

const downloadURLTTL = 15 * time.Minute

type DigitalService interface {
	Download(ctx context.Context, orderItemID uint64, uid string) (string, error)
	Deliver(ctx context.Context, orderItemID uint64, sellerUID string, file io.Reader, filename, contentType string) error
}

type digitalService struct {
	digitalRepo repository.DigitalDeliveryRepository
	orderRepo   repository.OrderRepository
	store       ObjectStore
}

func NewDigitalService(digitalRepo repository.DigitalDeliveryRepository, orderRepo repository.OrderRepository, store ObjectStore) DigitalService {
	return &digitalService{digitalRepo: digitalRepo, orderRepo: orderRepo, store: store}
}

// Download runs the eligibility rules, burns one download from the quota and
// mints a short-lived signed URL. The guarded increment means two concurrent
// requests cannot take the quota below zero; losing the race reports the
// limit as exhausted.
func (s *digitalService) Download(ctx context.Context, orderItemID uint64, uid string) (string, error) {
	if s.store == nil {
		return "", errors.New("object storage is not configured")
	}
	delivery, err := s.digitalRepo.FindByOrderItem(ctx, orderItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	_, order, err := s.orderRepo.FindItem(ctx, orderItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	paymentCompleted := repository.PaymentCompleted(order.Status, order.PaidAt)
	if err := rules.AssertCanDownload(delivery.DownloadContext(paymentCompleted), uid, time.Now()); err != nil {
		return "", err
	}
	if delivery.ObjectPath == "" {
		return "", &rules.Error{Code: rules.CodeOrderNotEligible, Message: "your files are not available yet"}
	}

	affected, err := s.digitalRepo.RecordDownload(ctx, delivery.ID)
	if err != nil {
		return "", err
	}
	if affected == 0 {
		return "", &rules.Error{Code: rules.CodeDownloadLimit, Message: "download limit reached"}
	}
	return s.store.SignedDownloadURL(delivery.ObjectPath, downloadURLTTL)
}

// Deliver is the seller's manual upload for MANUAL-mode items. It is a
// one-shot transition; re-delivery is rejected.
func (s *digitalService) Deliver(ctx context.Context, orderItemID uint64, sellerUID string, file io.Reader, filename, contentType string) error {
	if s.store == nil {
		return errors.New("object storage is not configured")
	}
	delivery, err := s.digitalRepo.FindByOrderItem(ctx, orderItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	_, order, err := s.orderRepo.FindItem(ctx, orderItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !repository.PaymentCompleted(order.Status, order.PaidAt) {
		return &rules.Error{Code: rules.CodeOrderNotEligible, Message: "the order has not been paid yet"}
	}
	if err := rules.AssertCanDeliverDigital(delivery.DownloadContext(true), sellerUID); err != nil {
		return err
	}

	objectPath := fmt.Sprintf("deliveries/%d/%s%s", orderItemID, uuid.NewString(), path.Ext(filename))
	if err := s.store.Upload(ctx, objectPath, file, contentType); err != nil {
		return err
	}
	affected, err := s.digitalRepo.MarkDelivered(ctx, delivery.ID, objectPath)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &rules.Error{Code: rules.CodeConflict, Message: "this item has already been delivered"}
	}
	return nil
}
