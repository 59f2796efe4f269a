package repository

import (
	"context"
	"time"

	"github.com/atolyem/marketplace-backend/internal/model"
	"github.com/atolyem/marketplace-backend/internal/rules"
	"gorm.io/gorm"
)

type DigitalDeliveryRepository interface {
	FindByOrderItem(ctx context.Context, orderItemID uint64) (*model.DigitalDelivery, error)
	MarkDelivered(ctx context.Context, id uint64, objectPath string) (int64, error)
	RecordDownload(ctx context.Context, id uint64) (int64, error)
	SetDB(db *gorm.DB)
}

type digitalDeliveryRepository struct {
	db *gorm.DB
}

func NewDigitalDeliveryRepository(db *gorm.DB) DigitalDeliveryRepository {
	return &digitalDeliveryRepository{db: db}
}

func (r *digitalDeliveryRepository) FindByOrderItem(ctx context.Context, orderItemID uint64) (*model.DigitalDelivery, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var delivery model.DigitalDelivery
	if err := r.db.WithContext(ctx).
		Where("order_item_id = ?", orderItemID).
		First(&delivery).Error; err != nil {
		return nil, err
	}
	return &delivery, nil
}

// MarkDelivered performs the one-shot PENDING to DELIVERED transition. The
// guarded update keeps a concurrent double-delivery from writing twice; zero
// rows affected means the row was already delivered.
func (r *digitalDeliveryRepository) MarkDelivered(ctx context.Context, id uint64, objectPath string) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.DigitalDelivery{}).
		Where("id = ? AND status = ?", id, rules.DeliveryPending).
		Updates(map[string]interface{}{
			"status":       rules.DeliveryDelivered,
			"object_path":  objectPath,
			"delivered_at": now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// RecordDownload increments the counter only while quota remains, in one
// guarded statement so concurrent downloads cannot exceed max_downloads.
func (r *digitalDeliveryRepository) RecordDownload(ctx context.Context, id uint64) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.DigitalDelivery{}).
		Where("id = ? AND download_count < max_downloads", id).
		Updates(map[string]interface{}{
			"download_count":      gorm.Expr("download_count + 1"),
			"first_downloaded_at": gorm.Expr("COALESCE(first_downloaded_at, ?)", now),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *digitalDeliveryRepository) SetDB(db *gorm.DB) {
	r.db = db
}
