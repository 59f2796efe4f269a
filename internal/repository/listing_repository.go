package repository

import (
	"context"
	"errors"

	"github.com/atolyem/marketplace-backend/internal/model"
	"github.com/atolyem/marketplace-backend/internal/rules"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDBNotReady = errors.New("database not initialized")

type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	FindByID(ctx context.Context, id uint64) (*model.Listing, error)
	FindByIDFull(ctx context.Context, id uint64) (*model.Listing, error)
	FindForUpdate(tx *gorm.DB, id uint64) (*model.Listing, error)
	FindVariantForUpdate(tx *gorm.DB, id uint64) (*model.ListingVariant, error)
	List(ctx context.Context, limit, offset int) ([]model.Listing, int64, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]model.Listing, error)
	Update(ctx context.Context, listing *model.Listing) error
	FindVariant(ctx context.Context, listingID, variantID uint64) (*model.ListingVariant, error)
	ReplaceTags(ctx context.Context, listingID uint64, names []string) error
	TagNames(ctx context.Context, listingID uint64) ([]string, error)
	ReplacePersonalizationFields(ctx context.Context, listingID uint64, fields []model.PersonalizationField) error
	SetDB(db *gorm.DB)
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *model.Listing) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *listingRepository) FindByID(ctx context.Context, id uint64) (*model.Listing, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var listing model.Listing
	if err := r.db.WithContext(ctx).First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// FindByIDFull loads the listing with its variants, access grants and
// personalization fields.
func (r *listingRepository) FindByIDFull(ctx context.Context, id uint64) (*model.Listing, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var listing model.Listing
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("AccessGrants").
		Preload("PersonalizationFields").
		First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// FindForUpdate fetches the listing row under a row lock. Must run inside
// the checkout transaction; this is what makes the read-check-decrement
// sequence safe against concurrent checkouts.
func (r *listingRepository) FindForUpdate(tx *gorm.DB, id uint64) (*model.Listing, error) {
	var listing model.Listing
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&listing, id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) FindVariantForUpdate(tx *gorm.DB, id uint64) (*model.ListingVariant, error) {
	var variant model.ListingVariant
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&variant, id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *listingRepository) List(ctx context.Context, limit, offset int) ([]model.Listing, int64, error) {
	if r.db == nil {
		return nil, 0, ErrDBNotReady
	}
	var (
		listings []model.Listing
		total    int64
	)
	q := r.db.WithContext(ctx).Model(&model.Listing{}).
		Where("status = ? AND is_private = ?", rules.ListingPublished, false)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&listings).Error; err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (r *listingRepository) ListBySeller(ctx context.Context, sellerUID string) ([]model.Listing, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var listings []model.Listing
	if err := r.db.WithContext(ctx).
		Where("seller_uid = ?", sellerUID).
		Order("created_at desc").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) Update(ctx context.Context, listing *model.Listing) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(listing).Error
}

func (r *listingRepository) FindVariant(ctx context.Context, listingID, variantID uint64) (*model.ListingVariant, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var variant model.ListingVariant
	if err := r.db.WithContext(ctx).
		Where("id = ? AND listing_id = ?", variantID, listingID).
		First(&variant).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// ReplaceTags swaps the listing's tag set for the given normalized names,
// creating tag rows as needed.
func (r *listingRepository) ReplaceTags(ctx context.Context, listingID uint64, names []string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listingID).Delete(&model.ListingTag{}).Error; err != nil {
			return err
		}
		for _, name := range names {
			var tag model.Tag
			if err := tx.Where("name = ?", name).FirstOrCreate(&tag, model.Tag{Name: name}).Error; err != nil {
				return err
			}
			if err := tx.Create(&model.ListingTag{ListingID: listingID, TagID: tag.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *listingRepository) TagNames(ctx context.Context, listingID uint64) ([]string, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var names []string
	if err := r.db.WithContext(ctx).
		Model(&model.Tag{}).
		Joins("JOIN listing_tags ON listing_tags.tag_id = tags.id").
		Where("listing_tags.listing_id = ?", listingID).
		Order("tags.name").
		Pluck("tags.name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func (r *listingRepository) ReplacePersonalizationFields(ctx context.Context, listingID uint64, fields []model.PersonalizationField) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listingID).Delete(&model.PersonalizationField{}).Error; err != nil {
			return err
		}
		for i := range fields {
			fields[i].ListingID = listingID
			fields[i].ID = 0
			if err := tx.Create(&fields[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *listingRepository) SetDB(db *gorm.DB) {
	r.db = db
}
