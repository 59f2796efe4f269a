package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/atolyem/marketplace-backend/internal/model"
	"github.com/atolyem/marketplace-backend/internal/repository"
	"github.com/atolyem/marketplace-backend/internal/rules"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

type ListingInput struct {
	Title             string
	Description       string
	Type              rules.ListingType
	BasePriceMinor    int64
	BaseQuantity      int
	IsPrivate         bool
	ProcessingDaysMin int
	ProcessingDaysMax int
	ReturnPolicy      rules.ReturnPolicy
	ReturnWindowDays  int
	DeliveryMode      rules.DeliveryMode
	MaxDownloads      int
}

type ListingService interface {
	Create(ctx context.Context, sellerUID string, in ListingInput) (*model.Listing, error)
	Update(ctx context.Context, id uint64, actor rules.Viewer, in ListingInput) (*model.Listing, error)
	Publish(ctx context.Context, id uint64, actor rules.Viewer) (*model.Listing, error)
	Archive(ctx context.Context, id uint64, actor rules.Viewer) (*model.Listing, error)
	Get(ctx context.Context, id uint64, viewer rules.Viewer) (*model.Listing, error)
	List(ctx context.Context, limit, offset int) ([]model.Listing, int64, error)
	ListMine(ctx context.Context, sellerUID string) ([]model.Listing, error)
	SetTags(ctx context.Context, id uint64, actor rules.Viewer, raw []string) ([]string, error)
	SetPersonalizationFields(ctx context.Context, id uint64, actor rules.Viewer, fields []model.PersonalizationField) error
	UploadAsset(ctx context.Context, id uint64, actor rules.Viewer, file io.Reader, filename, contentType string) error
}

type listingService struct {
	listingRepo repository.ListingRepository
	shopRepo    repository.ShopRepository
	store       ObjectStore
	cfg         rules.Config
}

func NewListingService(listingRepo repository.ListingRepository, shopRepo repository.ShopRepository, store ObjectStore, cfg rules.Config) ListingService {
	return &listingService{listingRepo: listingRepo, shopRepo: shopRepo, store: store, cfg: cfg}
}

func (s *listingService) Create(ctx context.Context, sellerUID string, in ListingInput) (*model.Listing, error) {
	if sellerUID == "" {
		return nil, errors.New("seller is required")
	}
	shop, err := s.shopRepo.FindByOwner(ctx, sellerUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &rules.Error{Code: rules.CodeValidation, Message: "open a shop before creating listings"}
		}
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > 140 {
		return nil, &rules.Error{Code: rules.CodeValidation, Message: "invalid title"}
	}
	listingType := in.Type
	if listingType == "" {
		listingType = rules.ListingTypePhysical
	}
	deliveryMode := in.DeliveryMode
	if deliveryMode == "" {
		deliveryMode = rules.DeliveryInstant
	}
	maxDownloads := in.MaxDownloads
	if maxDownloads <= 0 {
		maxDownloads = 5
	}

	listing := &model.Listing{
		ShopID:            shop.ID,
		SellerUID:         sellerUID,
		Title:             title,
		Description:       strings.TrimSpace(in.Description),
		Type:              listingType,
		Status:            rules.ListingDraft,
		Compliance:        rules.ComplianceOK,
		IsPrivate:         in.IsPrivate,
		BasePriceMinor:    in.BasePriceMinor,
		Currency:          shop.Currency,
		BaseQuantity:      in.BaseQuantity,
		ProcessingDaysMin: in.ProcessingDaysMin,
		ProcessingDaysMax: in.ProcessingDaysMax,
		ReturnPolicy:      in.ReturnPolicy,
		ReturnWindowDays:  in.ReturnWindowDays,
		DeliveryMode:      deliveryMode,
		MaxDownloads:      maxDownloads,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *listingService) Update(ctx context.Context, id uint64, actor rules.Viewer, in ListingInput) (*model.Listing, error) {
	listing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rules.AssertListingOwnership(listing.SellerUID, actor); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > 140 {
		return nil, &rules.Error{Code: rules.CodeValidation, Message: "invalid title"}
	}
	listing.Title = title
	listing.Description = strings.TrimSpace(in.Description)
	listing.BasePriceMinor = in.BasePriceMinor
	listing.BaseQuantity = in.BaseQuantity
	listing.IsPrivate = in.IsPrivate
	listing.ProcessingDaysMin = in.ProcessingDaysMin
	listing.ProcessingDaysMax = in.ProcessingDaysMax
	listing.ReturnPolicy = in.ReturnPolicy
	listing.ReturnWindowDays = in.ReturnWindowDays
	if in.DeliveryMode != "" {
		listing.DeliveryMode = in.DeliveryMode
	}
	if in.MaxDownloads > 0 {
		listing.MaxDownloads = in.MaxDownloads
	}
	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// Publish is the single gate through which a draft becomes purchasable.
func (s *listingService) Publish(ctx context.Context, id uint64, actor rules.Viewer) (*model.Listing, error) {
	listing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rules.AssertListingOwnership(listing.SellerUID, actor); err != nil {
		return nil, err
	}
	if err := rules.AssertCanPublish(listing.View()); err != nil {
		return nil, err
	}
	listing.Status = rules.ListingPublished
	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *listingService) Archive(ctx context.Context, id uint64, actor rules.Viewer) (*model.Listing, error) {
	listing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rules.AssertListingOwnership(listing.SellerUID, actor); err != nil {
		return nil, err
	}
	if listing.Status != rules.ListingPublished {
		return nil, &rules.Error{Code: rules.CodeConflict, Message: "only a published listing can be archived"}
	}
	listing.Status = rules.ListingArchived
	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *listingService) Get(ctx context.Context, id uint64, viewer rules.Viewer) (*model.Listing, error) {
	listing, err := s.listingRepo.FindByIDFull(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := rules.AssertCanViewListing(listing.View(), viewer); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *listingService) List(ctx context.Context, limit, offset int) ([]model.Listing, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.listingRepo.List(ctx, limit, offset)
}

func (s *listingService) ListMine(ctx context.Context, sellerUID string) ([]model.Listing, error) {
	if sellerUID == "" {
		return nil, errors.New("seller is required")
	}
	return s.listingRepo.ListBySeller(ctx, sellerUID)
}

// SetTags replaces the listing's tag set. The capacity check counts the raw
// tags before deduplication: trying to push more than fit is an error even
// when some would collapse into one.
func (s *listingService) SetTags(ctx context.Context, id uint64, actor rules.Viewer, raw []string) ([]string, error) {
	listing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rules.AssertListingOwnership(listing.SellerUID, actor); err != nil {
		return nil, err
	}
	if err := rules.AssertTagCapacity(0, len(raw), s.cfg); err != nil {
		return nil, err
	}
	normalized, err := rules.NormalizeTags(raw, s.cfg)
	if err != nil {
		return nil, err
	}
	if err := s.listingRepo.ReplaceTags(ctx, id, normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

func (s *listingService) SetPersonalizationFields(ctx context.Context, id uint64, actor rules.Viewer, fields []model.PersonalizationField) error {
	listing, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := rules.AssertListingOwnership(listing.SellerUID, actor); err != nil {
		return err
	}
	for _, f := range fields {
		if strings.TrimSpace(f.FieldKey) == "" {
			return &rules.Error{Code: rules.CodeValidation, Message: "field key is required"}
		}
		if f.MinLength < 0 || f.MaxLength < 0 || (f.MaxLength > 0 && f.MinLength > f.MaxLength) {
			return &rules.Error{Code: rules.CodeValidation, Message: "invalid length bounds for field " + f.FieldKey}
		}
	}
	return s.listingRepo.ReplacePersonalizationFields(ctx, id, fields)
}

// UploadAsset stores the file every future order of this listing will be
// served from. Replacing the asset does not touch deliveries already
// created; those keep the path captured at order placement.
func (s *listingService) UploadAsset(ctx context.Context, id uint64, actor rules.Viewer, file io.Reader, filename, contentType string) error {
	if s.store == nil {
		return errors.New("object storage is not configured")
	}
	listing, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := rules.AssertListingOwnership(listing.SellerUID, actor); err != nil {
		return err
	}
	if listing.Type != rules.ListingTypeDigital {
		return &rules.Error{Code: rules.CodeValidation, Message: "only digital listings carry a file"}
	}
	objectPath := fmt.Sprintf("listing-assets/%d/%s%s", listing.ID, uuid.NewString(), path.Ext(filename))
	if err := s.store.Upload(ctx, objectPath, file, contentType); err != nil {
		return err
	}
	listing.AssetObjectPath = objectPath
	return s.listingRepo.Update(ctx, listing)
}

func (s *listingService) find(ctx context.Context, id uint64) (*model.Listing, error) {
	listing, err := s.listingRepo.FindByIDFull(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return listing, nil
}
