package service

import (
	"context"
	"errors"

	"github.com/atolyem/marketplace-backend/internal/model"
	"github.com/atolyem/marketplace-backend/internal/repository"
	"github.com/atolyem/marketplace-backend/internal/rules"
	"gorm.io/gorm"
)

type SocialService interface {
	Favorite(ctx context.Context, uid string, listingID uint64) error
	Unfavorite(ctx context.Context, uid string, listingID uint64) error
	ListFavorites(ctx context.Context, uid string) ([]model.Favorite, error)
	Follow(ctx context.Context, uid string, shopID uint64) error
	Unfollow(ctx context.Context, uid string, shopID uint64) error
	ListFollows(ctx context.Context, uid string) ([]model.Follow, error)
}

type socialService struct {
	socialRepo  repository.SocialRepository
	listingRepo repository.ListingRepository
	shopRepo    repository.ShopRepository
}

func NewSocialService(socialRepo repository.SocialRepository, listingRepo repository.ListingRepository, shopRepo repository.ShopRepository) SocialService {
	return &socialService{socialRepo: socialRepo, listingRepo: listingRepo, shopRepo: shopRepo}
}

func (s *socialService) Favorite(ctx context.Context, uid string, listingID uint64) error {
	listing, err := s.listingRepo.FindByIDFull(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := rules.AssertNotSelfFavorite(listing.SellerUID, uid); err != nil {
		return err
	}
	if err := rules.AssertCanViewListing(listing.View(), rules.Viewer{UserID: uid}); err != nil {
		return err
	}
	return s.socialRepo.AddFavorite(ctx, &model.Favorite{UserUID: uid, ListingID: listingID})
}

func (s *socialService) Unfavorite(ctx context.Context, uid string, listingID uint64) error {
	return s.socialRepo.RemoveFavorite(ctx, uid, listingID)
}

func (s *socialService) ListFavorites(ctx context.Context, uid string) ([]model.Favorite, error) {
	return s.socialRepo.ListFavorites(ctx, uid)
}

func (s *socialService) Follow(ctx context.Context, uid string, shopID uint64) error {
	shop, err := s.shopRepo.FindByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := rules.AssertNotSelfFollow(shop.OwnerUID, uid); err != nil {
		return err
	}
	return s.socialRepo.AddFollow(ctx, &model.Follow{UserUID: uid, ShopID: shopID})
}

func (s *socialService) Unfollow(ctx context.Context, uid string, shopID uint64) error {
	return s.socialRepo.RemoveFollow(ctx, uid, shopID)
}

func (s *socialService) ListFollows(ctx context.Context, uid string) ([]model.Follow, error) {
	return s.socialRepo.ListFollows(ctx, uid)
}
