package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/atolyem/marketplace-backend/internal/model"
	"github.com/atolyem/marketplace-backend/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectStore struct {
	uploads map[string]string // object path -> content type
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{uploads: map[string]string{}}
}

func (s *fakeObjectStore) Upload(ctx context.Context, objectPath string, r io.Reader, contentType string) error {
	s.uploads[objectPath] = contentType
	return nil
}

func (s *fakeObjectStore) SignedDownloadURL(objectPath string, ttl time.Duration) (string, error) {
	return "https://signed.example/" + objectPath, nil
}

func draftDigitalListing() *model.Listing {
	return &model.Listing{
		ID:             2,
		ShopID:         1,
		SellerUID:      "seller",
		Title:          "İstanbul Siluet Çizimi",
		Type:           rules.ListingTypeDigital,
		Status:         rules.ListingDraft,
		Compliance:     rules.ComplianceOK,
		BasePriceMinor: 15000,
		Currency:       "TRY",
		BaseQuantity:   9999,
		DeliveryMode:   rules.DeliveryInstant,
		MaxDownloads:   5,
	}
}

func TestUploadAssetStoresFileAndPath(t *testing.T) {
	listingRepo := newFakeListingRepo(draftDigitalListing())
	store := newFakeObjectStore()
	svc := NewListingService(listingRepo, nil, store, rules.DefaultConfig())

	err := svc.UploadAsset(context.Background(), 2, rules.Viewer{UserID: "seller"},
		strings.NewReader("pdf bytes"), "siluet.pdf", "application/pdf")
	require.NoError(t, err)

	got := listingRepo.listings[2].AssetObjectPath
	assert.True(t, strings.HasPrefix(got, "listing-assets/2/"))
	assert.True(t, strings.HasSuffix(got, ".pdf"))
	assert.Equal(t, "application/pdf", store.uploads[got])
}

func TestUploadAssetRejectsNonOwner(t *testing.T) {
	listingRepo := newFakeListingRepo(draftDigitalListing())
	svc := NewListingService(listingRepo, nil, newFakeObjectStore(), rules.DefaultConfig())

	err := svc.UploadAsset(context.Background(), 2, rules.Viewer{UserID: "stranger"},
		strings.NewReader("pdf bytes"), "siluet.pdf", "application/pdf")
	re, ok := rules.AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, rules.CodeForbidden, re.Code)
	assert.Empty(t, listingRepo.listings[2].AssetObjectPath)
}

func TestUploadAssetRejectsPhysicalListing(t *testing.T) {
	listingRepo := newFakeListingRepo(publishedListing())
	svc := NewListingService(listingRepo, nil, newFakeObjectStore(), rules.DefaultConfig())

	err := svc.UploadAsset(context.Background(), 1, rules.Viewer{UserID: "seller"},
		strings.NewReader("pdf bytes"), "siluet.pdf", "application/pdf")
	re, ok := rules.AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, rules.CodeValidation, re.Code)
}

func TestPublishInstantDigitalRequiresAsset(t *testing.T) {
	listingRepo := newFakeListingRepo(draftDigitalListing())
	svc := NewListingService(listingRepo, nil, newFakeObjectStore(), rules.DefaultConfig())
	owner := rules.Viewer{UserID: "seller"}

	_, err := svc.Publish(context.Background(), 2, owner)
	re, ok := rules.AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, rules.CodeValidation, re.Code)

	require.NoError(t, svc.UploadAsset(context.Background(), 2, owner,
		strings.NewReader("pdf bytes"), "siluet.pdf", "application/pdf"))

	listing, err := svc.Publish(context.Background(), 2, owner)
	require.NoError(t, err)
	assert.Equal(t, rules.ListingPublished, listing.Status)
}
