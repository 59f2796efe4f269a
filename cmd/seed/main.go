package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/atolyem/marketplace-backend/internal/config"
	"github.com/atolyem/marketplace-backend/internal/db"
	"github.com/atolyem/marketplace-backend/internal/model"
	"github.com/atolyem/marketplace-backend/internal/rules"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

type seedShop struct {
	OwnerUID string
	Name     string
	Slug     string

	DomesticBaseMinor  int64
	DomesticFreeAbove  *int64
	DomesticPerItem    *int64
	InternationalMinor *int64
	Listings           []seedListing
}

type seedListing struct {
	Title        string
	Description  string
	Type         rules.ListingType
	PriceMinor   int64
	Quantity     int
	DeliveryMode rules.DeliveryMode
	Tags         []string
	Variants     []seedVariant
}

type seedVariant struct {
	Label      string
	PriceMinor *int64
	Quantity   *int
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}

	canSeed, err := shouldSeed(gdb)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("shops already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	ruleCfg := cfg.Rules()
	return gdb.Transaction(func(tx *gorm.DB) error {
		for _, s := range buildSeedShops() {
			if err := insertShop(tx, s, ruleCfg); err != nil {
				return err
			}
		}
		return nil
	})
}

func shouldSeed(gdb *gorm.DB) (bool, error) {
	if strings.EqualFold(os.Getenv("FORCE_SEED"), "true") {
		return true, nil
	}
	var count int64
	if err := gdb.Model(&model.Shop{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count shops: %w", err)
	}
	return count == 0, nil
}

func insertShop(tx *gorm.DB, s seedShop, ruleCfg rules.Config) error {
	user := model.User{UID: s.OwnerUID, DisplayName: s.Name}
	if err := tx.FirstOrCreate(&user, model.User{UID: s.OwnerUID}).Error; err != nil {
		return fmt.Errorf("user %s: %w", s.OwnerUID, err)
	}

	shop := model.Shop{OwnerUID: s.OwnerUID, Name: s.Name, Slug: s.Slug, Currency: "TRY"}
	if err := tx.Create(&shop).Error; err != nil {
		return fmt.Errorf("shop %s: %w", s.Slug, err)
	}

	shipping := []model.ShippingRule{{
		ShopID:              shop.ID,
		Zone:                model.ShippingZoneDomestic,
		BasePriceMinor:      s.DomesticBaseMinor,
		FreeAboveMinor:      s.DomesticFreeAbove,
		AdditionalItemMinor: s.DomesticPerItem,
	}}
	if s.InternationalMinor != nil {
		shipping = append(shipping, model.ShippingRule{
			ShopID:         shop.ID,
			Zone:           model.ShippingZoneInternational,
			BasePriceMinor: *s.InternationalMinor,
		})
	}
	if err := tx.Create(&shipping).Error; err != nil {
		return fmt.Errorf("shipping rules for %s: %w", s.Slug, err)
	}

	for _, l := range s.Listings {
		if err := insertListing(tx, shop, s.OwnerUID, l, ruleCfg); err != nil {
			return err
		}
	}
	return nil
}

func insertListing(tx *gorm.DB, shop model.Shop, sellerUID string, l seedListing, ruleCfg rules.Config) error {
	listing := model.Listing{
		ShopID:         shop.ID,
		SellerUID:      sellerUID,
		Title:          l.Title,
		Description:    l.Description,
		Type:           l.Type,
		Status:         rules.ListingPublished,
		Compliance:     rules.ComplianceOK,
		BasePriceMinor: l.PriceMinor,
		Currency:       "TRY",
		BaseQuantity:   l.Quantity,
		DeliveryMode:   l.DeliveryMode,
	}
	if l.Type == rules.ListingTypeDigital {
		listing.MaxDownloads = 5
		listing.ReturnPolicy = rules.ReturnsNone
		if l.DeliveryMode == rules.DeliveryInstant {
			// Published instant listings must carry their file. The demo
			// object only exists in the demo bucket.
			listing.AssetObjectPath = fmt.Sprintf("listing-assets/demo/%s.pdf", shop.Slug)
		}
	} else {
		listing.ProcessingDaysMin = 2
		listing.ProcessingDaysMax = 5
		listing.ReturnPolicy = rules.ReturnsAccepted
		listing.ReturnWindowDays = 14
	}
	if err := tx.Create(&listing).Error; err != nil {
		return fmt.Errorf("listing %q: %w", l.Title, err)
	}

	for _, v := range l.Variants {
		variant := model.ListingVariant{
			ListingID:  listing.ID,
			Label:      v.Label,
			PriceMinor: v.PriceMinor,
			Quantity:   v.Quantity,
		}
		if err := tx.Create(&variant).Error; err != nil {
			return fmt.Errorf("variant %q: %w", v.Label, err)
		}
	}

	normalized, err := rules.NormalizeTags(l.Tags, ruleCfg)
	if err != nil {
		return fmt.Errorf("tags for %q: %w", l.Title, err)
	}
	for _, name := range normalized {
		tag := model.Tag{Name: name}
		if err := tx.Where(model.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return fmt.Errorf("tag %q: %w", name, err)
		}
		if err := tx.Create(&model.ListingTag{ListingID: listing.ID, TagID: tag.ID}).Error; err != nil {
			return fmt.Errorf("listing tag %q: %w", name, err)
		}
	}
	return nil
}

func i64(v int64) *int64 { return &v }
func iptr(v int) *int    { return &v }

func buildSeedShops() []seedShop {
	return []seedShop{
		{
			OwnerUID:          "seed-seller-ayse",
			Name:              "Ayşe'nin Atölyesi",
			Slug:              "aysenin-atolyesi",
			DomesticBaseMinor: 3000,
			DomesticFreeAbove: i64(50000),
			DomesticPerItem:   i64(500),
			Listings: []seedListing{
				{
					Title:        "El Yapımı Seramik Kupa",
					Description:  "Tornada şekillendirilmiş, sır altı boyama seramik kupa.",
					Type:         rules.ListingTypePhysical,
					PriceMinor:   45000,
					Quantity:     8,
					DeliveryMode: rules.DeliveryInstant,
					Tags:         []string{"seramik", "kupa", "el yapımı", "hediye"},
					Variants: []seedVariant{
						{Label: "Mavi", Quantity: iptr(5)},
						{Label: "Yeşil", PriceMinor: i64(48000), Quantity: iptr(3)},
					},
				},
				{
					Title:        "Makrome Duvar Süsü",
					Description:  "Doğal pamuk ipinden örülmüş duvar süsü.",
					Type:         rules.ListingTypePhysical,
					PriceMinor:   62000,
					Quantity:     3,
					DeliveryMode: rules.DeliveryInstant,
					Tags:         []string{"makrome", "duvar süsü", "dekorasyon"},
				},
			},
		},
		{
			OwnerUID:           "seed-seller-mert",
			Name:               "Mert Dijital",
			Slug:               "mert-dijital",
			DomesticBaseMinor:  2500,
			InternationalMinor: i64(12000),
			Listings: []seedListing{
				{
					Title:        "İstanbul Siluet Çizimi (PDF)",
					Description:  "Yüksek çözünürlüklü baskıya hazır dijital çizim.",
					Type:         rules.ListingTypeDigital,
					PriceMinor:   15000,
					Quantity:     9999,
					DeliveryMode: rules.DeliveryInstant,
					Tags:         []string{"dijital", "çizim", "istanbul", "poster"},
				},
				{
					Title:        "Kişiye Özel Portre Çizimi",
					Description:  "Fotoğraftan elle çizilen dijital portre, e-posta ile teslim.",
					Type:         rules.ListingTypeDigital,
					PriceMinor:   85000,
					Quantity:     20,
					DeliveryMode: rules.DeliveryManual,
					Tags:         []string{"portre", "dijital", "kişiye özel"},
				},
			},
		},
	}
}
