package model

import (
	"time"

	"github.com/atolyem/marketplace-backend/internal/rules"
)

type Listing struct {
	ID                uint64                 `gorm:"primaryKey;autoIncrement"`
	ShopID            uint64                 `gorm:"column:shop_id;index;not null"`
	SellerUID         string                 `gorm:"column:seller_uid;size:128;index;not null"`
	Title             string                 `gorm:"size:140;not null"`
	Description       string                 `gorm:"type:text"`
	Type              rules.ListingType      `gorm:"column:listing_type;size:16;not null;default:PHYSICAL"`
	Status            rules.ListingStatus    `gorm:"column:status;size:16;not null;default:DRAFT"`
	Compliance        rules.ComplianceStatus `gorm:"column:compliance_status;size:16;not null;default:OK"`
	IsPrivate         bool                   `gorm:"column:is_private;not null;default:false"`
	BasePriceMinor    int64                  `gorm:"column:base_price_minor;not null"`
	Currency          string                 `gorm:"size:8;not null;default:TRY"`
	BaseQuantity      int                    `gorm:"column:base_quantity;not null"`
	ProcessingDaysMin int                    `gorm:"column:processing_days_min"`
	ProcessingDaysMax int                    `gorm:"column:processing_days_max"`
	ReturnPolicy      rules.ReturnPolicy     `gorm:"column:return_policy;size:24"`
	ReturnWindowDays  int                    `gorm:"column:return_window_days"`
	MaxDownloads      int                    `gorm:"column:max_downloads;default:5"`
	DeliveryMode      rules.DeliveryMode     `gorm:"column:delivery_mode;size:16;default:INSTANT"`
	AssetObjectPath   string                 `gorm:"column:asset_object_path;size:512"`
	CreatedAt         time.Time              `gorm:"autoCreateTime"`
	UpdatedAt         time.Time              `gorm:"autoUpdateTime"`

	Variants              []ListingVariant       `gorm:"foreignKey:ListingID"`
	AccessGrants          []ListingAccess        `gorm:"foreignKey:ListingID"`
	PersonalizationFields []PersonalizationField `gorm:"foreignKey:ListingID"`
}

func (Listing) TableName() string {
	return "listings"
}

// View projects the listing into the plain-field shape the rule package
// consumes.
func (l *Listing) View() rules.ListingView {
	access := make([]string, 0, len(l.AccessGrants))
	for _, g := range l.AccessGrants {
		access = append(access, g.UserUID)
	}
	return rules.ListingView{
		SellerUserID:         l.SellerUID,
		Status:               l.Status,
		Compliance:           l.Compliance,
		Type:                 l.Type,
		DeliveryMode:         l.DeliveryMode,
		IsPrivate:            l.IsPrivate,
		PrivateAccessUserIDs: access,
		Title:                l.Title,
		BasePriceMinor:       l.BasePriceMinor,
		BaseQuantity:         l.BaseQuantity,
		HasDigitalAsset:      l.AssetObjectPath != "",
	}
}

// ListingVariant overrides price and stock for one option combination. A nil
// column inherits the listing base value; a set column wins, including an
// explicit zero.
type ListingVariant struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	ListingID  uint64    `gorm:"column:listing_id;index;not null"`
	Label      string    `gorm:"size:120;not null"`
	PriceMinor *int64    `gorm:"column:price_minor"`
	Quantity   *int      `gorm:"column:quantity"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (ListingVariant) TableName() string {
	return "listing_variants"
}

// ListingAccess grants one user visibility of a private listing.
type ListingAccess struct {
	ListingID uint64    `gorm:"column:listing_id;not null;primaryKey"`
	UserUID   string    `gorm:"column:user_uid;size:128;not null;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ListingAccess) TableName() string {
	return "listing_access"
}

type PersonalizationField struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	ListingID  uint64    `gorm:"column:listing_id;index;not null"`
	FieldKey   string    `gorm:"column:field_key;size:64;not null"`
	Label      string    `gorm:"size:120"`
	IsRequired bool      `gorm:"column:is_required;not null;default:false"`
	MinLength  int       `gorm:"column:min_length"`
	MaxLength  int       `gorm:"column:max_length"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (PersonalizationField) TableName() string {
	return "personalization_fields"
}

// Def maps the stored field into the rule package's definition type.
func (f *PersonalizationField) Def() rules.PersonalizationFieldDef {
	return rules.PersonalizationFieldDef{
		Key:        f.FieldKey,
		Label:      f.Label,
		IsRequired: f.IsRequired,
		MinLength:  f.MinLength,
		MaxLength:  f.MaxLength,
	}
}
