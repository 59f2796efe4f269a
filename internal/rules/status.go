package rules

type ListingStatus string

const (
	ListingDraft     ListingStatus = "DRAFT"
	ListingPublished ListingStatus = "PUBLISHED"
	ListingArchived  ListingStatus = "ARCHIVED"
	ListingRemoved   ListingStatus = "REMOVED"
)

type ComplianceStatus string

const (
	ComplianceOK      ComplianceStatus = "OK"
	ComplianceFlagged ComplianceStatus = "FLAGGED"
	ComplianceRemoved ComplianceStatus = "REMOVED"
)

type ListingType string

const (
	ListingTypePhysical ListingType = "PHYSICAL"
	ListingTypeDigital  ListingType = "DIGITAL"
)

type OrderStatus string

const (
	OrderPendingPayment OrderStatus = "PENDING_PAYMENT"
	OrderPaid           OrderStatus = "PAID"
	OrderShipped        OrderStatus = "SHIPPED"
	OrderDelivered      OrderStatus = "DELIVERED"
	OrderCancelled      OrderStatus = "CANCELLED"
)

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
)

type DeliveryMode string

const (
	DeliveryInstant DeliveryMode = "INSTANT"
	DeliveryManual  DeliveryMode = "MANUAL"
)

type ReturnPolicy string

const (
	ReturnsNone     ReturnPolicy = "NO_RETURNS"
	ReturnsAccepted ReturnPolicy = "RETURNS_ACCEPTED"
)
