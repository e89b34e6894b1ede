package migrations

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace
// adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&orderLineRecord{},
		&orderEventRecord{},
		&supplierRecord{},
		&variantRecord{},
		&checkoutRecord{},
		&checkoutLineRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID                      int64           `gorm:"primaryKey;column:id"`
	Status                  string          `gorm:"column:status;type:varchar(32);index"`
	ChargeStatus            string          `gorm:"column:charge_status;type:varchar(32)"`
	SupplierID              *int64          `gorm:"column:supplier_id;index"`
	UserID                  int64           `gorm:"column:user_id;index"`
	UserEmail               string          `gorm:"column:user_email"`
	BillingAddressID        *int64          `gorm:"column:billing_address_id"`
	ShippingAddressID       *int64          `gorm:"column:shipping_address_id"`
	LanguageCode            string          `gorm:"column:language_code;type:varchar(16)"`
	TrackingClientID        string          `gorm:"column:tracking_client_id"`
	Channel                 string          `gorm:"column:channel;type:varchar(64)"`
	Currency                string          `gorm:"column:currency;type:varchar(8)"`
	VoucherID               *int64          `gorm:"column:voucher_id"`
	CustomerNote            string          `gorm:"column:customer_note"`
	WeightKg                float64         `gorm:"column:weight_kg"`
	Origin                  string          `gorm:"column:origin;type:varchar(32)"`
	CheckoutToken           string          `gorm:"column:checkout_token;index"`
	TotalNetAmount          decimal.Decimal `gorm:"column:total_net_amount;type:numeric(12,2)"`
	TotalGrossAmount        decimal.Decimal `gorm:"column:total_gross_amount;type:numeric(12,2)"`
	UndiscountedNetAmount   decimal.Decimal `gorm:"column:undiscounted_total_net_amount;type:numeric(12,2)"`
	UndiscountedGrossAmount decimal.Decimal `gorm:"column:undiscounted_total_gross_amount;type:numeric(12,2)"`
	TotalChargedAmount      decimal.Decimal `gorm:"column:total_charged_amount;type:numeric(12,2)"`
	ShippingPriceGross      decimal.Decimal `gorm:"column:shipping_price_gross_amount;type:numeric(12,2)"`
	SearchVector            pq.StringArray  `gorm:"column:search_vector;type:text[]"`
	PaymentAt               *time.Time      `gorm:"column:payment_at"`
	CreatedAt               time.Time       `gorm:"column:created_at;index"`
	UpdatedAt               time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Order line schema mirrors the orders Postgres adapter.
type orderLineRecord struct {
	ID                   int64           `gorm:"primaryKey;column:id"`
	OrderID              int64           `gorm:"column:order_id;index"`
	VariantID            int64           `gorm:"column:variant_id;index"`
	ProductName          string          `gorm:"column:product_name"`
	Quantity             int32           `gorm:"column:quantity"`
	UnitPriceGross       decimal.Decimal `gorm:"column:unit_price_gross_amount;type:numeric(12,2)"`
	UndiscountedTotalNet decimal.Decimal `gorm:"column:undiscounted_total_price_net_amount;type:numeric(12,2)"`
	SupplierID           *int64          `gorm:"column:supplier_id;index"`
	RedemptionCode       *string         `gorm:"column:redemption_code;type:varchar(32);uniqueIndex"`
	CreatedAt            time.Time       `gorm:"column:created_at"`
	UpdatedAt            time.Time       `gorm:"column:updated_at"`
}

func (orderLineRecord) TableName() string { return "order_lines" }

// Event schema mirrors the orders Postgres adapter; rows are append-only.
type orderEventRecord struct {
	ID        uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	OrderID   int64     `gorm:"column:order_id;index"`
	Type      string    `gorm:"column:type;type:varchar(64)"`
	UserID    int64     `gorm:"column:user_id"`
	AppID     *int64    `gorm:"column:app_id"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (orderEventRecord) TableName() string { return "order_events" }

// Supplier schema mirrors the suppliers Postgres adapter.
type supplierRecord struct {
	ID     int64  `gorm:"primaryKey;column:id"`
	Name   string `gorm:"column:name;type:varchar(255)"`
	Email  string `gorm:"column:email"`
	Phone  string `gorm:"column:phone"`
	Active bool   `gorm:"column:active;index"`
}

func (supplierRecord) TableName() string { return "suppliers" }

// Variant schema mirrors the catalog Postgres adapter.
type variantRecord struct {
	ID                 int64           `gorm:"primaryKey;column:id"`
	SKU                string          `gorm:"column:sku;uniqueIndex"`
	ProductName        string          `gorm:"column:product_name"`
	SupplierID         *int64          `gorm:"column:supplier_id;index"`
	PriceAmount        decimal.Decimal `gorm:"column:price_amount;type:numeric(12,2)"`
	Kind               string          `gorm:"column:kind;type:varchar(32)"`
	IsDigital          bool            `gorm:"column:is_digital"`
	IsShippingRequired bool            `gorm:"column:is_shipping_required"`
	CreatedAt          time.Time       `gorm:"column:created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at"`
}

func (variantRecord) TableName() string { return "product_variants" }

// Checkout schema mirrors the checkout Postgres adapter.
type checkoutRecord struct {
	Token             uuid.UUID `gorm:"primaryKey;column:token;type:uuid"`
	UserID            int64     `gorm:"column:user_id;index"`
	UserEmail         string    `gorm:"column:user_email"`
	Channel           string    `gorm:"column:channel;type:varchar(64)"`
	Currency          string    `gorm:"column:currency;type:varchar(8)"`
	LanguageCode      string    `gorm:"column:language_code;type:varchar(16)"`
	BillingAddressID  *int64    `gorm:"column:billing_address_id"`
	ShippingAddressID *int64    `gorm:"column:shipping_address_id"`
	VoucherID         *int64    `gorm:"column:voucher_id"`
	TrackingClientID  string    `gorm:"column:tracking_client_id"`
	CustomerNote      string    `gorm:"column:customer_note"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (checkoutRecord) TableName() string { return "checkouts" }

type checkoutLineRecord struct {
	ID            int64     `gorm:"primaryKey;column:id"`
	CheckoutToken uuid.UUID `gorm:"column:checkout_token;type:uuid;index"`
	VariantID     int64     `gorm:"column:variant_id"`
	Quantity      int32     `gorm:"column:quantity"`
}

func (checkoutLineRecord) TableName() string { return "checkout_lines" }
