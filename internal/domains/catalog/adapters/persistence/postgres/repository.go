package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openmall/order-api-server/internal/domains/catalog/domain"
	"github.com/openmall/order-api-server/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists catalog variants in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed catalog repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&variantRecord{})
	}
	return repo
}

// variantRecord maps a variant plus its product-type descriptor to a relational table.
type variantRecord struct {
	ID                 int64           `gorm:"primaryKey;column:id"`
	SKU                string          `gorm:"column:sku;type:varchar(64);index"`
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

func (r *Repository) Save(ctx context.Context, variant *domain.Variant) (*domain.Variant, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, errors.New("variant is nil")
	}
	record := toRecord(variant)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"sku":                  record.SKU,
				"product_name":         record.ProductName,
				"supplier_id":          record.SupplierID,
				"price_amount":         record.PriceAmount,
				"kind":                 record.Kind,
				"is_digital":           record.IsDigital,
				"is_shipping_required": record.IsShippingRequired,
				"updated_at":           gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.VariantByID(ctx, record.ID)
}

func (r *Repository) VariantByID(ctx context.Context, id int64) (*domain.Variant, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record variantRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrVariantNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) DescriptorForVariant(ctx context.Context, id int64) (domain.ProductTypeDescriptor, error) {
	variant, err := r.VariantByID(ctx, id)
	if err != nil {
		return domain.ProductTypeDescriptor{}, err
	}
	return variant.ProductType, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&variantRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrVariantNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Variant, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []variantRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	variants := make([]*domain.Variant, 0, len(records))
	for i := range records {
		variants = append(variants, records[i].toDomain())
	}
	return variants, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toRecord(variant *domain.Variant) variantRecord {
	return variantRecord{
		ID:                 variant.ID,
		SKU:                variant.SKU,
		ProductName:        variant.ProductName,
		SupplierID:         variant.SupplierID,
		PriceAmount:        variant.PriceAmount,
		Kind:               string(variant.ProductType.Kind),
		IsDigital:          variant.ProductType.IsDigital,
		IsShippingRequired: variant.ProductType.IsShippingRequired,
	}
}

func (r variantRecord) toDomain() *domain.Variant {
	return &domain.Variant{
		ID:          r.ID,
		SKU:         r.SKU,
		ProductName: r.ProductName,
		SupplierID:  r.SupplierID,
		PriceAmount: r.PriceAmount,
		ProductType: domain.ProductTypeDescriptor{
			Kind:               domain.Kind(r.Kind),
			IsDigital:          r.IsDigital,
			IsShippingRequired: r.IsShippingRequired,
		},
	}
}
