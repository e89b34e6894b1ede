package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openmall/order-api-server/internal/domains/checkout/domain"
	"github.com/openmall/order-api-server/internal/domains/checkout/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists checkouts in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&checkoutRecord{}, &checkoutLineRecord{})
	}
	return repo
}

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

func (r *Repository) Save(ctx context.Context, checkout *domain.Checkout) (*domain.Checkout, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if checkout == nil {
		return nil, errors.New("checkout is nil")
	}
	clone := *checkout
	if clone.Token == uuid.Nil {
		clone.Token = uuid.New()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := toRecord(&clone)
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			UpdateAll: true,
		}).Create(&record).Error; err != nil {
			return err
		}
		// Lines are replaced wholesale; a checkout is small and short-lived.
		if err := tx.Where("checkout_token = ?", clone.Token).Delete(&checkoutLineRecord{}).Error; err != nil {
			return err
		}
		if len(clone.Lines) == 0 {
			return nil
		}
		lines := make([]checkoutLineRecord, 0, len(clone.Lines))
		for _, line := range clone.Lines {
			lines = append(lines, checkoutLineRecord{
				CheckoutToken: clone.Token,
				VariantID:     line.VariantID,
				Quantity:      line.Quantity,
			})
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, err
	}
	return &clone, nil
}

func (r *Repository) GetByToken(ctx context.Context, token uuid.UUID) (*domain.Checkout, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record checkoutRecord
	if err := r.db.WithContext(ctx).First(&record, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var lines []checkoutLineRecord
	if err := r.db.WithContext(ctx).Where("checkout_token = ?", token).Order("id").Find(&lines).Error; err != nil {
		return nil, err
	}
	checkout := record.toDomain()
	for _, line := range lines {
		checkout.Lines = append(checkout.Lines, domain.CheckoutLine{VariantID: line.VariantID, Quantity: line.Quantity})
	}
	return checkout, nil
}

func (r *Repository) Delete(ctx context.Context, token uuid.UUID) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("checkout_token = ?", token).Delete(&checkoutLineRecord{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&checkoutRecord{}, "token = ?", token)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres checkout repository not configured")
	}
	return nil
}

func toRecord(checkout *domain.Checkout) checkoutRecord {
	return checkoutRecord{
		Token:             checkout.Token,
		UserID:            checkout.UserID,
		UserEmail:         checkout.UserEmail,
		Channel:           checkout.Channel,
		Currency:          checkout.Currency,
		LanguageCode:      checkout.LanguageCode,
		BillingAddressID:  checkout.BillingAddressID,
		ShippingAddressID: checkout.ShippingAddressID,
		VoucherID:         checkout.VoucherID,
		TrackingClientID:  checkout.TrackingClientID,
		CustomerNote:      checkout.CustomerNote,
		CreatedAt:         checkout.CreatedAt,
	}
}

func (r checkoutRecord) toDomain() *domain.Checkout {
	return &domain.Checkout{
		Token:             r.Token,
		UserID:            r.UserID,
		UserEmail:         r.UserEmail,
		Channel:           r.Channel,
		Currency:          r.Currency,
		LanguageCode:      r.LanguageCode,
		BillingAddressID:  r.BillingAddressID,
		ShippingAddressID: r.ShippingAddressID,
		VoucherID:         r.VoucherID,
		TrackingClientID:  r.TrackingClientID,
		CustomerNote:      r.CustomerNote,
		CreatedAt:         r.CreatedAt,
	}
}
