package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openmall/order-api-server/internal/domains/suppliers/domain"
	"github.com/openmall/order-api-server/internal/domains/suppliers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists suppliers in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&supplierRecord{})
	}
	return repo
}

type supplierRecord struct {
	ID     int64  `gorm:"primaryKey;column:id"`
	Name   string `gorm:"column:name;type:varchar(255)"`
	Email  string `gorm:"column:email"`
	Phone  string `gorm:"column:phone"`
	Active bool   `gorm:"column:active;index"`
}

func (supplierRecord) TableName() string { return "suppliers" }

func (r *Repository) Save(ctx context.Context, supplier *domain.Supplier) (*domain.Supplier, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, errors.New("supplier is nil")
	}
	record := toRecord(supplier)
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Supplier, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record supplierRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&supplierRecord{}).
		Where("id = ? AND active", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&supplierRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Supplier, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []supplierRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	suppliers := make([]*domain.Supplier, 0, len(records))
	for i := range records {
		suppliers = append(suppliers, records[i].toDomain())
	}
	return suppliers, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres supplier repository not configured")
	}
	return nil
}

func toRecord(supplier *domain.Supplier) supplierRecord {
	return supplierRecord{
		ID:     supplier.ID,
		Name:   supplier.Name,
		Email:  supplier.Email,
		Phone:  supplier.Phone,
		Active: supplier.Active,
	}
}

func (r supplierRecord) toDomain() *domain.Supplier {
	return &domain.Supplier{
		ID:     r.ID,
		Name:   r.Name,
		Email:  r.Email,
		Phone:  r.Phone,
		Active: r.Active,
	}
}
