package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openmall/order-api-server/internal/domains/orders/domain"
	"github.com/openmall/order-api-server/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Finalization runs in
// one database transaction with a row lock on the source order.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed order repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&orderRecord{}, &orderLineRecord{}, &orderEventRecord{})
	}
	return repo
}

// orderRecord maps the order aggregate to a relational table.
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

type orderEventRecord struct {
	ID        uuid.UUID `gorm:"primaryKey;column:id;type:uuid"`
	OrderID   int64     `gorm:"column:order_id;index"`
	Type      string    `gorm:"column:type;type:varchar(64)"`
	UserID    int64     `gorm:"column:user_id"`
	AppID     *int64    `gorm:"column:app_id"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (orderEventRecord) TableName() string { return "order_events" }

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	return loadOrder(ctx, r.db, id, false)
}

func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		order := records[i].toDomain()
		lines, err := loadLines(ctx, r.db, records[i].ID)
		if err != nil {
			return nil, err
		}
		order.Lines = lines
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *Repository) EventsForOrder(ctx context.Context, orderID int64) ([]domain.Event, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderEventRecord
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at").Find(&records).Error; err != nil {
		return nil, err
	}
	events := make([]domain.Event, 0, len(records))
	for _, record := range records {
		events = append(events, domain.Event{
			ID:        record.ID,
			OrderID:   record.OrderID,
			Type:      domain.EventType(record.Type),
			UserID:    record.UserID,
			AppID:     record.AppID,
			CreatedAt: record.CreatedAt,
		})
	}
	return events, nil
}

// Atomically wraps fn in one database transaction; gorm rolls back on error.
func (r *Repository) Atomically(ctx context.Context, fn func(tx ports.Tx) error) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&txRepo{db: db})
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

// txRepo is the ports.Tx implementation bound to one gorm transaction.
type txRepo struct {
	db *gorm.DB
}

var _ ports.Tx = (*txRepo)(nil)

func (t *txRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	return loadOrder(ctx, t.db, id, true)
}

func (t *txRepo) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := t.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	created := record.toDomain()
	created.Lines = append([]domain.OrderLine(nil), order.Lines...)
	return created, nil
}

func (t *txRepo) SaveOrder(ctx context.Context, order *domain.Order, fields ...string) error {
	if order == nil {
		return errors.New("order is nil")
	}
	record := toRecord(order)
	query := t.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", order.ID)
	if len(fields) > 0 {
		query = query.Select(fields)
	}
	result := query.Updates(&record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (t *txRepo) DeleteOrder(ctx context.Context, id int64) error {
	// Any line still attached at this point is superseded with the aggregate.
	if err := t.db.WithContext(ctx).Where("order_id = ?", id).Delete(&orderLineRecord{}).Error; err != nil {
		return err
	}
	result := t.db.WithContext(ctx).Delete(&orderRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (t *txRepo) ReassignLines(ctx context.Context, lineIDs []int64, targetOrderID int64) error {
	if len(lineIDs) == 0 {
		return nil
	}
	return t.db.WithContext(ctx).Model(&orderLineRecord{}).
		Where("id IN ?", lineIDs).
		Update("order_id", targetOrderID).Error
}

func (t *txRepo) AssignRedemptionCode(ctx context.Context, lineIDs []int64, code string) error {
	if len(lineIDs) == 0 {
		return nil
	}
	return t.db.WithContext(ctx).Model(&orderLineRecord{}).
		Where("id IN ?", lineIDs).
		Update("redemption_code", code).Error
}

func (t *txRepo) RedemptionCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := t.db.WithContext(ctx).Model(&orderLineRecord{}).
		Where("redemption_code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (t *txRepo) AppendEvents(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	records := make([]orderEventRecord, 0, len(events))
	for _, event := range events {
		records = append(records, orderEventRecord{
			ID:        event.ID,
			OrderID:   event.OrderID,
			Type:      string(event.Type),
			UserID:    event.UserID,
			AppID:     event.AppID,
			CreatedAt: event.CreatedAt,
		})
	}
	return t.db.WithContext(ctx).Create(&records).Error
}

func (t *txRepo) UpdateSearchVector(ctx context.Context, orderID int64, keywords []string) error {
	return t.db.WithContext(ctx).Model(&orderRecord{}).
		Where("id = ?", orderID).
		Update("search_vector", pq.StringArray(keywords)).Error
}

func loadOrder(ctx context.Context, db *gorm.DB, id int64, forUpdate bool) (*domain.Order, error) {
	query := db.WithContext(ctx)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var record orderRecord
	if err := query.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	order := record.toDomain()
	lines, err := loadLines(ctx, db, id)
	if err != nil {
		return nil, err
	}
	order.Lines = lines
	return order, nil
}

func loadLines(ctx context.Context, db *gorm.DB, orderID int64) ([]domain.OrderLine, error) {
	var records []orderLineRecord
	if err := db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	lines := make([]domain.OrderLine, 0, len(records))
	for _, record := range records {
		code := ""
		if record.RedemptionCode != nil {
			code = *record.RedemptionCode
		}
		lines = append(lines, domain.OrderLine{
			ID:                   record.ID,
			OrderID:              record.OrderID,
			VariantID:            record.VariantID,
			ProductName:          record.ProductName,
			Quantity:             record.Quantity,
			UnitPriceGross:       record.UnitPriceGross,
			UndiscountedTotalNet: record.UndiscountedTotalNet,
			SupplierID:           record.SupplierID,
			RedemptionCode:       code,
		})
	}
	return lines, nil
}

// SaveLines inserts the lines of a newly created order. Used by the checkout
// conversion flow; finalization only ever moves existing lines.
func (r *Repository) SaveLines(ctx context.Context, lines []domain.OrderLine) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return saveLines(r.db.WithContext(ctx), lines)
}

func saveLines(db *gorm.DB, lines []domain.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	records := make([]orderLineRecord, 0, len(lines))
	for _, line := range lines {
		var code *string
		if line.RedemptionCode != "" {
			value := line.RedemptionCode
			code = &value
		}
		records = append(records, orderLineRecord{
			ID:                   line.ID,
			OrderID:              line.OrderID,
			VariantID:            line.VariantID,
			ProductName:          line.ProductName,
			Quantity:             line.Quantity,
			UnitPriceGross:       line.UnitPriceGross,
			UndiscountedTotalNet: line.UndiscountedTotalNet,
			SupplierID:           line.SupplierID,
			RedemptionCode:       code,
		})
	}
	return db.Create(&records).Error
}

// CreateDraft persists a new unpaid order with its lines in one transaction,
// letting the database assign order and line identifiers. Implements the
// checkout conversion factory port.
func (r *Repository) CreateDraft(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	var created *domain.Order
	err := r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		record := toRecord(order)
		if err := db.Create(&record).Error; err != nil {
			return err
		}
		lines := append([]domain.OrderLine(nil), order.Lines...)
		for i := range lines {
			lines[i].ID = 0
			lines[i].OrderID = record.ID
		}
		if err := saveLines(db, lines); err != nil {
			return err
		}
		loaded, err := loadOrder(ctx, db, record.ID, false)
		if err != nil {
			return err
		}
		created = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:                      order.ID,
		Status:                  string(order.Status),
		ChargeStatus:            string(order.ChargeStatus),
		SupplierID:              order.SupplierID,
		UserID:                  order.Snapshot.UserID,
		UserEmail:               order.Snapshot.UserEmail,
		BillingAddressID:        order.Snapshot.BillingAddressID,
		ShippingAddressID:       order.Snapshot.ShippingAddressID,
		LanguageCode:            order.Snapshot.LanguageCode,
		TrackingClientID:        order.Snapshot.TrackingClientID,
		Channel:                 order.Snapshot.Channel,
		Currency:                order.Snapshot.Currency,
		VoucherID:               order.Snapshot.VoucherID,
		CustomerNote:            order.Snapshot.CustomerNote,
		WeightKg:                order.Snapshot.WeightKg,
		Origin:                  order.Snapshot.Origin,
		CheckoutToken:           order.Snapshot.CheckoutToken,
		TotalNetAmount:          order.TotalNet,
		TotalGrossAmount:        order.TotalGross,
		UndiscountedNetAmount:   order.UndiscountedTotalNet,
		UndiscountedGrossAmount: order.UndiscountedTotalGross,
		TotalChargedAmount:      order.TotalCharged,
		ShippingPriceGross:      order.ShippingPriceGross,
		PaymentAt:               order.PaymentAt,
		CreatedAt:               order.CreatedAt,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:                     r.ID,
		Status:                 domain.Status(r.Status),
		ChargeStatus:           domain.ChargeStatus(r.ChargeStatus),
		SupplierID:             r.SupplierID,
		TotalNet:               r.TotalNetAmount,
		TotalGross:             r.TotalGrossAmount,
		UndiscountedTotalNet:   r.UndiscountedNetAmount,
		UndiscountedTotalGross: r.UndiscountedGrossAmount,
		TotalCharged:           r.TotalChargedAmount,
		ShippingPriceGross:     r.ShippingPriceGross,
		Snapshot: domain.Snapshot{
			UserID:            r.UserID,
			UserEmail:         r.UserEmail,
			BillingAddressID:  r.BillingAddressID,
			ShippingAddressID: r.ShippingAddressID,
			LanguageCode:      r.LanguageCode,
			TrackingClientID:  r.TrackingClientID,
			Channel:           r.Channel,
			Currency:          r.Currency,
			VoucherID:         r.VoucherID,
			CustomerNote:      r.CustomerNote,
			WeightKg:          r.WeightKg,
			Origin:            r.Origin,
			CheckoutToken:     r.CheckoutToken,
		},
		PaymentAt: r.PaymentAt,
		CreatedAt: r.CreatedAt,
	}
}
