//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/openmall/order-api-server/internal/domains/orders/domain"
	"github.com/openmall/order-api-server/internal/domains/orders/ports"
	"github.com/openmall/order-api-server/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("openmall_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seedUnpaidOrder(t *testing.T, repo *Repository, supplierA, supplierB int64) *domain.Order {
	t.Helper()
	ctx := context.Background()

	var created *domain.Order
	err := repo.Atomically(ctx, func(tx ports.Tx) error {
		var err error
		created, err = tx.CreateOrder(ctx, &domain.Order{
			Status:             domain.StatusUnpaid,
			ChargeStatus:       domain.ChargeNone,
			TotalGross:         decimal.RequireFromString("25.00"),
			TotalNet:           decimal.RequireFromString("25.00"),
			ShippingPriceGross: decimal.RequireFromString("3.50"),
			Snapshot: domain.Snapshot{
				UserID:    7,
				UserEmail: "buyer@example.com",
				Channel:   "default-channel",
				Currency:  "CNY",
			},
			CreatedAt: time.Now().UTC(),
		})
		return err
	})
	require.NoError(t, err)

	lines := []domain.OrderLine{
		{
			ID:                   created.ID*100 + 1,
			OrderID:              created.ID,
			VariantID:            100,
			ProductName:          "Mechanical Keyboard",
			Quantity:             2,
			UnitPriceGross:       decimal.RequireFromString("10.00"),
			UndiscountedTotalNet: decimal.RequireFromString("20.00"),
			SupplierID:           &supplierA,
		},
		{
			ID:                   created.ID*100 + 2,
			OrderID:              created.ID,
			VariantID:            101,
			ProductName:          "USB Cable",
			Quantity:             1,
			UnitPriceGross:       decimal.RequireFromString("5.00"),
			UndiscountedTotalNet: decimal.RequireFromString("5.00"),
			SupplierID:           &supplierB,
		},
	}
	require.NoError(t, repo.SaveLines(ctx, lines))
	created.Lines = lines
	return created
}

func TestRepository_GetByIDLoadsLines(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	order := seedUnpaidOrder(t, repo, 11, 12)

	fetched, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)
	assert.Equal(t, domain.StatusUnpaid, fetched.Status)
	require.Len(t, fetched.Lines, 2)
	assert.Equal(t, "Mechanical Keyboard", fetched.Lines[0].ProductName)
	assert.True(t, fetched.TotalGross.Equal(decimal.RequireFromString("25.00")))

	_, err = repo.GetByID(context.Background(), 99999)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_AtomicallyRollsBackOnError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	order := seedUnpaidOrder(t, repo, 11, 12)
	ctx := context.Background()

	boom := assert.AnError
	err := repo.Atomically(ctx, func(tx ports.Tx) error {
		locked, err := tx.GetForUpdate(ctx, order.ID)
		require.NoError(t, err)
		now := time.Now().UTC()
		require.NoError(t, locked.MarkFullyPaid(locked.ChargeableTotal(), nil, now))
		require.NoError(t, tx.SaveOrder(ctx, locked, "status", "charge_status", "total_charged_amount", "payment_at"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	fetched, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnpaid, fetched.Status)
	assert.True(t, fetched.TotalCharged.IsZero())
}

func TestRepository_SplitMovesLinesAndDeletesSource(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	order := seedUnpaidOrder(t, repo, 11, 12)
	ctx := context.Background()

	var supplierOrderID int64
	err := repo.Atomically(ctx, func(tx ports.Tx) error {
		source, err := tx.GetForUpdate(ctx, order.ID)
		if err != nil {
			return err
		}
		supplierID := int64(11)
		created, err := tx.CreateOrder(ctx, source.SpawnSupplierOrder(domain.SupplierGroup{
			SupplierID:         supplierID,
			Amount:             decimal.RequireFromString("20.00"),
			UndiscountedAmount: decimal.RequireFromString("20.00"),
		}, time.Now().UTC()))
		if err != nil {
			return err
		}
		supplierOrderID = created.ID
		if err := tx.ReassignLines(ctx, []int64{source.Lines[0].ID}, created.ID); err != nil {
			return err
		}
		if err := tx.UpdateSearchVector(ctx, created.ID, []string{"keyboard", "supplier:11"}); err != nil {
			return err
		}
		if err := tx.ReassignLines(ctx, []int64{source.Lines[1].ID}, created.ID); err != nil {
			return err
		}
		return tx.DeleteOrder(ctx, source.ID)
	})
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, order.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	supplierOrder, err := repo.GetByID(ctx, supplierOrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, supplierOrder.Status)
	assert.Equal(t, domain.ChargeFull, supplierOrder.ChargeStatus)
	require.NotNil(t, supplierOrder.SupplierID)
	assert.Equal(t, int64(11), *supplierOrder.SupplierID)
	assert.Len(t, supplierOrder.Lines, 2)
}

func TestRepository_RedemptionCodes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	order := seedUnpaidOrder(t, repo, 11, 12)
	ctx := context.Background()

	err := repo.Atomically(ctx, func(tx ports.Tx) error {
		exists, err := tx.RedemptionCodeExists(ctx, "111122223333")
		if err != nil {
			return err
		}
		require.False(t, exists)
		return tx.AssignRedemptionCode(ctx, []int64{order.Lines[0].ID, order.Lines[1].ID}, "111122223333")
	})
	require.NoError(t, err)

	err = repo.Atomically(ctx, func(tx ports.Tx) error {
		exists, err := tx.RedemptionCodeExists(ctx, "111122223333")
		if err != nil {
			return err
		}
		assert.True(t, exists)
		return nil
	})
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, fetched.HasRedemptionCodes())
}

func TestRepository_EventsForOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	order := seedUnpaidOrder(t, repo, 11, 12)
	ctx := context.Background()

	err := repo.Atomically(ctx, func(tx ports.Tx) error {
		return tx.AppendEvents(ctx, []domain.Event{
			domain.NewOrderFullyPaid(order.ID, domain.Actor{UserID: 7}, time.Now().UTC()),
		})
	})
	require.NoError(t, err)

	events, err := repo.EventsForOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventOrderFullyPaid, events[0].Type)
	assert.Equal(t, int64(7), events[0].UserID)
}
