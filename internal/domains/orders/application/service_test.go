package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/openmall/order-api-server/internal/domains/catalog/domain"
	catalogports "github.com/openmall/order-api-server/internal/domains/catalog/ports"
	types "github.com/openmall/order-api-server/internal/domains/orders/application/types"
	"github.com/openmall/order-api-server/internal/domains/orders/domain"
	"github.com/openmall/order-api-server/internal/domains/orders/ports"
	"github.com/openmall/order-api-server/internal/shared/validation"
)

// fakeOrderRepo implements ports.Repository and ports.Tx over plain maps,
// restoring a snapshot when the transactional fn fails.
type fakeOrderRepo struct {
	orders        map[int64]*domain.Order
	events        []domain.Event
	searchVectors map[int64][]string
	nextOrderID   int64
	nextLineID    int64
	mutations     int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*domain.Order{}, searchVectors: map[int64][]string{}}
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Lines = append([]domain.OrderLine(nil), order.Lines...)
	return &clone
}

func (f *fakeOrderRepo) snapshot() (map[int64]*domain.Order, []domain.Event, map[int64][]string) {
	orders := map[int64]*domain.Order{}
	for id, order := range f.orders {
		orders[id] = cloneOrder(order)
	}
	events := append([]domain.Event(nil), f.events...)
	vectors := map[int64][]string{}
	for id, keywords := range f.searchVectors {
		vectors[id] = append([]string(nil), keywords...)
	}
	return orders, events, vectors
}

func (f *fakeOrderRepo) Atomically(_ context.Context, fn func(tx ports.Tx) error) error {
	orders, events, vectors := f.snapshot()
	if err := fn(f); err != nil {
		f.orders, f.events, f.searchVectors = orders, events, vectors
		return err
	}
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (f *fakeOrderRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeOrderRepo) List(_ context.Context) ([]*domain.Order, error) {
	list := make([]*domain.Order, 0, len(f.orders))
	for _, order := range f.orders {
		list = append(list, cloneOrder(order))
	}
	return list, nil
}

func (f *fakeOrderRepo) EventsForOrder(_ context.Context, orderID int64) ([]domain.Event, error) {
	var out []domain.Event
	for _, event := range f.events {
		if event.OrderID == orderID {
			out = append(out, event)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) CreateOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	f.mutations++
	clone := cloneOrder(order)
	f.nextOrderID++
	clone.ID = f.nextOrderID
	f.orders[clone.ID] = clone
	return cloneOrder(clone), nil
}

func (f *fakeOrderRepo) SaveOrder(_ context.Context, order *domain.Order, _ ...string) error {
	f.mutations++
	if _, ok := f.orders[order.ID]; !ok {
		return ports.ErrNotFound
	}
	f.orders[order.ID] = cloneOrder(order)
	return nil
}

func (f *fakeOrderRepo) DeleteOrder(_ context.Context, id int64) error {
	f.mutations++
	if _, ok := f.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeOrderRepo) ReassignLines(_ context.Context, lineIDs []int64, targetOrderID int64) error {
	f.mutations++
	target, ok := f.orders[targetOrderID]
	if !ok {
		return ports.ErrNotFound
	}
	wanted := map[int64]bool{}
	for _, id := range lineIDs {
		wanted[id] = true
	}
	for _, order := range f.orders {
		if order.ID == targetOrderID {
			continue
		}
		var kept []domain.OrderLine
		for _, line := range order.Lines {
			if wanted[line.ID] {
				line.OrderID = targetOrderID
				target.Lines = append(target.Lines, line)
				continue
			}
			kept = append(kept, line)
		}
		order.Lines = kept
	}
	return nil
}

func (f *fakeOrderRepo) AssignRedemptionCode(_ context.Context, lineIDs []int64, code string) error {
	f.mutations++
	wanted := map[int64]bool{}
	for _, id := range lineIDs {
		wanted[id] = true
	}
	for _, order := range f.orders {
		for i := range order.Lines {
			if wanted[order.Lines[i].ID] {
				order.Lines[i].RedemptionCode = code
			}
		}
	}
	return nil
}

func (f *fakeOrderRepo) RedemptionCodeExists(_ context.Context, code string) (bool, error) {
	for _, order := range f.orders {
		for _, line := range order.Lines {
			if line.RedemptionCode == code {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeOrderRepo) AppendEvents(_ context.Context, events []domain.Event) error {
	f.mutations++
	f.events = append(f.events, events...)
	return nil
}

func (f *fakeOrderRepo) UpdateSearchVector(_ context.Context, orderID int64, keywords []string) error {
	f.mutations++
	f.searchVectors[orderID] = append([]string(nil), keywords...)
	return nil
}

func (f *fakeOrderRepo) seed(order *domain.Order) *domain.Order {
	clone := cloneOrder(order)
	if clone.ID == 0 {
		f.nextOrderID++
		clone.ID = f.nextOrderID
	} else if clone.ID > f.nextOrderID {
		f.nextOrderID = clone.ID
	}
	for i := range clone.Lines {
		if clone.Lines[i].ID == 0 {
			f.nextLineID++
			clone.Lines[i].ID = f.nextLineID
		}
		clone.Lines[i].OrderID = clone.ID
	}
	f.orders[clone.ID] = clone
	return cloneOrder(clone)
}

var (
	_ ports.Repository = (*fakeOrderRepo)(nil)
	_ ports.Tx         = (*fakeOrderRepo)(nil)
)

// fakeCatalog resolves descriptors from a static map.
type fakeCatalog struct {
	descriptors map[int64]catalogdomain.ProductTypeDescriptor
}

func (f *fakeCatalog) VariantByID(context.Context, int64) (*catalogdomain.Variant, error) {
	return nil, catalogports.ErrVariantNotFound
}

func (f *fakeCatalog) DescriptorForVariant(_ context.Context, id int64) (catalogdomain.ProductTypeDescriptor, error) {
	descriptor, ok := f.descriptors[id]
	if !ok {
		return catalogdomain.ProductTypeDescriptor{}, catalogports.ErrVariantNotFound
	}
	return descriptor, nil
}

var _ catalogports.Source = (*fakeCatalog)(nil)

type stubIndexer struct{}

func (stubIndexer) ComputeKeywords(order *domain.Order) []string {
	keywords := []string{fmt.Sprintf("order-%d", order.ID)}
	for _, line := range order.Lines {
		keywords = append(keywords, line.ProductName)
	}
	return keywords
}

type fakeOrchestrator struct {
	fail bool
}

func (f *fakeOrchestrator) RequestIntents(_ context.Context, orders []*domain.Order) []types.IntentResult {
	results := make([]types.IntentResult, 0, len(orders))
	for _, order := range orders {
		result := types.IntentResult{OrderID: order.ID}
		if f.fail {
			result.Error = "gateway unreachable"
		} else {
			result.Reference = fmt.Sprintf("prepay-%d", order.ID)
		}
		results = append(results, result)
	}
	return results
}

const (
	variantLogisticsA int64 = 100
	variantLogisticsB int64 = 101
	variantRedemption int64 = 102
	variantSelfPickup int64 = 103
	variantNonRedeem  int64 = 104
	variantUnknown    int64 = 105
)

func testCatalog() *fakeCatalog {
	return &fakeCatalog{descriptors: map[int64]catalogdomain.ProductTypeDescriptor{
		variantLogisticsA: {Kind: catalogdomain.KindNormal, IsShippingRequired: true},
		variantLogisticsB: {Kind: catalogdomain.KindNormal, IsShippingRequired: true},
		variantRedemption: {Kind: catalogdomain.KindNormal, IsDigital: true},
		variantSelfPickup: {Kind: catalogdomain.KindNormal},
		variantNonRedeem:  {Kind: catalogdomain.KindOther},
		variantUnknown:    {Kind: catalogdomain.KindNormal, IsDigital: true, IsShippingRequired: true},
	}}
}

func unpaidOrder(userID int64, lines ...domain.OrderLine) *domain.Order {
	var gross decimal.Decimal
	for _, line := range lines {
		gross = gross.Add(line.TotalGross())
	}
	return &domain.Order{
		Status:       domain.StatusUnpaid,
		ChargeStatus: domain.ChargeNone,
		TotalGross:   gross,
		TotalNet:     gross,
		Snapshot: domain.Snapshot{
			UserID:    userID,
			UserEmail: "buyer@example.com",
			Channel:   "web",
			Currency:  "CNY",
		},
		Lines:     lines,
		CreatedAt: time.Now().UTC(),
	}
}

func line(variantID int64, supplierID *int64, unitPrice string, quantity int32) domain.OrderLine {
	price := decimal.RequireFromString(unitPrice)
	return domain.OrderLine{
		VariantID:            variantID,
		ProductName:          fmt.Sprintf("variant-%d", variantID),
		Quantity:             quantity,
		UnitPriceGross:       price,
		UndiscountedTotalNet: price.Mul(decimal.NewFromInt32(quantity)),
		SupplierID:           supplierID,
	}
}

func supplierRef(id int64) *int64 { return &id }

func newTestService(repo *fakeOrderRepo, opts ...Option) *Service {
	return NewService(repo, testCatalog(), stubIndexer{}, opts...)
}

func TestFinalizePayment_SingleSupplierMutatesInPlace(t *testing.T) {
	repo := newFakeOrderRepo()
	order := repo.seed(unpaidOrder(10,
		line(variantLogisticsA, supplierRef(7), "10.00", 2),
		line(variantLogisticsB, supplierRef(7), "5.00", 1),
	))
	svc := newTestService(repo)

	result, err := svc.FinalizePayment(context.Background(), types.FinalizePaymentInput{
		OrderID: order.ID,
		Actor:   domain.Actor{UserID: 10},
	})
	require.NoError(t, err)
	require.False(t, result.Split)
	require.Len(t, result.Orders, 1)
	require.Equal(t, order.ID, result.Orders[0].ID)
	require.Len(t, repo.orders, 1, "no new orders on the single-supplier path")

	stored := repo.orders[order.ID]
	require.Equal(t, domain.StatusPaid, stored.Status)
	require.Equal(t, domain.ChargeFull, stored.ChargeStatus)
	require.Equal(t, int64(7), *stored.SupplierID)
	require.True(t, stored.TotalCharged.Equal(decimal.RequireFromString("25.00")))
	require.NotNil(t, stored.PaymentAt)

	events, err := repo.EventsForOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, domain.EventOrderFullyPaid, events[0].Type)
}

func TestFinalizePayment_InPlaceChargeIncludesShipping(t *testing.T) {
	repo := newFakeOrderRepo()
	seeded := unpaidOrder(10, line(variantLogisticsA, supplierRef(7), "10.00", 1))
	seeded.ShippingPriceGross = decimal.RequireFromString("3.50")
	order := repo.seed(seeded)
	svc := newTestService(repo)

	_, err := svc.FinalizePayment(context.Background(), types.FinalizePaymentInput{
		OrderID: order.ID, Actor: domain.Actor{UserID: 10},
	})
	require.NoError(t, err)
	require.True(t, repo.orders[order.ID].TotalCharged.Equal(decimal.RequireFromString("13.50")))
}

func TestFinalizePayment_MultiSupplierSplit(t *testing.T) {
	repo := newFakeOrderRepo()
	order := repo.seed(unpaidOrder(10,
		line(variantLogisticsA, supplierRef(1), "10.00", 2),
		line(variantLogisticsB, supplierRef(2), "5.00", 1),
	))
	svc := newTestService(repo)

	result, err := svc.FinalizePayment(context.Background(), types.FinalizePaymentInput{
		OrderID: order.ID, Actor: domain.Actor{UserID: 10},
	})
	require.NoError(t, err)
	require.True(t, result.Split)
	require.Len(t, result.Orders, 2)

	_, originalExists := repo.orders[order.ID]
	require.False(t, originalExists, "original aggregate must be deleted")
	require.Len(t, repo.orders, 2)

	bySupplier := map[int64]*domain.Order{}
	for _, created := range result.Orders {
		stored := repo.orders[created.ID]
		require.NotNil(t, stored)
		bySupplier[*stored.SupplierID] = stored
	}
	require.True(t, bySupplier[1].TotalGross.Equal(decimal.RequireFromString("20.00")))
	require.True(t, bySupplier[2].TotalGross.Equal(decimal.RequireFromString("5.00")))

	// Monetary conservation across the split.
	total := bySupplier[1].TotalGross.Add(bySupplier[2].TotalGross)
	require.True(t, total.Equal(decimal.RequireFromString("25.00")))

	// Lines moved, not copied.
	require.Len(t, bySupplier[1].Lines, 1)
	require.Len(t, bySupplier[2].Lines, 1)
	require.Equal(t, int64(1), *bySupplier[1].Lines[0].SupplierID)

	// One fully-paid event per new order, none for the deleted original.
	require.Len(t, repo.events, 2)
	for _, event := range repo.events {
		require.Equal(t, domain.EventOrderFullyPaid, event.Type)
		require.NotEqual(t, order.ID, event.OrderID)
	}

	// Search vectors recomputed for each materialized order.
	for id := range repo.orders {
		require.NotEmpty(t, repo.searchVectors[id])
	}

	// Each new order is fully charged.
	for _, stored := range bySupplier {
		require.Equal(t, domain.StatusPaid, stored.Status)
		require.Equal(t, domain.ChargeFull, stored.ChargeStatus)
		require.True(t, stored.TotalCharged.Equal(stored.TotalGross))
	}
}

func TestFinalizePayment_RedemptionAllocatesUniqueCode(t *testing.T) {
	repo := newFakeOrderRepo()
	taken := repo.seed(unpaidOrder(99, line(variantRedemption, nil, "8.00", 1)))
	require.NoError(t, repo.AssignRedemptionCode(context.Background(), []int64{taken.Lines[0].ID}, "111111111111"))

	order := repo.seed(unpaidOrder(10, line(variantRedemption, nil, "12.00", 1)))

	// A generator that collides first forces the uniqueness retry.
	codes := []string{"111111111111", "222222222222"}
	var calls int
	svc := newTestService(repo, WithCodeGenerator(func() string {
		code := codes[calls%len(codes)]
		calls++
		return code
	}))

	result, err := svc.FinalizePayment(context.Background(), types.FinalizePaymentInput{
		OrderID: order.ID, Actor: domain.Actor{UserID: 10},
	})
	require.NoError(t, err)
	require.False(t, result.Split)
	require.Equal(t, 2, calls, "first candidate collided, second accepted")

	stored := repo.orders[order.ID]
	require.Equal(t, domain.StatusPaid, stored.Status)
	require.Equal(t, domain.ChargeFull, stored.ChargeStatus)
	require.Equal(t, "222222222222", stored.Lines[0].RedemptionCode)
	require.Len(t, repo.events, 1)
}

func TestFinalizePayment_CodeNamespaceExhaustionIsUniqueViolation(t *testing.T) {
	repo := newFakeOrderRepo()
	taken := repo.seed(unpaidOrder(99, line(variantRedemption, nil, "8.00", 1)))
	require.NoError(t, repo.AssignRedemptionCode(context.Background(), []int64{taken.Lines[0].ID}, "111111111111"))

	order := repo.seed(unpaidOrder(10, line(variantRedemption, nil, "12.00", 1)))

	// Every candidate collides, so the retry budget runs out.
	svc := newTestService(repo, WithCodeGenerator(func() string { return "111111111111" }))

	_, err := svc.FinalizePayment(context.Background(), types.FinalizePaymentInput{
		OrderID: order.ID, Actor: domain.Actor{UserID: 10},
	})
	require.Error(t, err)
	require.True(t, validation.HasCode(err, validation.CodeUnique))
	require.Equal(t, domain.StatusUnpaid, repo.orders[order.ID].Status)
	require.Empty(t, repo.orders[order.ID].Lines[0].RedemptionCode)
}

func TestFinalizePayment_SelfPickupReceivesCode(t *testing.T) {
	repo := newFakeOrderRepo()
	order := repo.seed(unpaidOrder(10, line(variantSelfPickup, nil, "6.00", 1)))
	svc := newTestService(repo)

	_, err := svc.FinalizePayment(context.Background(), types.FinalizePaymentInput{
		OrderID: order.ID, Actor: domain.Actor{UserID: 10},
	})
	require.NoError(t, err)
	require.NotEmpty(t, repo.orders[order.ID].Lines[0].RedemptionCode)
}

func TestFinalizePayment_NonRedemptionSkipsCode(t *testing.T) {
	repo := newFakeOrderRepo()
	order := repo.seed(unpaidOrder(10, line(variantNonRedeem, nil, "6.00", 1)))
	svc := newTestService(repo)

	_, err := svc.FinalizePayment(context.Background(), types.FinalizePaymentInput{
		OrderID: order.ID, Actor: domain.Actor{UserID: 10},
	})
	require.NoError(t, err)
	stored := repo.orders[order.ID]
	require.Equal(t, domain.StatusPaid, stored.Status)
	require.Empty(t, stored.Lines[0].RedemptionCode)
}

func TestFinalizePayment_PaidOrderFailsWithoutSideEffects(t *testing.T) {
	repo := newFakeOrderRepo()
	seeded := unpaidOrder(10, line(variantLogisticsA, supplierRef(1), "10.00", 1))
	seeded.Status = domain.StatusPaid
	order := repo.seed(seeded)
	svc := newTestService(repo)

	_, err := svc.FinalizePayment(context.Background(), types.FinalizePaymentInput{
		OrderID: order.ID, Actor: domain.Actor{UserID: 10},
	})
	require.True(t, validation.HasCode(err, validation.CodeNotFound))
	require.Zero(t, repo.mutations)
	require.Empty(t, repo.events)
}

func TestFinalizePayment_ForeignOrderLooksMissing(t *testing.T) {
	repo := newFakeOrderRepo()
	order := repo.seed(unpaidOrder(10, line(variantLogisticsA, supplierRef(1), "10.00", 1)))
	svc := newTestService(repo)

	_, err := svc.FinalizePayment(context.Background(), types.FinalizePaymentInput{
		OrderID: order.ID, Actor: domain.Actor{UserID: 777},
	})
	require.True(t, validation.HasCode(err, validation.CodeNotFound))
	require.Zero(t, repo.mutations)
}

func TestFinalizePayment_InvalidQuantityFailsBeforePersistence(t *testing.T) {
	repo := newFakeOrderRepo()
	seeded := unpaidOrder(10, line(variantLogisticsA, supplierRef(1), "10.00", 1))
	seeded.Lines[0].Quantity = 0
	order := repo.seed(seeded)
	svc := newTestService(repo)

	_, err := svc.FinalizePayment(context.Background(), types.FinalizePaymentInput{
		OrderID: order.ID, Actor: domain.Actor{UserID: 10},
	})
	require.True(t, validation.HasCode(err, validation.CodeInvalidQuantity))
	require.Zero(t, repo.mutations, "validation must precede any persistence call")
}

func TestFinalizePayment_UnknownProductTypeRejectsWholeOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	order := repo.seed(unpaidOrder(10,
		line(variantLogisticsA, supplierRef(1), "10.00", 1),
		line(variantUnknown, supplierRef(1), "4.00", 1),
	))
	svc := newTestService(repo)

	_, err := svc.FinalizePayment(context.Background(), types.FinalizePaymentInput{
		OrderID: order.ID, Actor: domain.Actor{UserID: 10},
	})
	require.True(t, validation.HasCode(err, validation.CodeInvalidProductType))
	require.Zero(t, repo.mutations)
	require.Equal(t, domain.StatusUnpaid, repo.orders[order.ID].Status)
}

func TestFinalizePayment_LogisticsWithoutSupplierRejected(t *testing.T) {
	repo := newFakeOrderRepo()
	order := repo.seed(unpaidOrder(10, line(variantLogisticsA, nil, "10.00", 1)))
	svc := newTestService(repo)

	_, err := svc.FinalizePayment(context.Background(), types.FinalizePaymentInput{
		OrderID: order.ID, Actor: domain.Actor{UserID: 10},
	})
	require.True(t, validation.HasCode(err, validation.CodeSupplierNotFound))
}

func TestFinalizePayment_MixedMultiSupplierRejected(t *testing.T) {
	repo := newFakeOrderRepo()
	order := repo.seed(unpaidOrder(10,
		line(variantLogisticsA, supplierRef(1), "10.00", 1),
		line(variantLogisticsB, supplierRef(2), "5.00", 1),
		line(variantRedemption, nil, "3.00", 1),
	))
	svc := newTestService(repo)

	_, err := svc.FinalizePayment(context.Background(), types.FinalizePaymentInput{
		OrderID: order.ID, Actor: domain.Actor{UserID: 10},
	})
	require.True(t, validation.HasCode(err, validation.CodeInvalid))
	require.Len(t, repo.orders, 1, "rejected split leaves the aggregate untouched")
	require.Equal(t, domain.StatusUnpaid, repo.orders[order.ID].Status)
}

func TestFinalizePayment_MixedNonLogisticsCategoriesRejected(t *testing.T) {
	repo := newFakeOrderRepo()
	order := repo.seed(unpaidOrder(10,
		line(variantRedemption, nil, "3.00", 1),
		line(variantNonRedeem, nil, "2.00", 1),
	))
	svc := newTestService(repo)

	_, err := svc.FinalizePayment(context.Background(), types.FinalizePaymentInput{
		OrderID: order.ID, Actor: domain.Actor{UserID: 10},
	})
	require.True(t, validation.HasCode(err, validation.CodeInvalid))
}

func TestFinalizePayment_MissingOrderNotFound(t *testing.T) {
	svc := newTestService(newFakeOrderRepo())
	_, err := svc.FinalizePayment(context.Background(), types.FinalizePaymentInput{
		OrderID: 404, Actor: domain.Actor{UserID: 10},
	})
	require.True(t, validation.HasCode(err, validation.CodeNotFound))
}

func TestFinalizePayment_GatewayFailureDoesNotRollBack(t *testing.T) {
	repo := newFakeOrderRepo()
	order := repo.seed(unpaidOrder(10,
		line(variantLogisticsA, supplierRef(1), "10.00", 2),
		line(variantLogisticsB, supplierRef(2), "5.00", 1),
	))
	svc := newTestService(repo, WithIntentOrchestrator(&fakeOrchestrator{fail: true}))

	result, err := svc.FinalizePayment(context.Background(), types.FinalizePaymentInput{
		OrderID: order.ID, Actor: domain.Actor{UserID: 10},
	})
	require.NoError(t, err, "gateway failure is reported, not escalated")
	require.Len(t, result.Intents, 2)
	for _, intent := range result.Intents {
		require.NotEmpty(t, intent.Error)
		require.Empty(t, intent.Reference)
	}
	// The committed split stays committed.
	require.Len(t, repo.orders, 2)
	require.Len(t, repo.events, 2)
}

func TestFinalizePayment_IntentPerResultingOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	order := repo.seed(unpaidOrder(10, line(variantRedemption, nil, "12.00", 1)))
	svc := newTestService(repo, WithIntentOrchestrator(&fakeOrchestrator{}))

	result, err := svc.FinalizePayment(context.Background(), types.FinalizePaymentInput{
		OrderID: order.ID, Actor: domain.Actor{UserID: 10},
	})
	require.NoError(t, err)
	require.Len(t, result.Intents, 1)
	require.Equal(t, fmt.Sprintf("prepay-%d", order.ID), result.Intents[0].Reference)
}
