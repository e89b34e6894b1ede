//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	pacttest "github.com/openmall/order-api-server/test/pact"

	"github.com/openmall/order-api-server/internal/app/api/server"
	catalogmemory "github.com/openmall/order-api-server/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/openmall/order-api-server/internal/domains/catalog/application"
	checkoutmemory "github.com/openmall/order-api-server/internal/domains/checkout/adapters/memory"
	checkoutapp "github.com/openmall/order-api-server/internal/domains/checkout/application"
	ordersmemory "github.com/openmall/order-api-server/internal/domains/orders/adapters/memory"
	orderssearch "github.com/openmall/order-api-server/internal/domains/orders/adapters/search"
	ordersapp "github.com/openmall/order-api-server/internal/domains/orders/application"
	ordersdomain "github.com/openmall/order-api-server/internal/domains/orders/domain"
	ordersports "github.com/openmall/order-api-server/internal/domains/orders/ports"
	suppliersmemory "github.com/openmall/order-api-server/internal/domains/suppliers/adapters/memory"
	suppliersapp "github.com/openmall/order-api-server/internal/domains/suppliers/application"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestOrderAPIProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateOrdersBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateOrderExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedOrder(t, pacttest.ExistingOrderID)
			}
			return nil, nil
		},
		pacttest.StateOrderMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateSuppliersBase: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	orders *ordersmemory.Repository
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	app := &contractProviderApp{}
	app.orders = ordersmemory.NewRepository()
	catalogRepo := catalogmemory.NewRepository()
	suppliersRepo := suppliersmemory.NewRepository()

	orderService := ordersapp.NewService(app.orders, catalogRepo, orderssearch.NewIndexer())
	checkoutService := checkoutapp.NewService(checkoutmemory.NewRepository(), catalogRepo, suppliersRepo, app.orders)
	supplierService := suppliersapp.NewService(suppliersRepo)
	catalogService := catalogapp.NewService(catalogRepo)

	handlers := server.Handlers{
		Orders:    server.NewOrdersAPI(orderService),
		Checkout:  server.NewCheckoutAPI(checkoutService),
		Suppliers: server.NewSuppliersAPI(supplierService),
		Catalog:   server.NewCatalogAPI(catalogService),
	}

	router := server.NewRouter(handlers)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	app.server = srv
	return app
}

// reset drops every seeded order so each interaction starts clean. Suppliers
// are created through the API itself, so only the order store needs clearing.
func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	orders, err := a.orders.List(ctx)
	require.NoError(t, err)
	require.NoError(t, a.orders.Atomically(ctx, func(tx ordersports.Tx) error {
		for _, order := range orders {
			if err := tx.DeleteOrder(ctx, order.ID); err != nil {
				return err
			}
		}
		return nil
	}))
}

func (a *contractProviderApp) seedOrder(t testing.TB, id int64) {
	t.Helper()
	ten := decimal.RequireFromString("10.00")
	a.orders.Seed(&ordersdomain.Order{
		ID:           id,
		Status:       ordersdomain.StatusUnpaid,
		ChargeStatus: ordersdomain.ChargeNone,
		TotalNet:     ten,
		TotalGross:   ten,
		Snapshot: ordersdomain.Snapshot{
			UserID:   pacttest.ExampleUserID,
			Currency: pacttest.ExampleCurrency,
		},
		Lines: []ordersdomain.OrderLine{{
			ID:             1,
			VariantID:      100,
			ProductName:    pacttest.ExampleProductName,
			Quantity:       1,
			UnitPriceGross: ten,
		}},
	})
}
