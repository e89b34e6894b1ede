// Package server carries the gin transport for the order API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers groups the per-context API handlers the router exposes.
type Handlers struct {
	Orders    OrdersAPI
	Checkout  CheckoutAPI
	Suppliers SuppliersAPI
	Catalog   CatalogAPI
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		v1.GET("/orders", handlers.Orders.ListOrders)
		v1.GET("/orders/:orderId", handlers.Orders.GetOrderById)
		v1.GET("/orders/:orderId/events", handlers.Orders.GetOrderEvents)
		v1.POST("/orders/:orderId/payment", handlers.Orders.FinalizePayment)

		v1.POST("/checkouts", handlers.Checkout.CreateCheckout)
		v1.GET("/checkouts/:token", handlers.Checkout.GetCheckout)
		v1.POST("/checkouts/:token/convert", handlers.Checkout.ConvertToOrder)

		v1.POST("/suppliers", handlers.Suppliers.CreateSupplier)
		v1.GET("/suppliers", handlers.Suppliers.ListSuppliers)
		v1.GET("/suppliers/:supplierId", handlers.Suppliers.GetSupplierById)
		v1.DELETE("/suppliers/:supplierId", handlers.Suppliers.DeactivateSupplier)

		v1.POST("/variants", handlers.Catalog.CreateVariant)
		v1.GET("/variants", handlers.Catalog.ListVariants)
		v1.GET("/variants/:variantId", handlers.Catalog.GetVariantById)
		v1.DELETE("/variants/:variantId", handlers.Catalog.DeleteVariant)
	}

	return router
}
