package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/openmall/order-api-server/internal/domains/orders/adapters/http/mapper"
	types "github.com/openmall/order-api-server/internal/domains/orders/application/types"
	ordersdomain "github.com/openmall/order-api-server/internal/domains/orders/domain"
	ordersports "github.com/openmall/order-api-server/internal/domains/orders/ports"
	apierrors "github.com/openmall/order-api-server/internal/shared/errors"
)

// OrdersAPI wires HTTP transport with the orders bounded context service.
type OrdersAPI struct {
	service ordersports.Service
}

// NewOrdersAPI creates an OrdersAPI backed by the provided service.
func NewOrdersAPI(service ordersports.Service) OrdersAPI {
	return OrdersAPI{service: service}
}

// Post /v1/orders/:orderId/payment
// Finalize an order as fully paid, splitting it per supplier when needed
func (api *OrdersAPI) FinalizePayment(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload orderhttpmapper.FinalizePaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	result, err := api.service.FinalizePayment(c.Request.Context(), types.FinalizePaymentInput{
		OrderID: orderID,
		Actor:   ordersdomain.Actor{UserID: payload.UserID, AppID: payload.AppID},
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromFinalization(result))
}

// Get /v1/orders/:orderId
// Find order by ID
func (api *OrdersAPI) GetOrderById(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, ordersports.ErrNotFound) {
			apierrors.Respond(c, apierrors.NewNotFoundProblem("order", orderID))
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Get /v1/orders
// List orders
func (api *OrdersAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(orders))
}

// Get /v1/orders/:orderId/events
// List the append-only event log of an order
func (api *OrdersAPI) GetOrderEvents(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	events, err := api.service.EventsForOrder(c.Request.Context(), orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainEvents(events))
}
