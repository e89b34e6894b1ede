package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	checkouthttpmapper "github.com/openmall/order-api-server/internal/domains/checkout/adapters/http/mapper"
	checkouttypes "github.com/openmall/order-api-server/internal/domains/checkout/application/types"
	checkoutports "github.com/openmall/order-api-server/internal/domains/checkout/ports"
	orderhttpmapper "github.com/openmall/order-api-server/internal/domains/orders/adapters/http/mapper"
	ordersdomain "github.com/openmall/order-api-server/internal/domains/orders/domain"
	apierrors "github.com/openmall/order-api-server/internal/shared/errors"
)

// CheckoutAPI wires HTTP transport with the checkout bounded context service.
type CheckoutAPI struct {
	service checkoutports.Service
}

// NewCheckoutAPI creates a CheckoutAPI backed by the provided service.
func NewCheckoutAPI(service checkoutports.Service) CheckoutAPI {
	return CheckoutAPI{service: service}
}

// Post /v1/checkouts
// Create a checkout
func (api *CheckoutAPI) CreateCheckout(c *gin.Context) {
	var payload checkouthttpmapper.MutationCheckout
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	checkout, err := checkouthttpmapper.ToDomainCheckout(payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	created, err := api.service.CreateCheckout(c.Request.Context(), checkout)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, checkouthttpmapper.FromDomainCheckout(created))
}

// Get /v1/checkouts/:token
// Find checkout by token
func (api *CheckoutAPI) GetCheckout(c *gin.Context) {
	checkout, err := api.service.GetCheckout(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkouthttpmapper.FromDomainCheckout(checkout))
}

// Post /v1/checkouts/:token/convert
// Convert a checkout into an unpaid order
func (api *CheckoutAPI) ConvertToOrder(c *gin.Context) {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail("token must be a UUID"))
		return
	}
	var payload checkouthttpmapper.ConvertRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := api.service.ConvertToOrder(c.Request.Context(), checkouttypes.ConvertInput{
		CheckoutToken: token,
		Actor:         ordersdomain.Actor{UserID: payload.UserID, AppID: payload.AppID},
		KeepCheckout:  payload.KeepCheckout,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromDomainOrder(order))
}
