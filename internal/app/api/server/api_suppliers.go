package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	supplierhttpmapper "github.com/openmall/order-api-server/internal/domains/suppliers/adapters/http/mapper"
	suppliersports "github.com/openmall/order-api-server/internal/domains/suppliers/ports"
	apierrors "github.com/openmall/order-api-server/internal/shared/errors"
)

// SuppliersAPI wires HTTP transport with the supplier registry service.
type SuppliersAPI struct {
	service suppliersports.Service
}

// NewSuppliersAPI creates a SuppliersAPI backed by the provided service.
func NewSuppliersAPI(service suppliersports.Service) SuppliersAPI {
	return SuppliersAPI{service: service}
}

// Post /v1/suppliers
// Register a supplier
func (api *SuppliersAPI) CreateSupplier(c *gin.Context) {
	var payload supplierhttpmapper.Supplier
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	created, err := api.service.CreateSupplier(c.Request.Context(), supplierhttpmapper.ToDomainSupplier(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, supplierhttpmapper.FromDomainSupplier(created))
}

// Get /v1/suppliers
// List suppliers
func (api *SuppliersAPI) ListSuppliers(c *gin.Context) {
	suppliers, err := api.service.ListSuppliers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplierhttpmapper.FromDomainSuppliers(suppliers))
}

// Get /v1/suppliers/:supplierId
// Find supplier by ID
func (api *SuppliersAPI) GetSupplierById(c *gin.Context) {
	supplierID, ok := parseIDParam(c, "supplierId")
	if !ok {
		return
	}
	supplier, err := api.service.GetSupplierByID(c.Request.Context(), supplierID)
	if err != nil {
		if errors.Is(err, suppliersports.ErrNotFound) {
			apierrors.Respond(c, apierrors.NewNotFoundProblem("supplier", supplierID))
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplierhttpmapper.FromDomainSupplier(supplier))
}

// Delete /v1/suppliers/:supplierId
// Deactivate a supplier
func (api *SuppliersAPI) DeactivateSupplier(c *gin.Context) {
	supplierID, ok := parseIDParam(c, "supplierId")
	if !ok {
		return
	}
	supplier, err := api.service.DeactivateSupplier(c.Request.Context(), supplierID)
	if err != nil {
		if errors.Is(err, suppliersports.ErrNotFound) {
			apierrors.Respond(c, apierrors.NewNotFoundProblem("supplier", supplierID))
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplierhttpmapper.FromDomainSupplier(supplier))
}
