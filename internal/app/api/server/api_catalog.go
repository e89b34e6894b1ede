package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	varianthttpmapper "github.com/openmall/order-api-server/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/openmall/order-api-server/internal/domains/catalog/ports"
	apierrors "github.com/openmall/order-api-server/internal/shared/errors"
)

// CatalogAPI wires HTTP transport with the catalog service.
type CatalogAPI struct {
	service catalogports.Service
}

// NewCatalogAPI creates a CatalogAPI backed by the provided service.
func NewCatalogAPI(service catalogports.Service) CatalogAPI {
	return CatalogAPI{service: service}
}

// Post /v1/variants
// Register a sellable variant
func (api *CatalogAPI) CreateVariant(c *gin.Context) {
	var payload varianthttpmapper.Variant
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	variant, err := varianthttpmapper.ToDomainVariant(payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	created, err := api.service.CreateVariant(c.Request.Context(), variant)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, varianthttpmapper.FromDomainVariant(created))
}

// Get /v1/variants
// List variants
func (api *CatalogAPI) ListVariants(c *gin.Context) {
	variants, err := api.service.ListVariants(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, varianthttpmapper.FromDomainVariants(variants))
}

// Get /v1/variants/:variantId
// Find variant by ID
func (api *CatalogAPI) GetVariantById(c *gin.Context) {
	variantID, ok := parseIDParam(c, "variantId")
	if !ok {
		return
	}
	variant, err := api.service.GetVariantByID(c.Request.Context(), variantID)
	if err != nil {
		if errors.Is(err, catalogports.ErrVariantNotFound) {
			apierrors.Respond(c, apierrors.NewNotFoundProblem("variant", variantID))
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, varianthttpmapper.FromDomainVariant(variant))
}

// Delete /v1/variants/:variantId
// Remove a variant
func (api *CatalogAPI) DeleteVariant(c *gin.Context) {
	variantID, ok := parseIDParam(c, "variantId")
	if !ok {
		return
	}
	if err := api.service.DeleteVariant(c.Request.Context(), variantID); err != nil {
		if errors.Is(err, catalogports.ErrVariantNotFound) {
			apierrors.Respond(c, apierrors.NewNotFoundProblem("variant", variantID))
			return
		}
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
