package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/openmall/order-api-server/internal/shared/errors"
)

var responder = apierrors.NewChainedResponder("", apierrors.ValidationMapper)

// respondServiceError maps application errors through the shared responder.
// Validation errors become problem details with field and code extensions;
// anything else surfaces as an internal problem.
func respondServiceError(c *gin.Context, err error) {
	responder.RespondError(c, err)
}

// respondError preserves the explicit-status call sites for transport-level
// failures like malformed payloads.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	apierrors.Respond(c, problem)
}

// parseIDParam reads a positive integer path parameter, responding with a
// problem on failure.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(name+" must be a positive integer"))
		return 0, false
	}
	return id, true
}
