package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	cerrors "github.com/threadline-io/threadline/internal/errors"
	"github.com/threadline-io/threadline/pkg/models"
)

// renderError writes the JSON error envelope for err and records it on the
// context for the request logger.
func renderError(c *gin.Context, err error) {
	_ = c.Error(err)

	if apiErr, ok := cerrors.AsAPIError(err); ok {
		c.JSON(apiErr.Status, models.ErrorResponse{
			Error:   apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
			Path:    c.Request.URL.Path,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   "InternalServerError",
		Message: "an unexpected error occurred",
		Path:    c.Request.URL.Path,
	})
}

// renderBindingError maps a gin binding failure to the 422 validation
// envelope, with one detail entry per failed field.
func renderBindingError(c *gin.Context, err error) {
	details := map[string]interface{}{}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			details[fe.Field()] = "failed on " + fe.Tag() + " validation"
		}
	}

	_ = c.Error(err)
	c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
		Error:   "ValidationError",
		Message: "request validation failed",
		Details: details,
		Path:    c.Request.URL.Path,
	})
}
