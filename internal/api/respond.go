package api

import (
	"errors"
	"net/http"

	"github.com/blogify-api/internal/service"
	"github.com/gin-gonic/gin"
)

// errorBody is the JSON shape of every error response. Code is the
// machine-readable kind; message is the human-readable text the client
// renders.
type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// respondError maps a service error onto an HTTP status and error code
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "internal"
	message := "internal server error"

	switch {
	case errors.Is(err, service.ErrValidation):
		status, code, message = http.StatusBadRequest, "validation_error", err.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		status, code, message = http.StatusUnauthorized, "invalid_credentials", err.Error()
	case errors.Is(err, service.ErrUnauthenticated):
		status, code, message = http.StatusUnauthorized, "unauthenticated", err.Error()
	case errors.Is(err, service.ErrForbidden):
		status, code, message = http.StatusForbidden, "forbidden", err.Error()
	case errors.Is(err, service.ErrNotFound):
		status, code, message = http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, service.ErrConflict):
		status, code, message = http.StatusConflict, "conflict", err.Error()
	}

	c.JSON(status, errorBody{Message: message, Code: code})
}
