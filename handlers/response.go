package handlers

import (
	"errors"
	"net/http"

	"nyayasetu-web/backend"
	"nyayasetu-web/service"

	"github.com/gin-gonic/gin"
)

// classify maps a service error to an HTTP status, an error code and the
// message shown to the user. Backend messages are passed through verbatim
func classify(err error) (status int, code, message string) {
	var (
		ve *service.ValidationError
		be *backend.BackendError
		te *backend.TransportError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Code, ve.Message
	case errors.Is(err, service.ErrRequestInFlight):
		return http.StatusConflict, "REQUEST_IN_FLIGHT", "A request is already in progress"
	case errors.Is(err, service.ErrStaleResponse):
		return http.StatusConflict, "STALE_RESPONSE", "The conversation changed before the answer arrived"
	case errors.Is(err, service.ErrJobNotFound):
		return http.StatusNotFound, "NOT_FOUND", "Upload job not found"
	case errors.As(err, &be):
		return http.StatusBadGateway, "BACKEND_ERROR", be.Message
	case errors.As(err, &te):
		return http.StatusServiceUnavailable, "BACKEND_UNAVAILABLE", backend.ConnectivityMessage
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}

func respondError(c *gin.Context, err error) {
	status, code, message := classify(err)
	if status >= http.StatusInternalServerError || status == http.StatusBadGateway {
		c.Error(err)
	}
	fail(c, status, code, message)
}

func fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// renderPage renders an HTML view. A non-nil err sets the inline error
// message and the status it maps to
func renderPage(c *gin.Context, name string, data gin.H, err error) {
	status := http.StatusOK
	if err != nil {
		var message string
		status, _, message = classify(err)
		data["Error"] = message
		if status >= http.StatusInternalServerError || status == http.StatusBadGateway {
			c.Error(err)
		}
	}
	c.HTML(status, name, data)
}

// badRequest turns a binding failure into a validation error for pages
func badRequest(err error) error {
	return &service.ValidationError{Code: "INVALID_REQUEST", Message: err.Error()}
}
