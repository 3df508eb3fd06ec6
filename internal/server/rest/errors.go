package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/secondbrain/internal/common"
	"github.com/dmitrijs2005/secondbrain/internal/server/metrics"
	"github.com/gin-gonic/gin"
)

// errorMessages overrides the response message per error class for one
// endpoint. The common.ErrorInternal entry covers every unclassified error.
type errorMessages map[error]string

var defaultMessages = map[int]string{
	http.StatusBadRequest:          "Invalid request",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not found",
	http.StatusGone:                "Gone",
	http.StatusInternalServerError: "Internal server error",
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorConflict):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorGone):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error, status int, msgs errorMessages) string {
	if status == http.StatusInternalServerError {
		if m, ok := msgs[common.ErrorInternal]; ok {
			return m
		}
		return defaultMessages[status]
	}

	for target, m := range msgs {
		if target != common.ErrorInternal && errors.Is(err, target) {
			return m
		}
	}
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return defaultMessages[status]
}

// fail writes the error response for err. Server errors are logged with
// their cause; the body never carries it.
func (s *Server) fail(c *gin.Context, err error, msgs errorMessages) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	metrics.RequestErrors.WithLabelValues(strconv.Itoa(status)).Inc()
	c.AbortWithStatusJSON(status, gin.H{"message": messageFor(err, status, msgs)})
}

func (s *Server) badRequest(c *gin.Context, msg string) {
	metrics.RequestErrors.WithLabelValues(strconv.Itoa(http.StatusBadRequest)).Inc()
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msg})
}
