package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/secondbrain/internal/common"
	"github.com/dmitrijs2005/secondbrain/internal/server/metrics"
	"github.com/gin-gonic/gin"
)

// hours accepts a JSON number, a numeric string or null.
type hours struct {
	value *float64
}

func (h *hours) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		h.value = nil
		return nil
	}

	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	var v float64
	switch x := raw.(type) {
	case float64:
		v = x
	case string:
		x = strings.TrimSpace(x)
		if x == "" {
			h.value = nil
			return nil
		}
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return fmt.Errorf("expiresIn: %w", err)
		}
		v = f
	default:
		return fmt.Errorf("expiresIn: unsupported value %s", b)
	}
	h.value = &v
	return nil
}

type shareRequest struct {
	ContentIDs []string `json:"contentIds"`
	ExpiresIn  hours    `json:"expiresIn"`
}

type shareResponse struct {
	Message   string     `json:"message"`
	ShareID   string     `json:"shareId"`
	ShareLink string     `json:"shareLink"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

func (s *Server) createShare(c *gin.Context) {
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body")
		return
	}

	share, err := s.deps.Shares.Create(c.Request.Context(), callerID(c), req.ContentIDs, req.ExpiresIn.value)
	if err != nil {
		s.fail(c, err, errorMessages{
			common.ErrorForbidden:    "You can only share your own content",
			common.ErrorUnauthorized: "User does not exist",
			common.ErrorInternal:     "Server error while creating share",
		})
		return
	}

	metrics.SharesCreated.Inc()
	c.JSON(http.StatusCreated, shareResponse{
		Message:   "Content shared successfully",
		ShareID:   share.ShareID,
		ShareLink: s.shareLink(c.Request, share.ShareID),
		ExpiresAt: share.ExpiresAt,
	})
}

func (s *Server) resolveShare(c *gin.Context) {
	brain, err := s.deps.Shares.Resolve(c.Request.Context(), c.Param("shareId"))
	if err != nil {
		switch statusFor(err) {
		case http.StatusNotFound:
			metrics.ShareResolutions.WithLabelValues(metrics.ResultNotFound).Inc()
		case http.StatusGone:
			metrics.ShareResolutions.WithLabelValues(metrics.ResultGone).Inc()
		default:
			metrics.ShareResolutions.WithLabelValues(metrics.ResultError).Inc()
		}
		s.fail(c, err, errorMessages{
			common.ErrorNotFound: "Shared content not found",
			common.ErrorGone:     "This shared content has expired",
			common.ErrorInternal: "Server error while retrieving shared content",
		})
		return
	}

	metrics.ShareResolutions.WithLabelValues(metrics.ResultOK).Inc()
	c.JSON(http.StatusOK, brain)
}

// shareLink builds the public link. Without a configured base URL it is
// derived from the incoming request.
func (s *Server) shareLink(r *http.Request, shareID string) string {
	base := strings.TrimRight(s.publicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
			scheme = p
		}
		base = scheme + "://" + r.Host
	}
	return base + "/share/" + shareID
}
