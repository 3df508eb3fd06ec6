package rest

import (
	"net/http"

	"github.com/dmitrijs2005/secondbrain/internal/common"
	"github.com/dmitrijs2005/secondbrain/internal/server/metrics"
	"github.com/dmitrijs2005/secondbrain/internal/server/services"
	"github.com/gin-gonic/gin"
)

type profileRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// changes maps empty fields to "leave unchanged".
func (r profileRequest) changes() services.ProfileChanges {
	opt := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}
	return services.ProfileChanges{
		UserName:        opt(r.Username),
		Email:           opt(r.Email),
		CurrentPassword: opt(r.CurrentPassword),
		NewPassword:     opt(r.NewPassword),
	}
}

func (s *Server) getProfile(c *gin.Context) {
	p, err := s.deps.Users.Profile(c.Request.Context(), callerID(c))
	if err != nil {
		s.fail(c, err, errorMessages{
			common.ErrorNotFound: "User not found",
			common.ErrorInternal: "Server error while retrieving profile",
		})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body")
		return
	}

	u, err := s.deps.Users.UpdateProfile(c.Request.Context(), callerID(c), req.changes())
	if err != nil {
		s.fail(c, err, errorMessages{
			common.ErrorNotFound:     "User not found",
			common.ErrorUnauthorized: "Current password is incorrect",
			common.ErrorConflict:     "Username or email already in use",
			common.ErrorInternal:     "Server error while updating profile",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": u})
}

func (s *Server) export(c *gin.Context) {
	res, err := s.deps.Exports.Export(c.Request.Context(), callerID(c))
	if err != nil {
		metrics.Exports.WithLabelValues(metrics.ResultError).Inc()
		s.fail(c, err, errorMessages{
			common.ErrorNotFound: "User not found",
			common.ErrorInternal: "Server error while exporting content",
		})
		return
	}

	metrics.Exports.WithLabelValues(metrics.ResultOK).Inc()
	c.JSON(http.StatusOK, res)
}
