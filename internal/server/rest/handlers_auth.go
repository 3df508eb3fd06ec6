package rest

import (
	"net/http"

	"github.com/dmitrijs2005/secondbrain/internal/common"
	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

func (s *Server) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body")
		return
	}

	sess, err := s.deps.Users.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.fail(c, err, errorMessages{
			common.ErrorConflict: "User already exists",
			common.ErrorInternal: "Server error during signup",
		})
		return
	}

	s.logger.Info(c.Request.Context(), "user registered", "user_id", sess.UserID)
	c.JSON(http.StatusCreated, authResponse{
		Message:  "User created successfully",
		Token:    sess.Token,
		UserID:   sess.UserID,
		Username: sess.UserName,
	})
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body")
		return
	}

	sess, err := s.deps.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(c, err, errorMessages{
			common.ErrorUnauthorized: "Invalid credentials",
			common.ErrorInternal:     "Server error during login",
		})
		return
	}

	c.JSON(http.StatusOK, authResponse{
		Message:  "Login successful",
		Token:    sess.Token,
		UserID:   sess.UserID,
		Username: sess.UserName,
	})
}

// signin is a retired route kept for old clients.
func (s *Server) signin(c *gin.Context) {
	c.JSON(http.StatusMovedPermanently, gin.H{
		"message": "This endpoint is deprecated. Please use " + common.APIPrefix + "/login instead.",
	})
}
