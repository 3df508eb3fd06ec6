package rest

import (
	"net/http"

	"github.com/dmitrijs2005/secondbrain/internal/common"
	"github.com/dmitrijs2005/secondbrain/internal/server/metrics"
	"github.com/dmitrijs2005/secondbrain/internal/server/models"
	"github.com/dmitrijs2005/secondbrain/internal/server/services"
	"github.com/gin-gonic/gin"
)

// contentRequest is the create/update body. A userId field, if sent, is
// ignored: the owner is always the caller.
type contentRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	URL     *string  `json:"url"`
	Type    string   `json:"type"`
	Tags    []string `json:"tags"`
}

func (r contentRequest) input() services.ContentInput {
	return services.ContentInput{Title: r.Title, Body: r.Content, URL: r.URL, Type: r.Type, Tags: r.Tags}
}

type contentResponse struct {
	Message string          `json:"message"`
	Content *models.Content `json:"content"`
}

func (s *Server) listContents(c *gin.Context) {
	items, err := s.deps.Contents.List(c.Request.Context(), callerID(c), services.ListQuery{
		Type:   c.Query("type"),
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
	})
	if err != nil {
		s.fail(c, err, errorMessages{common.ErrorInternal: "Server error while retrieving content"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) getContent(c *gin.Context) {
	item, err := s.deps.Contents.Get(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		s.fail(c, err, errorMessages{
			common.ErrorNotFound:  "Content not found",
			common.ErrorForbidden: "Not authorized to view this content",
			common.ErrorInternal:  "Server error while fetching content",
		})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) createContent(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body")
		return
	}

	item, err := s.deps.Contents.Create(c.Request.Context(), callerID(c), req.input())
	if err != nil {
		s.fail(c, err, errorMessages{
			common.ErrorUnauthorized: "User does not exist",
			common.ErrorInternal:     "Server error while saving content",
		})
		return
	}

	metrics.ContentMutations.WithLabelValues("create").Inc()
	c.JSON(http.StatusCreated, contentResponse{Message: "Content saved successfully", Content: item})
}

func (s *Server) updateContent(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body")
		return
	}

	item, err := s.deps.Contents.Update(c.Request.Context(), callerID(c), c.Param("id"), req.input())
	if err != nil {
		s.fail(c, err, errorMessages{
			common.ErrorNotFound:  "Content not found",
			common.ErrorForbidden: "Not authorized to update this content",
			common.ErrorInternal:  "Server error while updating content",
		})
		return
	}

	metrics.ContentMutations.WithLabelValues("update").Inc()
	c.JSON(http.StatusOK, contentResponse{Message: "Content updated successfully", Content: item})
}

func (s *Server) deleteContent(c *gin.Context) {
	err := s.deps.Contents.Delete(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		s.fail(c, err, errorMessages{
			common.ErrorNotFound:  "Content not found",
			common.ErrorForbidden: "Not authorized to delete this content",
			common.ErrorInternal:  "Server error while deleting content",
		})
		return
	}

	metrics.ContentMutations.WithLabelValues("delete").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Content deleted successfully"})
}

func (s *Server) listTags(c *gin.Context) {
	tags, err := s.deps.Contents.Tags(c.Request.Context(), callerID(c))
	if err != nil {
		s.fail(c, err, errorMessages{common.ErrorInternal: "Server error while retrieving tags"})
		return
	}
	c.JSON(http.StatusOK, tags)
}
