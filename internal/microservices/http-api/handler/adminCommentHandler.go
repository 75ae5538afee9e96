package handler

import (
	"net/http"

	"reportam/internal/microservices/http-api/middleware"
	"reportam/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// AdminCommentHandler serves moderation routes; callers must mount it behind
// middleware.RequireAdmin
type AdminCommentHandler struct {
	comments *CommentHandler
}

func NewAdminCommentHandler(comments *CommentHandler) *AdminCommentHandler {
	return &AdminCommentHandler{comments: comments}
}

func (h *AdminCommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/comments", h.ListAll)
	router.DELETE("/comments/:comment_id", h.Delete)
	router.POST("/reports/:report_id/recount", h.Recount)
}

// ListAll retrieves comments across every report
// GET /api/admin/comments?page=1&limit=20
func (h *AdminCommentHandler) ListAll(c *gin.Context) {
	page, limit := h.comments.pagination(c)

	comments, err := h.comments.commentService.GetAllComments(c.Request.Context(), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

// Delete removes any comment regardless of fingerprint
// DELETE /api/admin/comments/:comment_id
func (h *AdminCommentHandler) Delete(c *gin.Context) {
	commentID, ok := uuidParam(c, "comment_id", "Invalid comment ID")
	if !ok {
		return
	}

	adminID, _ := middleware.AdminID(c)
	if err := h.comments.commentService.DeleteComment(c.Request.Context(), commentID, service.AdminActor{AdminID: adminID}); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// Recount recomputes a report's comment count from its stored comments
// POST /api/admin/reports/:report_id/recount
func (h *AdminCommentHandler) Recount(c *gin.Context) {
	reportID, ok := uuidParam(c, "report_id", "Invalid report ID")
	if !ok {
		return
	}

	result, err := h.comments.commentService.RecountReport(c.Request.Context(), reportID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
