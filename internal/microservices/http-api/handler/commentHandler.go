package handler

import (
	"net/http"
	"strconv"

	"reportam/internal/microservices/http-api/dto"
	"reportam/internal/microservices/http-api/middleware"
	"reportam/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/leebenson/conform"
)

type CommentHandler struct {
	commentService  service.CommentService
	defaultPageSize int
	maxPageSize     int
}

func NewCommentHandler(commentService service.CommentService, defaultPageSize, maxPageSize int) *CommentHandler {
	useJSONFieldNames()
	return &CommentHandler{
		commentService:  commentService,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// RegisterRoutes registers comment-related routes. writeMiddleware runs in
// front of every mutating route.
func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup, writeMiddleware ...gin.HandlerFunc) {
	write := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, writeMiddleware...), handler)
	}

	// Report comments
	reportComments := router.Group("/reports/:report_id/comments")
	{
		reportComments.GET("", h.ListByReport)
		reportComments.GET("/tree", h.Tree)
		reportComments.POST("", write(h.Create)...)
	}

	// Comment operations (fingerprint or admin bearer token)
	comments := router.Group("/comments")
	{
		comments.POST("/:comment_id/like", write(h.Like)...)
		comments.PATCH("/:comment_id", write(h.Update)...)
		comments.DELETE("/:comment_id", write(h.Delete)...)
	}
}

// Create creates a new comment or reply for a report
// POST /api/reports/:report_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	reportID, ok := uuidParam(c, "report_id", "Invalid report ID")
	if !ok {
		return
	}

	var req dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	if err := conform.Strings(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), service.CreateCommentInput{
		ReportID:    reportID,
		ParentID:    req.ParentID,
		Text:        req.Text,
		AuthorLabel: req.AuthorLabel,
		Fingerprint: req.Fingerprint,
		IPAddress:   c.ClientIP(),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateCommentResponse{
		Message: "Comment added successfully",
		Comment: comment,
	})
}

// ListByReport retrieves a flat page of a report's comments, newest first
// GET /api/reports/:report_id/comments?page=1&limit=20
// GET /api/reports/:report_id/comments?mode=tree returns the full thread instead
func (h *CommentHandler) ListByReport(c *gin.Context) {
	if c.Query("mode") == "tree" {
		h.Tree(c)
		return
	}

	reportID, ok := uuidParam(c, "report_id", "Invalid report ID")
	if !ok {
		return
	}

	page, limit := h.pagination(c)

	comments, err := h.commentService.GetReportComments(c.Request.Context(), reportID, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

// Tree retrieves the full two-level comment thread of a report
// GET /api/reports/:report_id/comments/tree
func (h *CommentHandler) Tree(c *gin.Context) {
	reportID, ok := uuidParam(c, "report_id", "Invalid report ID")
	if !ok {
		return
	}

	thread, err := h.commentService.GetReportThread(c.Request.Context(), reportID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, thread)
}

// Like toggles the caller's like on a comment
// POST /api/comments/:comment_id/like
func (h *CommentHandler) Like(c *gin.Context) {
	commentID, ok := uuidParam(c, "comment_id", "Invalid comment ID")
	if !ok {
		return
	}

	var req dto.LikeCommentDTO
	if hasBody(c) {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindingError(c, err)
			return
		}
		if err := conform.Strings(&req); err != nil {
			respondBindingError(c, err)
			return
		}
	}

	voterToken := req.VoterToken
	if voterToken == "" {
		voterToken = c.ClientIP()
	}

	result, err := h.commentService.ToggleLike(c.Request.Context(), commentID, voterToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Update edits a comment's text
// PATCH /api/comments/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
	commentID, ok := uuidParam(c, "comment_id", "Invalid comment ID")
	if !ok {
		return
	}

	var req dto.UpdateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	if err := conform.Strings(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	comment, err := h.commentService.UpdateComment(c.Request.Context(), commentID, req.Text, actorFromContext(c, req.Fingerprint))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// Delete deletes a comment and, for a top-level comment, its replies
// DELETE /api/comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, ok := uuidParam(c, "comment_id", "Invalid comment ID")
	if !ok {
		return
	}

	var req dto.DeleteCommentDTO
	if hasBody(c) {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindingError(c, err)
			return
		}
		if err := conform.Strings(&req); err != nil {
			respondBindingError(c, err)
			return
		}
	}
	fingerprint := req.Fingerprint
	if fingerprint == "" {
		fingerprint = c.Query("fingerprint")
	}

	if err := h.commentService.DeleteComment(c.Request.Context(), commentID, actorFromContext(c, fingerprint)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

func (h *CommentHandler) pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.defaultPageSize)))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > h.maxPageSize {
		limit = h.defaultPageSize
	}
	return page, limit
}

// actorFromContext picks the admin set by the auth middleware, falling back
// to the anonymous fingerprint from the request
func actorFromContext(c *gin.Context, fingerprint string) service.Actor {
	if adminID, ok := middleware.AdminID(c); ok {
		return service.AdminActor{AdminID: adminID}
	}
	return service.AnonymousActor{Fingerprint: fingerprint}
}

func uuidParam(c *gin.Context, name, msg string) (string, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
		return "", false
	}
	return id.String(), true
}

func hasBody(c *gin.Context) bool {
	return c.Request.Body != nil && c.Request.ContentLength != 0
}
