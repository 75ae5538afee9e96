package dto

import (
	"time"

	"reportam/internal/microservices/http-api/models"
)

// CreateCommentDTO for creating a comment or a reply
type CreateCommentDTO struct {
	Text        string  `json:"text" binding:"required,max=50" conform:"trim"`
	ParentID    *string `json:"parent_id" binding:"omitempty,uuid"`
	AuthorLabel string  `json:"author_label" binding:"max=100" conform:"trim"`
	Fingerprint string  `json:"fingerprint" binding:"max=255" conform:"trim"`
}

// UpdateCommentDTO for editing a comment's text
type UpdateCommentDTO struct {
	Text        string `json:"text" binding:"required,max=50" conform:"trim"`
	Fingerprint string `json:"fingerprint" binding:"max=255" conform:"trim"`
}

// DeleteCommentDTO carries the fingerprint for anonymous deletes; the body is optional
type DeleteCommentDTO struct {
	Fingerprint string `json:"fingerprint" conform:"trim"`
}

// LikeCommentDTO for toggling a like; voter token defaults to the client IP
type LikeCommentDTO struct {
	VoterToken string `json:"voter_token" binding:"max=255" conform:"trim"`
}

// CommentResponse for returning comment information. Fingerprint and IP are never exposed.
type CommentResponse struct {
	ID          string    `json:"id"`
	ReportID    string    `json:"report_id"`
	ParentID    *string   `json:"parent_id"`
	AuthorLabel string    `json:"author_label"`
	Text        string    `json:"text"`
	Likes       []string  `json:"likes"`
	LikesCount  int       `json:"likes_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromModelToCommentResponse converts a Comment model to CommentResponse DTO
func FromModelToCommentResponse(comment *models.Comment) *CommentResponse {
	likes := comment.VoterTokens()
	return &CommentResponse{
		ID:          comment.ID,
		ReportID:    comment.ReportID,
		ParentID:    comment.ParentID,
		AuthorLabel: comment.AuthorLabel,
		Text:        comment.Text,
		Likes:       likes,
		LikesCount:  len(likes),
		CreatedAt:   comment.CreatedAt,
		UpdatedAt:   comment.UpdatedAt,
	}
}

// FromModelsToCommentResponses converts a page of comments
func FromModelsToCommentResponses(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, *FromModelToCommentResponse(&comments[i]))
	}
	return out
}

// ReportSummary identifies the report a comment belongs to in admin listings
type ReportSummary struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// AdminCommentResponse is a comment with its report, for moderators
type AdminCommentResponse struct {
	CommentResponse
	Report *ReportSummary `json:"report,omitempty"`
}

// FromModelsToAdminCommentResponses converts comments loaded with their report
func FromModelsToAdminCommentResponses(comments []models.Comment) []AdminCommentResponse {
	out := make([]AdminCommentResponse, 0, len(comments))
	for i := range comments {
		item := AdminCommentResponse{CommentResponse: *FromModelToCommentResponse(&comments[i])}
		if r := comments[i].Report; r.ID != "" {
			item.Report = &ReportSummary{
				ID:          r.ID,
				Type:        r.Type,
				Description: r.Description,
				Status:      r.Status,
			}
		}
		out = append(out, item)
	}
	return out
}

// CreateCommentResponse wraps the created comment with a confirmation message
type CreateCommentResponse struct {
	Message string           `json:"message"`
	Comment *CommentResponse `json:"comment"`
}

// LikeResponse reports the like set after a toggle
type LikeResponse struct {
	Liked      bool     `json:"liked"`
	LikesCount int      `json:"likes_count"`
	Likes      []string `json:"likes"`
}

// PaginatedCommentResponse for returning paginated comments
type PaginatedCommentResponse struct {
	Data       []CommentResponse `json:"data"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Total      int               `json:"total"`
	TotalPages int               `json:"total_pages"`
}

// NewPaginatedCommentResponse creates a paginated comment response
func NewPaginatedCommentResponse(data []CommentResponse, total, page, limit int) *PaginatedCommentResponse {
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	return &PaginatedCommentResponse{
		Data:       data,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// PaginatedAdminCommentResponse for returning paginated comments across reports
type PaginatedAdminCommentResponse struct {
	Data       []AdminCommentResponse `json:"data"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	Total      int                    `json:"total"`
	TotalPages int                    `json:"total_pages"`
}

// NewPaginatedAdminCommentResponse creates a paginated admin comment response
func NewPaginatedAdminCommentResponse(data []AdminCommentResponse, total, page, limit int) *PaginatedAdminCommentResponse {
	p := NewPaginatedCommentResponse(nil, total, page, limit)
	return &PaginatedAdminCommentResponse{
		Data:       data,
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}

// ThreadReplyResponse is a reply inside a thread; it cannot carry replies of its own
type ThreadReplyResponse struct {
	CommentResponse
}

// ThreadCommentResponse is a top-level comment with its direct replies
type ThreadCommentResponse struct {
	CommentResponse
	Replies []ThreadReplyResponse `json:"replies"`
}

// ThreadResponse is the full two-level comment tree of a report
type ThreadResponse struct {
	ReportID string                  `json:"report_id"`
	Comments []ThreadCommentResponse `json:"comments"`
	Total    int                     `json:"total"`
}

// RecountResponse reports the recomputed comment count of a report
type RecountResponse struct {
	ReportID      string `json:"report_id"`
	CommentsCount int64  `json:"comments_count"`
}

// FieldError names a request field and the validation rule it failed
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ErrorResponse is the error body shape shared by every handler
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}
