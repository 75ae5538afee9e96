package repository

import (
	"context"
	"errors"
	"fmt"

	"reportam/internal/microservices/http-api/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	UpdateText(ctx context.Context, commentID, text string) error
	Delete(ctx context.Context, commentID string) (int64, error)
	DeleteReplies(ctx context.Context, parentID string) (int64, error)
	GetByID(ctx context.Context, commentID string) (*models.Comment, error)
	GetByReport(ctx context.Context, reportID string, page, pageSize int) ([]models.Comment, int64, error)
	GetAllByReport(ctx context.Context, reportID string) ([]models.Comment, error)
	GetAll(ctx context.Context, page, pageSize int) ([]models.Comment, int64, error)
	CountByReport(ctx context.Context, reportID string) (int64, error)
	AddLike(ctx context.Context, commentID, voterToken string) error
	RemoveLike(ctx context.Context, commentID, voterToken string) (bool, error)
	GetLikes(ctx context.Context, commentID string) ([]string, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create a new comment
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit("Report", "Likes").Create(comment).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// UpdateText replaces the text of a comment
func (r *commentRepository) UpdateText(ctx context.Context, commentID, text string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", commentID).
		Update("text", text)
	if result.Error != nil {
		return fmt.Errorf("update comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete a single comment, returning the number of rows removed
func (r *commentRepository) Delete(ctx context.Context, commentID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", commentID).Delete(&models.Comment{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete comment: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteReplies removes every direct reply of a top-level comment
func (r *commentRepository) DeleteReplies(ctx context.Context, parentID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Delete(&models.Comment{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete replies: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// GetByID retrieves a comment by its ID with its like set
func (r *commentRepository) GetByID(ctx context.Context, commentID string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Where("id = ?", commentID).
		Preload("Likes").
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetByReport retrieves a page of comments for a report, newest first
func (r *commentRepository) GetByReport(ctx context.Context, reportID string, page, pageSize int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	// Count total comments
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("report_id = ?", reportID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Get paginated comments
	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Preload("Likes").
		Order("created_at DESC").
		Order("id DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// GetAllByReport retrieves every comment of a report, oldest first
func (r *commentRepository) GetAllByReport(ctx context.Context, reportID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Preload("Likes").
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// GetAll retrieves a page of comments across all reports, newest first, each with its report
func (r *commentRepository) GetAll(ctx context.Context, page, pageSize int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Preload("Likes").
		Preload("Report").
		Order("created_at DESC").
		Order("id DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// CountByReport counts the comment rows that reference a report
func (r *commentRepository) CountByReport(ctx context.Context, reportID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("report_id = ?", reportID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return count, nil
}

// AddLike inserts a voter token into the like set. A token that is already
// present, including one inserted by a concurrent request, is not an error.
func (r *commentRepository) AddLike(ctx context.Context, commentID, voterToken string) error {
	like := &models.CommentLike{CommentID: commentID, VoterToken: voterToken}
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("add like: %w", err)
	}
	return nil
}

// RemoveLike deletes a voter token from the like set and reports whether it was present
func (r *commentRepository) RemoveLike(ctx context.Context, commentID, voterToken string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("comment_id = ? AND voter_token = ?", commentID, voterToken).
		Delete(&models.CommentLike{})
	if result.Error != nil {
		return false, fmt.Errorf("remove like: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetLikes returns the voter tokens of a comment
func (r *commentRepository) GetLikes(ctx context.Context, commentID string) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).
		Model(&models.CommentLike{}).
		Where("comment_id = ?", commentID).
		Order("created_at ASC").
		Pluck("voter_token", &tokens).Error
	if err != nil {
		return nil, fmt.Errorf("get likes: %w", err)
	}
	return tokens, nil
}

// unique_violation
const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
