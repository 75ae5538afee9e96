package repository

import (
	"context"
	"fmt"

	"reportam/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type ReportRepository interface {
	GetByID(ctx context.Context, reportID string) (*models.Report, error)
	IncrementCommentsCount(ctx context.Context, reportID string) error
	SetCommentsCount(ctx context.Context, reportID string, count int64) error
	ListIDs(ctx context.Context) ([]string, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// GetByID retrieves a report by its ID
func (r *reportRepository) GetByID(ctx context.Context, reportID string) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).Where("id = ?", reportID).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// IncrementCommentsCount adds one to the report's comment counter in a single statement
func (r *reportRepository) IncrementCommentsCount(ctx context.Context, reportID string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ?", reportID).
		UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("increment comments count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetCommentsCount overwrites the report's comment counter
func (r *reportRepository) SetCommentsCount(ctx context.Context, reportID string, count int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ?", reportID).
		UpdateColumn("comments_count", count)
	if result.Error != nil {
		return fmt.Errorf("set comments count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListIDs returns the IDs of every report, used by the full recount
func (r *reportRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.Report{}).Order("created_at ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list report ids: %w", err)
	}
	return ids, nil
}
