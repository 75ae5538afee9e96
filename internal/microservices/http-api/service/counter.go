package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"reportam/internal/metrics"
	"reportam/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// ReportCounter keeps the denormalized commentsCount of a report in line with
// its comment rows. The comment rows are authoritative: Recount can always
// repair a drifted counter.
type ReportCounter struct {
	reports  repository.ReportRepository
	comments repository.CommentRepository
	logger   *slog.Logger
}

func NewReportCounter(reports repository.ReportRepository, comments repository.CommentRepository, logger *slog.Logger) *ReportCounter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportCounter{reports: reports, comments: comments, logger: logger}
}

// Increment adds one to the report's counter after a comment was created
func (rc *ReportCounter) Increment(ctx context.Context, reportID string) error {
	if err := rc.reports.IncrementCommentsCount(ctx, reportID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReportNotFound
		}
		return err
	}
	return nil
}

// Recount sets the report's counter to the number of comment rows referencing it
func (rc *ReportCounter) Recount(ctx context.Context, reportID string) (int64, error) {
	count, err := rc.comments.CountByReport(ctx, reportID)
	if err != nil {
		return 0, err
	}
	if err := rc.reports.SetCommentsCount(ctx, reportID, count); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrReportNotFound
		}
		return 0, err
	}
	return count, nil
}

// RecountAll recounts every report. A failing report does not stop the run;
// all failures are returned joined together.
func (rc *ReportCounter) RecountAll(ctx context.Context) (int, error) {
	ids, err := rc.reports.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	var errs []error
	recounted := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		count, err := rc.Recount(ctx, id)
		if err != nil {
			rc.logger.Error("recount_failed", "report_id", id, "error", err)
			errs = append(errs, fmt.Errorf("report %s: %w", id, err))
			continue
		}
		rc.logger.Debug("recounted", "report_id", id, "comments_count", count)
		recounted++
	}

	return recounted, errors.Join(errs...)
}

// syncAfterCreate and syncAfterRemove run after the comment mutation has been
// committed. Failures are logged and counted, never returned.
func (rc *ReportCounter) syncAfterCreate(ctx context.Context, reportID, commentID string) {
	if err := rc.Increment(context.WithoutCancel(ctx), reportID); err != nil {
		metrics.CountSyncFailures.WithLabelValues("increment").Inc()
		rc.logger.Error("comment_count_sync_failed",
			"kind", "increment",
			"report_id", reportID,
			"comment_id", commentID,
			"error", err,
		)
	}
}

func (rc *ReportCounter) syncAfterRemove(ctx context.Context, reportID, commentID string) {
	if _, err := rc.Recount(context.WithoutCancel(ctx), reportID); err != nil {
		metrics.CountSyncFailures.WithLabelValues("recount").Inc()
		rc.logger.Error("comment_count_sync_failed",
			"kind", "recount",
			"report_id", reportID,
			"comment_id", commentID,
			"error", err,
		)
	}
}
