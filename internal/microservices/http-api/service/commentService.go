package service

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"reportam/internal/metrics"
	"reportam/internal/microservices/http-api/dto"
	"reportam/internal/microservices/http-api/models"
	"reportam/internal/microservices/http-api/repository"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// ThreadCache stores assembled threads; *cache.ThreadCache implements it
type ThreadCache interface {
	Get(ctx context.Context, reportID string) (*dto.ThreadResponse, bool, error)
	Set(ctx context.Context, thread *dto.ThreadResponse) error
	Invalidate(ctx context.Context, reportID string) error
}

type CommentService interface {
	CreateComment(ctx context.Context, input CreateCommentInput) (*dto.CommentResponse, error)
	UpdateComment(ctx context.Context, commentID, text string, actor Actor) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, commentID string, actor Actor) error
	ToggleLike(ctx context.Context, commentID, voterToken string) (*dto.LikeResponse, error)
	GetReportComments(ctx context.Context, reportID string, page, pageSize int) (*dto.PaginatedCommentResponse, error)
	GetReportThread(ctx context.Context, reportID string) (*dto.ThreadResponse, error)
	GetAllComments(ctx context.Context, page, pageSize int) (*dto.PaginatedAdminCommentResponse, error)
	RecountReport(ctx context.Context, reportID string) (*dto.RecountResponse, error)
}

// CreateCommentInput carries a new comment or reply. IPAddress is taken from
// the request, never from the body.
type CreateCommentInput struct {
	ReportID    string
	ParentID    *string
	Text        string
	AuthorLabel string
	Fingerprint string
	IPAddress   string
}

type commentService struct {
	commentRepo repository.CommentRepository
	reportRepo  repository.ReportRepository
	counter     *ReportCounter
	cache       ThreadCache
	logger      *slog.Logger
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	reportRepo repository.ReportRepository,
	cache ThreadCache,
	logger *slog.Logger,
) CommentService {
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		cache = noopThreadCache{}
	}
	return &commentService{
		commentRepo: commentRepo,
		reportRepo:  reportRepo,
		counter:     NewReportCounter(reportRepo, commentRepo, logger),
		cache:       cache,
		logger:      logger,
	}
}

var (
	textPolicy = bluemonday.StrictPolicy()
	ampersands = strings.NewReplacer("&", "&amp;")
	newlines   = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// containsMarkup reports whether an HTML parser would read part of s as a tag
// or comment. Entities and stray angle brackets are plain text.
func containsMarkup(s string) bool {
	plain := newlines.Replace(s)
	return html.UnescapeString(textPolicy.Sanitize(ampersands.Replace(plain))) != plain
}

// validateText returns the trimmed text; it is stored exactly as sent otherwise
func validateText(text string) (string, error) {
	text = strings.TrimSpace(text)
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return "", fieldError("text", "required", "text is required")
	}
	if n > models.MaxCommentTextLength {
		return "", fieldError("text", "max", "text must be at most 50 characters")
	}
	if containsMarkup(text) {
		return "", fieldError("text", "markup", "text must not contain markup")
	}
	return text, nil
}

func validateAuthorLabel(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return models.DefaultAuthorLabel, nil
	}
	if containsMarkup(label) {
		return "", fieldError("author_label", "markup", "author label must not contain markup")
	}
	return label, nil
}

// CreateComment adds a top-level comment or a reply to a top-level comment
func (s *commentService) CreateComment(ctx context.Context, input CreateCommentInput) (*dto.CommentResponse, error) {
	text, err := validateText(input.Text)
	if err != nil {
		return nil, err
	}
	authorLabel, err := validateAuthorLabel(input.AuthorLabel)
	if err != nil {
		return nil, err
	}
	if input.IPAddress == "" {
		return nil, invalidInput("ip address is required")
	}

	// Check if report exists
	if err := s.ensureReport(ctx, input.ReportID); err != nil {
		return nil, err
	}

	var parentID *string
	if input.ParentID != nil && *input.ParentID != "" {
		parent, err := s.commentRepo.GetByID(ctx, *input.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parent.ReportID != input.ReportID {
			return nil, ErrParentReportMismatch
		}
		if parent.IsReply() {
			return nil, ErrInvalidNesting
		}
		id := parent.ID
		parentID = &id
	}

	comment := &models.Comment{
		ReportID:    input.ReportID,
		ParentID:    parentID,
		AuthorLabel: authorLabel,
		Text:        text,
		Fingerprint: input.Fingerprint,
		IPAddress:   input.IPAddress,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	metrics.CommentOperations.WithLabelValues(metrics.OpCreate).Inc()

	s.counter.syncAfterCreate(ctx, comment.ReportID, comment.ID)
	s.invalidate(ctx, comment.ReportID)

	return dto.FromModelToCommentResponse(comment), nil
}

// UpdateComment replaces the text of a comment the actor may moderate
func (s *commentService) UpdateComment(ctx context.Context, commentID, text string, actor Actor) (*dto.CommentResponse, error) {
	clean, err := validateText(text)
	if err != nil {
		return nil, err
	}

	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return nil, err
	}

	// Check ownership
	if !Authorize(comment, actor) {
		return nil, ErrForbidden
	}

	if err := s.commentRepo.UpdateText(ctx, comment.ID, clean); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	metrics.CommentOperations.WithLabelValues(metrics.OpEdit).Inc()

	comment.Text = clean
	comment.UpdatedAt = time.Now()
	s.invalidate(ctx, comment.ReportID)

	return dto.FromModelToCommentResponse(comment), nil
}

// DeleteComment removes a comment; removing a top-level comment removes its replies first
func (s *commentService) DeleteComment(ctx context.Context, commentID string, actor Actor) error {
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return err
	}

	if !Authorize(comment, actor) {
		return ErrForbidden
	}

	if !comment.IsReply() {
		removed, err := s.commentRepo.DeleteReplies(ctx, comment.ID)
		if err != nil {
			return err
		}
		if removed > 0 {
			s.logger.Debug("replies_removed", "comment_id", comment.ID, "count", removed)
		}
	}

	deleted, err := s.commentRepo.Delete(ctx, comment.ID)
	if err != nil {
		return err
	}
	// Removed by a concurrent request between lookup and delete
	if deleted == 0 {
		return ErrCommentNotFound
	}
	metrics.CommentOperations.WithLabelValues(metrics.OpRemove).Inc()

	s.counter.syncAfterRemove(ctx, comment.ReportID, comment.ID)
	s.invalidate(ctx, comment.ReportID)

	return nil
}

// ToggleLike adds voterToken to the comment's like set, or removes it if present
func (s *commentService) ToggleLike(ctx context.Context, commentID, voterToken string) (*dto.LikeResponse, error) {
	if voterToken == "" {
		return nil, invalidInput("voter token is required")
	}

	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return nil, err
	}

	removed, err := s.commentRepo.RemoveLike(ctx, comment.ID, voterToken)
	if err != nil {
		return nil, err
	}
	liked := !removed
	if liked {
		if err := s.commentRepo.AddLike(ctx, comment.ID, voterToken); err != nil {
			return nil, err
		}
		metrics.CommentOperations.WithLabelValues(metrics.OpLike).Inc()
	} else {
		metrics.CommentOperations.WithLabelValues(metrics.OpUnlike).Inc()
	}

	likes, err := s.commentRepo.GetLikes(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	if likes == nil {
		likes = []string{}
	}
	s.invalidate(ctx, comment.ReportID)

	return &dto.LikeResponse{
		Liked:      liked,
		LikesCount: len(likes),
		Likes:      likes,
	}, nil
}

// GetReportComments retrieves a page of a report's comments, newest first, without nesting
func (s *commentService) GetReportComments(ctx context.Context, reportID string, page, pageSize int) (*dto.PaginatedCommentResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	if err := s.ensureReport(ctx, reportID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.GetByReport(ctx, reportID, page, pageSize)
	if err != nil {
		return nil, err
	}

	return dto.NewPaginatedCommentResponse(dto.FromModelsToCommentResponses(comments), int(total), page, pageSize), nil
}

// GetReportThread retrieves the full two-level comment tree of a report
func (s *commentService) GetReportThread(ctx context.Context, reportID string) (*dto.ThreadResponse, error) {
	if err := s.ensureReport(ctx, reportID); err != nil {
		return nil, err
	}

	cached, ok, err := s.cache.Get(ctx, reportID)
	switch {
	case err != nil:
		metrics.ThreadCacheLookups.WithLabelValues("error").Inc()
		s.logger.Warn("thread_cache_get_failed", "report_id", reportID, "error", err)
	case ok:
		metrics.ThreadCacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.ThreadCacheLookups.WithLabelValues("miss").Inc()
	}

	comments, err := s.commentRepo.GetAllByReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	thread := newThreadResponse(AssembleThread(reportID, comments))
	metrics.CommentOperations.WithLabelValues(metrics.OpThreadRead).Inc()

	if err := s.cache.Set(ctx, thread); err != nil {
		s.logger.Warn("thread_cache_set_failed", "report_id", reportID, "error", err)
	}

	return thread, nil
}

// GetAllComments retrieves a page of comments across every report with a summary of each report, for administrators
func (s *commentService) GetAllComments(ctx context.Context, page, pageSize int) (*dto.PaginatedAdminCommentResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	comments, total, err := s.commentRepo.GetAll(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	return dto.NewPaginatedAdminCommentResponse(dto.FromModelsToAdminCommentResponses(comments), int(total), page, pageSize), nil
}

// RecountReport recomputes a report's commentsCount from its comment rows
func (s *commentService) RecountReport(ctx context.Context, reportID string) (*dto.RecountResponse, error) {
	count, err := s.counter.Recount(ctx, reportID)
	if err != nil {
		return nil, err
	}
	metrics.CommentOperations.WithLabelValues(metrics.OpRecount).Inc()
	s.logger.Info("report_recounted", "report_id", reportID, "comments_count", count)

	return &dto.RecountResponse{ReportID: reportID, CommentsCount: count}, nil
}

func (s *commentService) ensureReport(ctx context.Context, reportID string) error {
	if reportID == "" {
		return invalidInput("report id is required")
	}
	if _, err := s.reportRepo.GetByID(ctx, reportID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReportNotFound
		}
		return err
	}
	return nil
}

func (s *commentService) getComment(ctx context.Context, commentID string) (*models.Comment, error) {
	if commentID == "" {
		return nil, invalidInput("comment id is required")
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *commentService) invalidate(ctx context.Context, reportID string) {
	if err := s.cache.Invalidate(context.WithoutCancel(ctx), reportID); err != nil {
		s.logger.Warn("thread_cache_invalidate_failed", "report_id", reportID, "error", err)
	}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

type noopThreadCache struct{}

func (noopThreadCache) Get(context.Context, string) (*dto.ThreadResponse, bool, error) {
	return nil, false, nil
}
func (noopThreadCache) Set(context.Context, *dto.ThreadResponse) error { return nil }
func (noopThreadCache) Invalidate(context.Context, string) error       { return nil }
