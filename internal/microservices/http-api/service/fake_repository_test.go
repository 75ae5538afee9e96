package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"reportam/internal/microservices/http-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeStore is an in-memory stand-in for the comments and reports tables
type fakeStore struct {
	mu       sync.Mutex
	reports  map[string]*models.Report
	comments []models.Comment
	likes    map[string][]string
	clock    time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		reports: make(map[string]*models.Report),
		likes:   make(map[string][]string),
		clock:   time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *fakeStore) addReport() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.reports[id] = &models.Report{ID: id, Type: "general", Category: "roads", Description: "Pothole", Status: "pending"}
	return id
}

func (s *fakeStore) commentsCount(reportID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reports[reportID].CommentsCount
}

func (s *fakeStore) rows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.comments)
}

func (s *fakeStore) withLikes(c models.Comment) models.Comment {
	c.Likes = nil
	for _, token := range s.likes[c.ID] {
		c.Likes = append(c.Likes, models.CommentLike{CommentID: c.ID, VoterToken: token})
	}
	return c
}

type fakeCommentRepo struct{ s *fakeStore }

func (r fakeCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	r.s.clock = r.s.clock.Add(time.Second)
	comment.CreatedAt = r.s.clock
	comment.UpdatedAt = r.s.clock
	r.s.comments = append(r.s.comments, *comment)
	return nil
}

func (r fakeCommentRepo) UpdateText(ctx context.Context, commentID, text string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.comments {
		if r.s.comments[i].ID == commentID {
			r.s.comments[i].Text = text
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r fakeCommentRepo) Delete(ctx context.Context, commentID string) (int64, error) {
	return r.deleteWhere(func(c models.Comment) bool { return c.ID == commentID }), nil
}

func (r fakeCommentRepo) DeleteReplies(ctx context.Context, parentID string) (int64, error) {
	return r.deleteWhere(func(c models.Comment) bool { return c.ParentID != nil && *c.ParentID == parentID }), nil
}

func (r fakeCommentRepo) deleteWhere(match func(models.Comment) bool) int64 {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.comments[:0]
	var n int64
	for _, c := range r.s.comments {
		if match(c) {
			delete(r.s.likes, c.ID)
			n++
			continue
		}
		kept = append(kept, c)
	}
	r.s.comments = kept
	return n
}

func (r fakeCommentRepo) GetByID(ctx context.Context, commentID string) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.comments {
		if c.ID == commentID {
			out := r.s.withLikes(c)
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r fakeCommentRepo) filter(match func(models.Comment) bool, newestFirst bool) []models.Comment {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Comment
	for _, c := range r.s.comments {
		if match(c) {
			out = append(out, r.s.withLikes(c))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func paginate(all []models.Comment, page, pageSize int) []models.Comment {
	start := (page - 1) * pageSize
	if start >= len(all) {
		return []models.Comment{}
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

func (r fakeCommentRepo) GetByReport(ctx context.Context, reportID string, page, pageSize int) ([]models.Comment, int64, error) {
	all := r.filter(func(c models.Comment) bool { return c.ReportID == reportID }, true)
	return paginate(all, page, pageSize), int64(len(all)), nil
}

func (r fakeCommentRepo) GetAllByReport(ctx context.Context, reportID string) ([]models.Comment, error) {
	return r.filter(func(c models.Comment) bool { return c.ReportID == reportID }, false), nil
}

func (r fakeCommentRepo) GetAll(ctx context.Context, page, pageSize int) ([]models.Comment, int64, error) {
	all := r.filter(func(models.Comment) bool { return true }, true)
	out := paginate(all, page, pageSize)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range out {
		if report, ok := r.s.reports[out[i].ReportID]; ok {
			out[i].Report = *report
		}
	}
	return out, int64(len(all)), nil
}

func (r fakeCommentRepo) CountByReport(ctx context.Context, reportID string) (int64, error) {
	return int64(len(r.filter(func(c models.Comment) bool { return c.ReportID == reportID }, false))), nil
}

func (r fakeCommentRepo) AddLike(ctx context.Context, commentID, voterToken string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.likes[commentID] {
		if t == voterToken {
			return nil
		}
	}
	r.s.likes[commentID] = append(r.s.likes[commentID], voterToken)
	return nil
}

func (r fakeCommentRepo) RemoveLike(ctx context.Context, commentID, voterToken string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tokens := r.s.likes[commentID]
	for i, t := range tokens {
		if t == voterToken {
			r.s.likes[commentID] = append(tokens[:i:i], tokens[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r fakeCommentRepo) GetLikes(ctx context.Context, commentID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]string{}, r.s.likes[commentID]...), nil
}

type fakeReportRepo struct{ s *fakeStore }

func (r fakeReportRepo) GetByID(ctx context.Context, reportID string) (*models.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	report, ok := r.s.reports[reportID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *report
	return &out, nil
}

func (r fakeReportRepo) IncrementCommentsCount(ctx context.Context, reportID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	report, ok := r.s.reports[reportID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	report.CommentsCount++
	return nil
}

func (r fakeReportRepo) SetCommentsCount(ctx context.Context, reportID string, count int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	report, ok := r.s.reports[reportID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	report.CommentsCount = count
	return nil
}

func (r fakeReportRepo) ListIDs(ctx context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]string, 0, len(r.s.reports))
	for id := range r.s.reports {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
