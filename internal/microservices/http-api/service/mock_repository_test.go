package service

import (
	"context"

	"reportam/internal/microservices/http-api/dto"
	"reportam/internal/microservices/http-api/models"

	"github.com/stretchr/testify/mock"
)

// --- MOCK REPOSITORIES ---

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) UpdateText(ctx context.Context, commentID, text string) error {
	args := m.Called(ctx, commentID, text)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, commentID string) (int64, error) {
	args := m.Called(ctx, commentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepository) DeleteReplies(ctx context.Context, parentID string) (int64, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, commentID string) (*models.Comment, error) {
	args := m.Called(ctx, commentID)
	// Handle nil return safely
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) GetByReport(ctx context.Context, reportID string, page, pageSize int) ([]models.Comment, int64, error) {
	args := m.Called(ctx, reportID, page, pageSize)
	return args.Get(0).([]models.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommentRepository) GetAllByReport(ctx context.Context, reportID string) ([]models.Comment, error) {
	args := m.Called(ctx, reportID)
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentRepository) GetAll(ctx context.Context, page, pageSize int) ([]models.Comment, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]models.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommentRepository) CountByReport(ctx context.Context, reportID string) (int64, error) {
	args := m.Called(ctx, reportID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepository) AddLike(ctx context.Context, commentID, voterToken string) error {
	args := m.Called(ctx, commentID, voterToken)
	return args.Error(0)
}

func (m *MockCommentRepository) RemoveLike(ctx context.Context, commentID, voterToken string) (bool, error) {
	args := m.Called(ctx, commentID, voterToken)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommentRepository) GetLikes(ctx context.Context, commentID string) ([]string, error) {
	args := m.Called(ctx, commentID)
	return args.Get(0).([]string), args.Error(1)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) GetByID(ctx context.Context, reportID string) (*models.Report, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockReportRepository) IncrementCommentsCount(ctx context.Context, reportID string) error {
	args := m.Called(ctx, reportID)
	return args.Error(0)
}

func (m *MockReportRepository) SetCommentsCount(ctx context.Context, reportID string, count int64) error {
	args := m.Called(ctx, reportID, count)
	return args.Error(0)
}

func (m *MockReportRepository) ListIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

type MockThreadCache struct {
	mock.Mock
}

func (m *MockThreadCache) Get(ctx context.Context, reportID string) (*dto.ThreadResponse, bool, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*dto.ThreadResponse), args.Bool(1), args.Error(2)
}

func (m *MockThreadCache) Set(ctx context.Context, thread *dto.ThreadResponse) error {
	args := m.Called(ctx, thread)
	return args.Error(0)
}

func (m *MockThreadCache) Invalidate(ctx context.Context, reportID string) error {
	args := m.Called(ctx, reportID)
	return args.Error(0)
}
