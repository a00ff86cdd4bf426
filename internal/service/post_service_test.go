package service

import (
	"context"
	"testing"

	"matchasocial/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockPostRepository is a mock of the repository.PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	args := m.Called(ctx, id, currentUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, userID, limit, offset, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, limit, offset, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	args := m.Called(ctx, query, limit, offset, currentUserID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name                  string
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{"defaults", 0, 0, DefaultFeedLimit, 0},
		{"negative limit", -5, 0, DefaultFeedLimit, 0},
		{"above max", 500, 10, MaxFeedLimit, 10},
		{"negative offset", 20, -3, 20, 0},
		{"in range untouched", 50, 40, 50, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := ClampPage(tt.limit, tt.offset)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	repo := new(MockPostRepository)
	svc := NewPostService(repo)

	_, err := svc.Create(context.Background(), CreatePostInput{
		UserID:        1,
		StoreName:     "",
		ReviewText:    "fine",
		OverallRating: 3,
	})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	repo.AssertNotCalled(t, "Create")
}

func TestCreate_NormalizesInput(t *testing.T) {
	repo := new(MockPostRepository)
	svc := NewPostService(repo)
	ctx := context.Background()

	var created *models.Post
	repo.On("Create", ctx, mock.AnythingOfType("*models.Post")).Run(func(args mock.Arguments) {
		created = args.Get(1).(*models.Post)
		created.ID = 9
	}).Return(nil)
	repo.On("GetByID", ctx, uint(9), uint(1)).Return(&models.Post{ID: 9}, nil)

	_, err := svc.Create(ctx, CreatePostInput{
		UserID:        1,
		StoreName:     "  Kyoto Matcha House  ",
		ReviewText:    "Lovely.",
		OverallRating: 4,
		Tags:          []string{" iced ", "", "iced", "weekend"},
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "Kyoto Matcha House", created.StoreName)
	assert.Equal(t, models.MatchaTypeOther, created.MatchaType, "empty type defaults to other")
	assert.Equal(t, []string{"iced", "weekend"}, []string(created.Tags), "tags are trimmed and deduplicated")
	repo.AssertExpectations(t)
}

func TestGet_MapsRecordNotFound(t *testing.T) {
	repo := new(MockPostRepository)
	svc := NewPostService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, uint(404), uint(0)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(ctx, 404, 0)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestUpdate_ForbiddenForNonOwner(t *testing.T) {
	repo := new(MockPostRepository)
	svc := NewPostService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, uint(5), uint(2)).Return(&models.Post{ID: 5, UserID: 1}, nil)

	text := "hijacked"
	_, err := svc.Update(ctx, 5, 2, UpdatePostInput{ReviewText: &text})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeForbidden, appErr.Code)
	repo.AssertNotCalled(t, "Update")
}

func TestDelete_ForbiddenForNonOwner(t *testing.T) {
	repo := new(MockPostRepository)
	svc := NewPostService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, uint(5), uint(2)).Return(&models.Post{ID: 5, UserID: 1}, nil)

	err := svc.Delete(ctx, 5, 2)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeForbidden, appErr.Code)
	repo.AssertNotCalled(t, "Delete")
}

func TestList_PassesClampedPageToRepo(t *testing.T) {
	repo := new(MockPostRepository)
	svc := NewPostService(repo)
	ctx := context.Background()

	repo.On("List", ctx, MaxFeedLimit, 0, uint(3)).Return([]*models.Post{}, nil)

	_, err := svc.List(ctx, 9999, -1, 3)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
