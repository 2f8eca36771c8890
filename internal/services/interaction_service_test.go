package services_test

import (
	"fmt"
	"strings"
	"testing"

	"socialfeed/internal/models"
	"socialfeed/internal/repositories"
	"socialfeed/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPostRepository is a mock implementation of repositories.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(post *models.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(id string) (*models.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(usernameFilter string, offset, limit int) ([]models.Post, error) {
	args := m.Called(usernameFilter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) Count(usernameFilter string) (int64, error) {
	args := m.Called(usernameFilter)
	return args.Get(0).(int64), args.Error(1)
}

// MockLikeRepository is a mock implementation of repositories.LikeRepository
type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) Create(like *models.Like) error {
	args := m.Called(like)
	return args.Error(0)
}

func (m *MockLikeRepository) Delete(postID, userID string) (bool, error) {
	args := m.Called(postID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepository) CountByPost(postID string) (int64, error) {
	args := m.Called(postID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLikeRepository) ListByPost(postID string) ([]models.Like, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Like), args.Error(1)
}

func (m *MockLikeRepository) CountByPosts(postIDs []string) (map[string]int64, error) {
	args := m.Called(postIDs)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockLikeRepository) LikedPostIDs(userID string, postIDs []string) (map[string]bool, error) {
	args := m.Called(userID, postIDs)
	return args.Get(0).(map[string]bool), args.Error(1)
}

// MockCommentRepository is a mock implementation of
// repositories.CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(comment *models.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) CountByPost(postID string) (int64, error) {
	args := m.Called(postID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepository) ListByPost(postID string, offset, limit int) ([]models.Comment, error) {
	args := m.Called(postID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentRepository) CountByPosts(postIDs []string) (map[string]int64, error) {
	args := m.Called(postIDs)
	return args.Get(0).(map[string]int64), args.Error(1)
}

// MockNotifier records dispatched notifications.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Dispatch(userID, title, body string, data map[string]string) {
	m.Called(userID, title, body, data)
}

func newInteractionService(postRepo *MockPostRepository, likeRepo *MockLikeRepository, commentRepo *MockCommentRepository, notifier *MockNotifier) *services.InteractionService {
	return services.NewInteractionService(postRepo, likeRepo, commentRepo, notifier, nil)
}

func TestInteractionService_ToggleLike_Like(t *testing.T) {
	postRepo := new(MockPostRepository)
	likeRepo := new(MockLikeRepository)
	commentRepo := new(MockCommentRepository)
	notifier := new(MockNotifier)
	svc := newInteractionService(postRepo, likeRepo, commentRepo, notifier)

	post := &models.Post{ID: "post-1", UserID: "author-1", Username: "alice", Content: "hello world"}
	postRepo.On("GetByID", "post-1").Return(post, nil).Once()
	likeRepo.On("Delete", "post-1", "user-2").Return(false, nil).Once()
	likeRepo.On("Create", mock.AnythingOfType("*models.Like")).Return(nil).Once()
	likeRepo.On("CountByPost", "post-1").Return(int64(1), nil).Once()
	notifier.On("Dispatch",
		"author-1",
		"bob liked your post",
		`bob liked your post: "hello world..."`,
		map[string]string{
			"type":         "like",
			"postId":       "post-1",
			"fromUserId":   "user-2",
			"fromUsername": "bob",
		},
	).Once()

	liked, likesCount, err := svc.ToggleLike("post-1", "user-2", "bob")
	assert.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), likesCount)
	postRepo.AssertExpectations(t)
	likeRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestInteractionService_ToggleLike_Unlike(t *testing.T) {
	postRepo := new(MockPostRepository)
	likeRepo := new(MockLikeRepository)
	commentRepo := new(MockCommentRepository)
	notifier := new(MockNotifier)
	svc := newInteractionService(postRepo, likeRepo, commentRepo, notifier)

	post := &models.Post{ID: "post-1", UserID: "author-1", Username: "alice", Content: "hello world"}
	postRepo.On("GetByID", "post-1").Return(post, nil).Once()
	likeRepo.On("Delete", "post-1", "user-2").Return(true, nil).Once()
	likeRepo.On("CountByPost", "post-1").Return(int64(0), nil).Once()

	liked, likesCount, err := svc.ToggleLike("post-1", "user-2", "bob")
	assert.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(0), likesCount)

	// No Like row created, no notification on unlike
	likeRepo.AssertNotCalled(t, "Create", mock.Anything)
	notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInteractionService_ToggleLike_SelfLikeDoesNotNotify(t *testing.T) {
	postRepo := new(MockPostRepository)
	likeRepo := new(MockLikeRepository)
	commentRepo := new(MockCommentRepository)
	notifier := new(MockNotifier)
	svc := newInteractionService(postRepo, likeRepo, commentRepo, notifier)

	post := &models.Post{ID: "post-1", UserID: "author-1", Username: "alice", Content: "hello world"}
	postRepo.On("GetByID", "post-1").Return(post, nil).Once()
	likeRepo.On("Delete", "post-1", "author-1").Return(false, nil).Once()
	likeRepo.On("Create", mock.AnythingOfType("*models.Like")).Return(nil).Once()
	likeRepo.On("CountByPost", "post-1").Return(int64(1), nil).Once()

	liked, _, err := svc.ToggleLike("post-1", "author-1", "alice")
	assert.NoError(t, err)
	assert.True(t, liked)
	notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInteractionService_ToggleLike_PostMissing(t *testing.T) {
	postRepo := new(MockPostRepository)
	likeRepo := new(MockLikeRepository)
	commentRepo := new(MockCommentRepository)
	notifier := new(MockNotifier)
	svc := newInteractionService(postRepo, likeRepo, commentRepo, notifier)

	postRepo.On("GetByID", "missing").Return(nil, fmt.Errorf("post missing: %w", repositories.ErrNotFound)).Once()

	_, _, err := svc.ToggleLike("missing", "user-2", "bob")
	assert.ErrorIs(t, err, services.ErrPostNotFound)
}

func TestInteractionService_ToggleLike_ConcurrentDuplicate(t *testing.T) {
	postRepo := new(MockPostRepository)
	likeRepo := new(MockLikeRepository)
	commentRepo := new(MockCommentRepository)
	notifier := new(MockNotifier)
	svc := newInteractionService(postRepo, likeRepo, commentRepo, notifier)

	post := &models.Post{ID: "post-1", UserID: "author-1", Username: "alice", Content: "hello world"}
	postRepo.On("GetByID", "post-1").Return(post, nil).Once()
	likeRepo.On("Delete", "post-1", "user-2").Return(false, nil).Once()
	likeRepo.On("Create", mock.AnythingOfType("*models.Like")).
		Return(fmt.Errorf("race: %w", repositories.ErrAlreadyLiked)).Once()
	likeRepo.On("CountByPost", "post-1").Return(int64(1), nil).Once()

	liked, likesCount, err := svc.ToggleLike("post-1", "user-2", "bob")
	assert.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), likesCount)
	// The concurrent winner already notified; this call must not
	notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInteractionService_AddComment(t *testing.T) {
	postRepo := new(MockPostRepository)
	likeRepo := new(MockLikeRepository)
	commentRepo := new(MockCommentRepository)
	notifier := new(MockNotifier)
	svc := newInteractionService(postRepo, likeRepo, commentRepo, notifier)

	post := &models.Post{ID: "post-1", UserID: "author-1", Username: "alice", Content: "hello world"}
	longContent := strings.Repeat("x", 60)
	preview := strings.Repeat("x", 50)

	postRepo.On("GetByID", "post-1").Return(post, nil).Once()
	commentRepo.On("Create", mock.AnythingOfType("*models.Comment")).Return(nil).Once()
	notifier.On("Dispatch",
		"author-1",
		"bob commented on your post",
		fmt.Sprintf("bob: \"%s...\"", preview),
		map[string]string{
			"type":         "comment",
			"postId":       "post-1",
			"fromUserId":   "user-2",
			"fromUsername": "bob",
		},
	).Once()

	comment, err := svc.AddComment("post-1", "user-2", "bob", longContent)
	assert.NoError(t, err)
	assert.Equal(t, "post-1", comment.PostID)
	assert.Equal(t, longContent, comment.Content)
	notifier.AssertExpectations(t)
}

func TestInteractionService_AddComment_Whitespace(t *testing.T) {
	postRepo := new(MockPostRepository)
	likeRepo := new(MockLikeRepository)
	commentRepo := new(MockCommentRepository)
	notifier := new(MockNotifier)
	svc := newInteractionService(postRepo, likeRepo, commentRepo, notifier)

	_, err := svc.AddComment("post-1", "user-2", "bob", "   ")
	assert.ErrorIs(t, err, services.ErrEmptyContent)
	postRepo.AssertNotCalled(t, "GetByID", mock.Anything)
	commentRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestInteractionService_AddComment_SelfCommentDoesNotNotify(t *testing.T) {
	postRepo := new(MockPostRepository)
	likeRepo := new(MockLikeRepository)
	commentRepo := new(MockCommentRepository)
	notifier := new(MockNotifier)
	svc := newInteractionService(postRepo, likeRepo, commentRepo, notifier)

	post := &models.Post{ID: "post-1", UserID: "author-1", Username: "alice", Content: "hello world"}
	postRepo.On("GetByID", "post-1").Return(post, nil).Once()
	commentRepo.On("Create", mock.AnythingOfType("*models.Comment")).Return(nil).Once()

	_, err := svc.AddComment("post-1", "author-1", "alice", "replying to myself")
	assert.NoError(t, err)
	notifier.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
