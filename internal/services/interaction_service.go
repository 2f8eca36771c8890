package services

import (
	"errors"
	"fmt"
	"strings"

	"socialfeed/internal/models"
	"socialfeed/internal/repositories"
	"socialfeed/pkg/rabbitmq"
)

const notificationPreviewLen = 50

// Notifier dispatches a notification to a user. Implemented by
// NotificationService; mocked in tests.
type Notifier interface {
	Dispatch(userID, title, body string, data map[string]string)
}

// InteractionService handles like toggling and commenting, including the
// notification side effects those actions trigger.
type InteractionService struct {
	postRepo    repositories.PostRepository
	likeRepo    repositories.LikeRepository
	commentRepo repositories.CommentRepository
	notifier    Notifier
	mqClient    *rabbitmq.Client
}

// NewInteractionService creates a new InteractionService. notifier and
// mqClient may be nil to disable the respective side effects.
func NewInteractionService(postRepo repositories.PostRepository, likeRepo repositories.LikeRepository, commentRepo repositories.CommentRepository, notifier Notifier, mqClient *rabbitmq.Client) *InteractionService {
	return &InteractionService{
		postRepo:    postRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		notifier:    notifier,
		mqClient:    mqClient,
	}
}

// ToggleLike flips the like state for (postID, userID) and returns the new
// state plus the recounted total. The transition itself happens at the
// persistence layer: the delete reports whether a row existed, and the
// insert is guarded by the composite unique index, so two racing calls
// cannot both land in the same state.
func (s *InteractionService) ToggleLike(postID, userID, username string) (bool, int64, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, 0, ErrPostNotFound
		}
		return false, 0, err
	}

	removed, err := s.likeRepo.Delete(postID, userID)
	if err != nil {
		return false, 0, err
	}
	if removed {
		likesCount, err := s.likeRepo.CountByPost(postID)
		if err != nil {
			return false, 0, err
		}
		publishFeedEvent(s.mqClient, "post.unliked", map[string]interface{}{
			"postId": postID,
			"userId": userID,
		})
		return false, likesCount, nil
	}

	err = s.likeRepo.Create(&models.Like{
		PostID:   postID,
		UserID:   userID,
		Username: username,
	})
	if errors.Is(err, repositories.ErrAlreadyLiked) {
		// A concurrent call won the race to the liked state. Report it
		// without dispatching a second notification.
		likesCount, countErr := s.likeRepo.CountByPost(postID)
		if countErr != nil {
			return false, 0, countErr
		}
		return true, likesCount, nil
	}
	if err != nil {
		return false, 0, err
	}

	likesCount, err := s.likeRepo.CountByPost(postID)
	if err != nil {
		return false, 0, err
	}

	if post.UserID != userID && s.notifier != nil {
		s.notifier.Dispatch(
			post.UserID,
			fmt.Sprintf("%s liked your post", username),
			fmt.Sprintf("%s liked your post: \"%s...\"", username, truncate(post.Content, notificationPreviewLen)),
			map[string]string{
				"type":         models.NotificationTypeLike,
				"postId":       postID,
				"fromUserId":   userID,
				"fromUsername": username,
			},
		)
	}

	publishFeedEvent(s.mqClient, "post.liked", map[string]interface{}{
		"postId": postID,
		"userId": userID,
	})

	return true, likesCount, nil
}

// AddComment appends a comment to a post and notifies the post's author
// unless they commented on their own post.
func (s *InteractionService) AddComment(postID, userID, username, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comment := &models.Comment{
		PostID:   postID,
		UserID:   userID,
		Username: username,
		Content:  content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if post.UserID != userID && s.notifier != nil {
		s.notifier.Dispatch(
			post.UserID,
			fmt.Sprintf("%s commented on your post", username),
			fmt.Sprintf("%s: \"%s...\"", username, truncate(content, notificationPreviewLen)),
			map[string]string{
				"type":         models.NotificationTypeComment,
				"postId":       postID,
				"fromUserId":   userID,
				"fromUsername": username,
			},
		)
	}

	publishFeedEvent(s.mqClient, "post.commented", map[string]interface{}{
		"postId":    postID,
		"userId":    userID,
		"commentId": comment.ID,
	})

	return comment, nil
}

// GetComments returns a page of a post's comments, newest first.
func (s *InteractionService) GetComments(postID string, page, limit int) ([]models.Comment, error) {
	if err := s.requirePost(postID); err != nil {
		return nil, err
	}
	page, limit = normalizePage(page, limit, 10)
	return s.commentRepo.ListByPost(postID, (page-1)*limit, limit)
}

// GetLikes returns all likes on a post, newest first.
func (s *InteractionService) GetLikes(postID string) ([]models.Like, error) {
	if err := s.requirePost(postID); err != nil {
		return nil, err
	}
	return s.likeRepo.ListByPost(postID)
}

func (s *InteractionService) requirePost(postID string) error {
	if _, err := s.postRepo.GetByID(postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
