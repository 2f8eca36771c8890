package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"socialfeed/internal/models"
	"socialfeed/internal/repositories"

	"socialfeed/pkg/rabbitmq"
)

// Sentinel errors shared by the post and interaction flows.
var (
	ErrPostNotFound = errors.New("post not found")
	ErrEmptyContent = errors.New("content cannot be empty")
)

// PostService handles creating and reading posts.
type PostService struct {
	postRepo    repositories.PostRepository
	likeRepo    repositories.LikeRepository
	commentRepo repositories.CommentRepository
	mqClient    *rabbitmq.Client
}

// NewPostService creates a new PostService. mqClient may be nil, in which
// case no events are published.
func NewPostService(postRepo repositories.PostRepository, likeRepo repositories.LikeRepository, commentRepo repositories.CommentRepository, mqClient *rabbitmq.Client) *PostService {
	return &PostService{
		postRepo:    postRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		mqClient:    mqClient,
	}
}

// CreatePost stores a new post under the acting user's identity snapshot.
func (s *PostService) CreatePost(userID, username, content string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	post := &models.Post{
		UserID:   userID,
		Username: username,
		Content:  content,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	publishFeedEvent(s.mqClient, "post.created", map[string]interface{}{
		"postId": post.ID,
		"userId": post.UserID,
	})

	return post, nil
}

// ListPosts returns a page of posts sorted by recency, each enriched with
// like/comment counts and whether the viewer has liked it. The counts are
// gathered with batched queries rather than one round trip per post.
func (s *PostService) ListPosts(viewerID, usernameFilter string, page, limit int) ([]models.PostView, int64, error) {
	page, limit = normalizePage(page, limit, 10)

	posts, err := s.postRepo.List(usernameFilter, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.postRepo.Count(usernameFilter)
	if err != nil {
		return nil, 0, err
	}

	postIDs := make([]string, 0, len(posts))
	for _, post := range posts {
		postIDs = append(postIDs, post.ID)
	}

	likeCounts, err := s.likeRepo.CountByPosts(postIDs)
	if err != nil {
		return nil, 0, err
	}
	commentCounts, err := s.commentRepo.CountByPosts(postIDs)
	if err != nil {
		return nil, 0, err
	}
	liked := map[string]bool{}
	if viewerID != "" {
		liked, err = s.likeRepo.LikedPostIDs(viewerID, postIDs)
		if err != nil {
			return nil, 0, err
		}
	}

	views := make([]models.PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, models.PostView{
			Post:          post,
			LikesCount:    likeCounts[post.ID],
			CommentsCount: commentCounts[post.ID],
			IsLiked:       liked[post.ID],
		})
	}
	return views, total, nil
}

// GetPost returns a single post enriched for the viewer, plus all of its
// comments, newest first.
func (s *PostService) GetPost(viewerID, postID string) (*models.PostView, []models.Comment, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrPostNotFound
		}
		return nil, nil, err
	}

	likesCount, err := s.likeRepo.CountByPost(postID)
	if err != nil {
		return nil, nil, err
	}
	commentsCount, err := s.commentRepo.CountByPost(postID)
	if err != nil {
		return nil, nil, err
	}
	isLiked := false
	if viewerID != "" {
		liked, err := s.likeRepo.LikedPostIDs(viewerID, []string{postID})
		if err != nil {
			return nil, nil, err
		}
		isLiked = liked[postID]
	}

	comments, err := s.commentRepo.ListByPost(postID, 0, 0)
	if err != nil {
		return nil, nil, err
	}

	view := &models.PostView{
		Post:          *post,
		LikesCount:    likesCount,
		CommentsCount: commentsCount,
		IsLiked:       isLiked,
	}
	return view, comments, nil
}

// normalizePage clamps pagination input to sane values.
func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

// publishFeedEvent marshals and publishes an engagement event,
// fire-and-forget. A nil client disables publication entirely.
func publishFeedEvent(mqClient *rabbitmq.Client, event string, payload map[string]interface{}) {
	if mqClient == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}
	if err := mqClient.Publish(event, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
