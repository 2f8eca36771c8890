package repositories

import (
	"errors"
	"fmt"

	"socialfeed/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMLikeRepository is a GORM implementation of LikeRepository. It relies on
// error translation being enabled on the gorm.DB so unique-constraint
// violations surface as gorm.ErrDuplicatedKey.
type GORMLikeRepository struct {
	db *gorm.DB
}

// NewGORMLikeRepository creates a new instance of GORMLikeRepository.
func NewGORMLikeRepository(db *gorm.DB) *GORMLikeRepository {
	return &GORMLikeRepository{db: db}
}

// Create inserts a like. Returns ErrAlreadyLiked when the (post, user) pair
// already holds one.
func (r *GORMLikeRepository) Create(like *models.Like) error {
	if like.ID == "" {
		like.ID = uuid.New().String()
	}
	if err := r.db.Create(like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("post %s, user %s: %w", like.PostID, like.UserID, ErrAlreadyLiked)
		}
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

// Delete removes the like for (postID, userID) and reports whether a row was
// actually removed.
func (r *GORMLikeRepository) Delete(postID, userID string) (bool, error) {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete like: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CountByPost returns the number of likes on a post.
func (r *GORMLikeRepository) CountByPost(postID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count likes for post %s: %w", postID, err)
	}
	return count, nil
}

// ListByPost returns all likes on a post, newest first.
func (r *GORMLikeRepository) ListByPost(postID string) ([]models.Like, error) {
	var likes []models.Like
	if err := r.db.Where("post_id = ?", postID).Order("created_at DESC").Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("failed to list likes for post %s: %w", postID, err)
	}
	return likes, nil
}

// CountByPosts returns like counts keyed by post ID for the given posts.
func (r *GORMLikeRepository) CountByPosts(postIDs []string) (map[string]int64, error) {
	return countGroupedByPost(r.db, &models.Like{}, postIDs)
}

// LikedPostIDs reports which of the given posts the user has liked.
func (r *GORMLikeRepository) LikedPostIDs(userID string, postIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}
	var ids []string
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load liked posts for user %s: %w", userID, err)
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{db: db}
}

// Create inserts a comment.
func (r *GORMCommentRepository) Create(comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if err := r.db.Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// CountByPost returns the number of comments on a post.
func (r *GORMCommentRepository) CountByPost(postID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count comments for post %s: %w", postID, err)
	}
	return count, nil
}

// ListByPost returns comments on a post, newest first. A non-positive limit
// disables pagination.
func (r *GORMCommentRepository) ListByPost(postID string, offset, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	q := r.db.Where("post_id = ?", postID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments for post %s: %w", postID, err)
	}
	return comments, nil
}

// CountByPosts returns comment counts keyed by post ID for the given posts.
func (r *GORMCommentRepository) CountByPosts(postIDs []string) (map[string]int64, error) {
	return countGroupedByPost(r.db, &models.Comment{}, postIDs)
}

// countGroupedByPost runs a single GROUP BY query instead of one count per
// post.
func countGroupedByPost(db *gorm.DB, model interface{}, postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		PostID string
		Total  int64
	}
	err := db.Model(model).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count by post: %w", err)
	}
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}
