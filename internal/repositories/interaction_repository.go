package repositories

import "socialfeed/internal/models"

// LikeRepository defines the interface for like data access. Create and
// Delete together form the two-state toggle transition: Delete reports
// whether a row was actually removed, Create fails with ErrAlreadyLiked when
// the unique (post, user) constraint is hit.
type LikeRepository interface {
	Create(like *models.Like) error
	Delete(postID, userID string) (bool, error)
	CountByPost(postID string) (int64, error)
	ListByPost(postID string) ([]models.Like, error)
	CountByPosts(postIDs []string) (map[string]int64, error)
	LikedPostIDs(userID string, postIDs []string) (map[string]bool, error)
}

// CommentRepository defines the interface for comment data access.
// ListByPost with a non-positive limit returns every comment of the post.
type CommentRepository interface {
	Create(comment *models.Comment) error
	CountByPost(postID string) (int64, error)
	ListByPost(postID string, offset, limit int) ([]models.Comment, error)
	CountByPosts(postIDs []string) (map[string]int64, error)
}
