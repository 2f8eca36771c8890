package repositories

import (
	"errors"

	"socialfeed/internal/models"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyLiked is returned by LikeRepository.Create when the (post, user)
// pair already holds a like. The composite unique index is what detects it,
// so the check and the insert are a single atomic statement.
var ErrAlreadyLiked = errors.New("post already liked")

// PostRepository defines the interface for post data access. List and Count
// accept an optional case-insensitive username substring filter; an empty
// filter matches everything.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id string) (*models.Post, error)
	List(usernameFilter string, offset, limit int) ([]models.Post, error)
	Count(usernameFilter string) (int64, error)
}
