package repositories

import (
	"fmt"
	"strings"

	"socialfeed/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{db: db}
}

// Create inserts a new post.
func (r *GORMPostRepository) Create(post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by ID. Returns ErrNotFound wrapped when the post
// does not exist.
func (r *GORMPostRepository) GetByID(id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post %s: %w", id, err)
	}
	return &post, nil
}

// List returns posts sorted by recency with offset/limit pagination.
func (r *GORMPostRepository) List(usernameFilter string, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	q := r.withUsernameFilter(usernameFilter)
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Count returns the number of posts matching the filter.
func (r *GORMPostRepository) Count(usernameFilter string) (int64, error) {
	var total int64
	if err := r.withUsernameFilter(usernameFilter).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return total, nil
}

func (r *GORMPostRepository) withUsernameFilter(usernameFilter string) *gorm.DB {
	q := r.db.Model(&models.Post{})
	if usernameFilter != "" {
		q = q.Where("LOWER(username) LIKE ?", "%"+strings.ToLower(usernameFilter)+"%")
	}
	return q
}
