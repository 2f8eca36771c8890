package handlers

import (
	"errors"
	"log"

	"socialfeed/internal/models"
	"socialfeed/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PostHandler handles HTTP requests for posts and their interactions.
type PostHandler struct {
	postService        *services.PostService
	interactionService *services.InteractionService
	validate           *validator.Validate
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService *services.PostService, interactionService *services.InteractionService) *PostHandler {
	return &PostHandler{
		postService:        postService,
		interactionService: interactionService,
		validate:           validator.New(),
	}
}

// RegisterRoutes registers the post routes. Likes and comments listings are
// public; everything else requires auth.
func (h *PostHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	posts := router.Group("/posts")
	posts.Post("/", auth, h.HandleCreatePost)
	posts.Get("/", auth, h.HandleGetPosts)
	posts.Get("/:id", auth, h.HandleGetPost)
	posts.Post("/:id/like", auth, h.HandleLikePost)
	posts.Get("/:id/likes", h.HandleGetLikes)
	posts.Post("/:id/comment", auth, h.HandleComment)
	posts.Get("/:id/comments", h.HandleGetComments)
}

// CreatePostRequest represents the request body for creating a post.
type CreatePostRequest struct {
	Content string `json:"content" validate:"required"`
}

// CommentRequest represents the request body for commenting on a post.
type CommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// postDetail is a post view with its comments attached, as returned by the
// single-post endpoint.
type postDetail struct {
	models.PostView
	Comments []models.Comment `json:"comments"`
}

// HandleCreatePost creates a post owned by the caller.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	userID, username := currentUser(c)

	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Content is required",
			"error":   err.Error(),
		})
	}

	post, err := h.postService.CreatePost(userID, username, req.Content)
	if err != nil {
		if errors.Is(err, services.ErrEmptyContent) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Post content cannot be empty",
			})
		}
		log.Printf("Create post error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create post",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Post created successfully",
		"data":    models.PostView{Post: *post},
	})
}

// HandleGetPosts returns a page of posts, optionally filtered by username.
func (h *PostHandler) HandleGetPosts(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	username := c.Query("username")

	posts, total, err := h.postService.ListPosts(userID, username, page, limit)
	if err != nil {
		log.Printf("Get posts error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch posts",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Posts retrieved successfully",
		"data": fiber.Map{
			"posts": posts,
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// HandleGetPost returns a single post with its comments.
func (h *PostHandler) HandleGetPost(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	view, comments, err := h.postService.GetPost(userID, c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return postNotFound(c)
		}
		log.Printf("Get post error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch post",
			"error":   err.Error(),
		})
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Post retrieved successfully",
		"data":    postDetail{PostView: *view, Comments: comments},
	})
}

// HandleLikePost toggles the caller's like on a post.
func (h *PostHandler) HandleLikePost(c *fiber.Ctx) error {
	userID, username := currentUser(c)

	liked, likesCount, err := h.interactionService.ToggleLike(c.Params("id"), userID, username)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return postNotFound(c)
		}
		log.Printf("Like post error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to like post",
			"error":   err.Error(),
		})
	}

	status := fiber.StatusOK
	message := "Post unliked"
	if liked {
		status = fiber.StatusCreated
		message = "Post liked"
	}
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data": fiber.Map{
			"isLiked":    liked,
			"likesCount": likesCount,
		},
	})
}

// HandleGetLikes returns all likes on a post.
func (h *PostHandler) HandleGetLikes(c *fiber.Ctx) error {
	likes, err := h.interactionService.GetLikes(c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return postNotFound(c)
		}
		log.Printf("Get likes error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch likes",
			"error":   err.Error(),
		})
	}
	if likes == nil {
		likes = []models.Like{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Likes retrieved successfully",
		"data":    fiber.Map{"likes": likes},
	})
}

// HandleComment appends a comment to a post.
func (h *PostHandler) HandleComment(c *fiber.Ctx) error {
	userID, username := currentUser(c)

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Comment content is required",
			"error":   err.Error(),
		})
	}

	comment, err := h.interactionService.AddComment(c.Params("id"), userID, username, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyContent):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Comment cannot be empty",
			})
		case errors.Is(err, services.ErrPostNotFound):
			return postNotFound(c)
		}
		log.Printf("Comment error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to add comment",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Comment added successfully",
		"data":    comment,
	})
}

// HandleGetComments returns a page of a post's comments.
func (h *PostHandler) HandleGetComments(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	comments, err := h.interactionService.GetComments(c.Params("id"), page, limit)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			return postNotFound(c)
		}
		log.Printf("Get comments error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch comments",
			"error":   err.Error(),
		})
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Comments retrieved successfully",
		"data": fiber.Map{
			"comments": comments,
			"page":     page,
			"limit":    limit,
		},
	})
}

// currentUser reads the identity the auth middleware stored on the request.
func currentUser(c *fiber.Ctx) (userID, username string) {
	userID, _ = c.Locals("user_id").(string)
	username, _ = c.Locals("username").(string)
	return userID, username
}

func postNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"success": false,
		"message": "Post not found",
	})
}
