package handlers

import (
	"encoding/json"
	"log"

	"socialfeed/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles HTTP requests for notifications and device
// token registration.
type NotificationHandler struct {
	notificationService *services.NotificationService
	validate            *validator.Validate
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		validate:            validator.New(),
	}
}

// RegisterRoutes registers the notification routes; all of them require
// auth.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	notifications := router.Group("/notifications", auth)
	notifications.Post("/register-token", h.HandleRegisterToken)
	notifications.Get("/", h.HandleList)
	notifications.Patch("/read", h.HandleMarkRead)
	notifications.Post("/test", h.HandleTest)
}

// RegisterTokenRequest represents the request body for registering a device
// token.
type RegisterTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// HandleRegisterToken registers a push token for the caller.
func (h *NotificationHandler) HandleRegisterToken(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var req RegisterTokenRequest
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
			"message": "Token is required",
			"error":   err.Error(),
		})
	}

	if err := h.notificationService.RegisterToken(userID, req.Token); err != nil {
		log.Printf("Register token error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to register token",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Device token registered successfully",
	})
}

// HandleList returns a page of the caller's notifications plus the unread
// count.
func (h *NotificationHandler) HandleList(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	notifications, total, unread, err := h.notificationService.List(userID, page, limit)
	if err != nil {
		log.Printf("List notifications error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to fetch notifications",
			"error":   err.Error(),
		})
	}

	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"notifications": notifications,
			"pagination": fiber.Map{
				"page":  page,
				"limit": limit,
				"total": total,
				"pages": pages,
			},
			"unreadCount": unread,
		},
	})
}

// MarkReadRequest represents the request body for marking notifications
// read. NotificationIDs is either an array of IDs or the string "all".
type MarkReadRequest struct {
	NotificationIDs json.RawMessage `json:"notificationIds"`
}

// HandleMarkRead marks an explicit set of the caller's notifications read,
// or all of them when given the "all" sentinel.
func (h *NotificationHandler) HandleMarkRead(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var req MarkReadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	var err error
	var sentinel string
	var ids []string
	switch {
	case json.Unmarshal(req.NotificationIDs, &sentinel) == nil && sentinel == "all":
		err = h.notificationService.MarkAllRead(userID)
	case json.Unmarshal(req.NotificationIDs, &ids) == nil:
		err = h.notificationService.MarkRead(userID, ids)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid notificationIds",
		})
	}
	if err != nil {
		log.Printf("Mark read error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to mark notifications as read",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Notifications marked as read",
	})
}

// HandleTest sends a test notification to the caller.
func (h *NotificationHandler) HandleTest(c *fiber.Ctx) error {
	userID, username := currentUser(c)
	h.notificationService.SendTest(userID, username)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Test notification sent",
	})
}
