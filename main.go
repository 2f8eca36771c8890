package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"socialfeed/internal/handlers"
	"socialfeed/internal/middleware"
	"socialfeed/internal/models"
	"socialfeed/internal/repositories"
	"socialfeed/internal/services"
	"socialfeed/pkg/push"
	"socialfeed/pkg/rabbitmq"
)

const version = "1.0.0"

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":3000")
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("CORS_ORIGIN", "*")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	appEnv := viper.GetString("APP_ENV")
	corsOrigin := viper.GetString("CORS_ORIGIN")

	// A missing signing secret must never silently fall back to something
	// guessable outside development.
	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		if appEnv != "development" {
			log.Fatal("JWT_SECRET must be set")
		}
		log.Println("WARNING: JWT_SECRET is not set, using an insecure development secret")
		jwtSecret = "dev-secret"
	}

	databaseURL := viper.GetString("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL must be set")
	}

	// --- Database ---
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
		&models.DeviceToken{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Push provider ---
	// The messenger is built once here and injected; a missing credential
	// disables push delivery but keeps in-app notification records working.
	var messenger push.Messenger
	if credentialsFile := viper.GetString("FIREBASE_CREDENTIALS"); credentialsFile != "" {
		fcm, err := push.NewFCMMessenger(context.Background(), credentialsFile)
		if err != nil {
			log.Fatalf("Failed to initialize push messenger: %v", err)
		}
		messenger = fcm
		log.Println("Push messenger initialized")
	} else {
		log.Println("FIREBASE_CREDENTIALS not set, push delivery disabled")
	}

	// --- Feed events ---
	var mqClient *rabbitmq.Client
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()

		go func() {
			consumeErr := mqClient.ConsumeFeedEvents(func(msg amqp.Delivery) error {
				log.Printf("Received feed event %s: %s", msg.Type, string(msg.Body))
				return nil
			})
			if consumeErr != nil {
				log.Printf("Failed to start feed event consumer: %v", consumeErr)
			}
		}()
	} else {
		log.Println("RABBITMQ_URL not set, feed events disabled")
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	postRepo := repositories.NewGORMPostRepository(db)
	likeRepo := repositories.NewGORMLikeRepository(db)
	commentRepo := repositories.NewGORMCommentRepository(db)
	notificationRepo := repositories.NewGORMNotificationRepository(db)
	tokenRepo := repositories.NewGORMDeviceTokenRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, jwtSecret)
	notificationService := services.NewNotificationService(notificationRepo, tokenRepo, messenger)
	postService := services.NewPostService(postRepo, likeRepo, commentRepo, mqClient)
	interactionService := services.NewInteractionService(postRepo, likeRepo, commentRepo, notificationService, mqClient)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	postHandler := handlers.NewPostHandler(postService, interactionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// --- Fiber app ---
	app := fiber.New(fiber.Config{
		ErrorHandler: newErrorHandler(appEnv),
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigin,
		AllowHeaders: "Origin, X-Requested-With, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS, PATCH",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Social Feed API is running",
			"version": version,
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- API routes ---
	api := app.Group("/api")
	authHandler.RegisterRoutes(api)

	authRequired := middleware.AuthRequired(authService)
	postHandler.RegisterRoutes(api, authRequired)
	notificationHandler.RegisterRoutes(api, authRequired)

	// 404 fallback
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Endpoint not found",
		})
	})

	// --- Start HTTP server ---
	log.Printf("Starting server on %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newErrorHandler builds the Fiber error handler producing the standard
// response envelope. Error detail is only exposed in development.
func newErrorHandler(appEnv string) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}
		if code == fiber.StatusInternalServerError {
			log.Printf("Unhandled error: %v", err)
			message = "Internal server error"
		}

		resp := fiber.Map{
			"success": false,
			"message": message,
		}
		if appEnv == "development" {
			resp["error"] = err.Error()
		}
		return c.Status(code).JSON(resp)
	}
}
