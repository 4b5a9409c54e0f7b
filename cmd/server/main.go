package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/stream-queue-system/internal/auth"
	"github.com/stream-queue-system/internal/stream"
	"github.com/stream-queue-system/internal/youtube"
	"github.com/stream-queue-system/pkg/database"
	"github.com/stream-queue-system/pkg/events"
	"github.com/stream-queue-system/pkg/redis"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// Set Gin mode based on environment
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize MySQL database
	db, err := database.NewMySQLDB(
		os.Getenv("MYSQL_HOST"),
		os.Getenv("MYSQL_PORT"),
		os.Getenv("MYSQL_USER"),
		os.Getenv("MYSQL_PASSWORD"),
		os.Getenv("MYSQL_DATABASE"),
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize Redis client
	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     os.Getenv("REDIS_HOST") + ":" + os.Getenv("REDIS_PORT"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	// Initialize Kafka client
	kafkaClient := events.NewKafkaClient(
		strings.Split(os.Getenv("KAFKA_BROKERS"), ","),
		"stream-queue-events",
		os.Getenv("KAFKA_GROUP_ID"),
	)

	// Tail the event log; every submission and vote lands here
	go func() {
		err := kafkaClient.ConsumeEvents(context.Background(), func(event events.Event) error {
			log.Printf("event: type=%s user=%s", event.Type, event.UserID)
			return nil
		})
		if err != nil {
			log.Printf("Warning: event log consumer stopped: %v", err)
		}
	}()

	// Initialize services
	youtubeClient := youtube.NewClient(os.Getenv("YOUTUBE_API_KEY"))

	sessionStore := redis.NewSessionStore(redisClient)
	streamService := stream.NewService(db, redisClient, youtubeClient, kafkaClient)

	// Initialize handlers
	authHandler := auth.NewHandler(db, sessionStore)
	streamHandler := stream.NewHandler(streamService)

	// Initialize Gin router
	router := gin.Default()

	// CORS middleware
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "https://your-frontend-domain.com"}, // Add your frontend URL
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// API routes
	v1 := router.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(v1)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(auth.AuthMiddleware(sessionStore))

	streamHandler.RegisterRoutes(v1, protected)

	// The caller's own queue answers 401/404 rather than the default 403
	my := v1.Group("/")
	my.Use(auth.AuthMiddlewareWithStatus(sessionStore, http.StatusUnauthorized))
	streamHandler.RegisterMyStreams(my)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
