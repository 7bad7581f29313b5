package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/furs-app/backend/internal/geocode"
	"github.com/furs-app/backend/internal/handlers"
	"github.com/furs-app/backend/internal/middleware"
	"github.com/furs-app/backend/internal/models"
	"github.com/furs-app/backend/internal/repositories"
	"github.com/furs-app/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	if err := pgdb.AutoMigrate(&models.Profile{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	mgdb := mgClient.Database(cfg.MongoDatabase)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	profileRepo := repositories.NewPostgresProfileRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgdb)
	likeRepo := repositories.NewMongoLikeRepository(mgClient, mgdb)
	commentRepo := repositories.NewMongoCommentRepository(mgdb)
	notificationRepo := repositories.NewMongoNotificationRepository(mgdb)

	geocodeClient := geocode.NewClient(cfg.NominatimBaseURL, cfg.NominatimUserAgent)

	// --- Geocoding proxy (unauthenticated) ---
	geocodeHandler := geocode.NewHandler(geocodeClient)
	geocodeHandler.RegisterRoutes(e)
	log.Println("Geocoding proxy route configured.")

	// --- Account deletion side effect (legacy top-level path) ---
	adminHandler := handlers.NewAdminHandler(profileRepo, firebaseAuthClient)
	adminHandler.RegisterDeleteUserRoute(e)

	// --- Session exchange ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(profileRepo, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Feed (optional auth: readable while signed out) ---
	feedGroup := e.Group("/api/v1")
	feedGroup.Use(middleware.OptionalJWTMiddleware(cfg.JWTSecret))
	feedHandler := handlers.NewFeedHandler(postRepo, likeRepo, geocodeClient)
	feedHandler.RegisterFeedRoutes(feedGroup)
	log.Println("Feed routes configured.")

	// --- Protected routes (require session JWT) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	profileHandler := handlers.NewProfileHandler(profileRepo, notificationRepo)
	profileHandler.RegisterProfileRoutes(api)
	log.Println("Profile routes configured.")

	postHandler := handlers.NewPostHandler(postRepo, likeRepo, commentRepo, profileRepo)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, profileRepo, notificationRepo)
	likeHandler.RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, profileRepo, notificationRepo)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// --- Admin routes (session JWT + admin role) ---
	adminGroup := e.Group("/api/v1/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	adminGroup.Use(middleware.AdminGuard())
	adminHandler.RegisterAdminRoutes(adminGroup)
	log.Println("Admin routes configured.")

	log.Println("All routes configured.")
}
