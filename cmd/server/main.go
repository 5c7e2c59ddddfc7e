package main

import (
	"context"                       // context package is needed for Redis operations
	"log"                           // log package is needed for logging
	"os"                            // For the upload directory
	"translink/internal/api"        // Custom package for API handlers
	"translink/internal/booking"    // Custom package for the booking state machine
	"translink/internal/config"     // Custom package for configuration
	"translink/internal/listing"    // Custom package for browse listings
	"translink/internal/middleware" // Custom package for middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Ensure the upload directory exists
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logrus.Fatalf("failed to create upload dir: %v", err)
	}

	// Core services
	bookingSvc := booking.NewService(db) // Booking state machine
	listingSvc := listing.NewService(db) // Listing query layer

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Serve stored uploads (avatars, truck and cargo images)
	r.Static("/uploads", cfg.UploadDir)

	// Auth routes
	r.POST("/auth/register", api.RegisterHandler(db, cfg.UploadDir)) // Registration endpoint
	r.POST("/auth/login", api.LoginHandler(db, cfg.JWTSecret))       // Login endpoint

	// Authenticated routes (protected by JWT)
	authGroup := r.Group("/")
	// Protect routes with JWT middleware and inject Redis client into context
	authGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	})

	// Browse routes
	authGroup.GET("/browse/trucks", api.BrowseTrucksHandler(listingSvc, redisClient)) // Truck browse endpoint
	authGroup.GET("/browse/cargo", api.BrowseCargoHandler(listingSvc, redisClient))   // Cargo browse endpoint

	// Truck routes
	authGroup.POST("/trucks", api.AddTruckHandler(db, cfg.UploadDir))             // Post truck endpoint
	authGroup.GET("/trucks/mine", api.MyTrucksHandler(db))                        // Own trucks endpoint
	authGroup.POST("/trucks/:id/toggle", api.ToggleTruckHandler(bookingSvc))      // Availability override endpoint
	authGroup.DELETE("/trucks/:id", api.DeleteTruckHandler(bookingSvc))           // Delete truck endpoint
	authGroup.POST("/trucks/:id/request", api.CreateTruckRequestHandler(bookingSvc)) // Request truck endpoint

	// Cargo routes
	authGroup.POST("/cargo", api.AddCargoHandler(db, cfg.UploadDir))                 // Post cargo endpoint
	authGroup.GET("/cargo/mine", api.MyCargoHandler(db))                             // Own cargo endpoint
	authGroup.PUT("/cargo/:id", api.UpdateCargoHandler(db))                          // Edit cargo endpoint
	authGroup.POST("/cargo/:id/toggle", api.ToggleCargoHandler(bookingSvc))          // Status override endpoint
	authGroup.DELETE("/cargo/:id", api.DeleteCargoHandler(bookingSvc))               // Delete cargo endpoint
	authGroup.POST("/cargo/:id/request", api.CreateCargoRequestHandler(bookingSvc))  // Request cargo endpoint

	// Booking request routes
	authGroup.GET("/requests/sent", api.SentRequestsHandler(db))                          // Sent requests endpoint
	authGroup.GET("/requests/incoming", api.IncomingRequestsHandler(db))                  // Incoming requests endpoint
	authGroup.POST("/requests/:id/accept", api.AcceptTruckRequestHandler(bookingSvc))     // Accept endpoint
	authGroup.POST("/requests/:id/reject", api.RejectTruckRequestHandler(bookingSvc))     // Reject endpoint
	authGroup.GET("/cargo-requests/incoming", api.IncomingCargoRequestsHandler(db))       // Incoming cargo requests endpoint
	authGroup.POST("/cargo-requests/:id/accept", api.AcceptCargoRequestHandler(bookingSvc)) // Accept cargo request endpoint
	authGroup.POST("/cargo-requests/:id/reject", api.RejectCargoRequestHandler(bookingSvc)) // Reject cargo request endpoint

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin")
	// Protect admin routes with JWT and AdminOnly middleware
	adminGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	}, middleware.AdminOnlyMiddleware(db))
	adminGroup.GET("/users", api.ListUsersHandler(db, redisClient))          // List users endpoint
	adminGroup.GET("/stats", api.StatsHandler(db, redisClient))              // Marketplace stats endpoint
	adminGroup.DELETE("/users/:id", api.DeleteUserHandler(bookingSvc))       // Moderation delete endpoint
	adminGroup.POST("/users/:id/suspend", api.SuspendUserHandler(bookingSvc)) // Suspension endpoint
	adminGroup.DELETE("/trucks/:id", api.DeleteTruckHandler(bookingSvc))     // Moderation truck delete endpoint
	adminGroup.DELETE("/cargo/:id", api.DeleteCargoHandler(bookingSvc))      // Moderation cargo delete endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
