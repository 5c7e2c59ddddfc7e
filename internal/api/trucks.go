package api

import (
	"context"                       // Context for Redis operations
	"net/http"                      // HTTP status codes
	"strconv"                       // String conversion
	"translink/internal/booking"    // Booking state machine
	"translink/internal/domain"     // Importing domain models
	"translink/internal/listing"    // Listing query layer
	"translink/internal/middleware" // Actor extraction
	"translink/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// AddTruckRequest carries the add-truck form fields; the image arrives as an
// optional multipart file alongside them.
type AddTruckRequest struct {
	Name        string `form:"name" binding:"required"`         // Display name
	PlateNumber string `form:"plate_number" binding:"required"` // Unique plate number
	DriverName  string `form:"driver_name" binding:"required"`  // Assigned driver
	Routes      string `form:"routes" binding:"required"`       // Routes served
}

// AddTruckHandler posts a new truck for the authenticated fleet owner.
func AddTruckHandler(db *gorm.DB, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c) // Get actor from context
		// Only fleet owners post trucks
		if actor.Role != domain.RoleFleetOwner {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only fleet owners can post trucks"})
			return
		}
		var req AddTruckRequest // Bind form request to struct
		if err := c.ShouldBind(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Check if plate number is unique
		var existing domain.Truck
		if err := db.Where("plate_number = ?", req.PlateNumber).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "A truck with this plate number already exists"})
			return
		}
		truck := domain.Truck{
			Name:        req.Name,        // Display name
			PlateNumber: req.PlateNumber, // Unique plate number
			DriverName:  req.DriverName,  // Assigned driver
			Routes:      req.Routes,      // Routes served
			Available:   true,            // New trucks start Available
			UserID:      actor.ID,        // Owning user
		}
		// Store the image if one was uploaded
		if file, err := c.FormFile("image"); err == nil {
			name, err := utils.SaveImage(c, file, uploadDir)
			if err != nil {
				writeError(c, err)
				return
			}
			truck.Image = name // Opaque stored filename
		}
		// Save the new truck
		if err := db.Create(&truck).Error; err != nil {
			writeError(c, err)
			return
		}
		// Log the new posting
		logrus.WithFields(logrus.Fields{
			"truck_id": truck.ID,
			"owner_id": actor.ID,
		}).Info("Truck posted")
		// Invalidate cached browse pages
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.InvalidatePrefix(context.Background(), rdb, "browse:trucks:")
		}
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "Truck posted", "truck": truck})
	}
}

// MyTrucksHandler returns the authenticated owner's trucks, paginated with
// the dashboard page size.
func MyTrucksHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c) // Get actor from context
		page := 1                        // Default page
		// If page exists in query
		if p := c.Query("page"); p != "" {
			// Convert page to integer
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		offset := (page - 1) * listing.DashboardPageSize // Calculate offset
		var total int64                                  // Total count of the owner's trucks
		if err := db.Model(&domain.Truck{}).Where("user_id = ?", actor.ID).Count(&total).Error; err != nil {
			writeError(c, err)
			return
		}
		var trucks []domain.Truck // Slice to hold trucks
		if err := db.Where("user_id = ?", actor.ID).
			Order("id desc").
			Offset(offset).
			Limit(listing.DashboardPageSize).
			Find(&trucks).Error; err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"trucks":      trucks,                                                                   // Page contents
			"page":        page,                                                                     // Current page
			"page_size":   listing.DashboardPageSize,                                                // Page size
			"total":       total,                                                                    // Total trucks
			"total_pages": (int(total) + listing.DashboardPageSize - 1) / listing.DashboardPageSize, // Total pages
		})
	}
}

// ToggleTruckHandler flips a truck's availability (owner override).
func ToggleTruckHandler(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c)                     // Get actor from context
		truckID, err := strconv.Atoi(c.Param("id"))          // Parse truck ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid truck id"})
			return
		}
		truck, err := svc.ToggleTruckAvailability(actor, uint(truckID)) // Flip the flag
		if err != nil {
			writeError(c, err)
			return
		}
		// Invalidate cached browse pages
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.InvalidatePrefix(context.Background(), rdb, "browse:trucks:")
		}
		c.JSON(http.StatusOK, gin.H{"message": "Truck status updated", "truck": truck})
	}
}

// DeleteTruckHandler removes a truck and its requests. Owner or admin.
func DeleteTruckHandler(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c)            // Get actor from context
		truckID, err := strconv.Atoi(c.Param("id")) // Parse truck ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid truck id"})
			return
		}
		if err := svc.DeleteTruck(actor, uint(truckID)); err != nil {
			writeError(c, err)
			return
		}
		// Invalidate cached browse pages
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.InvalidatePrefix(context.Background(), rdb, "browse:trucks:")
		}
		c.JSON(http.StatusOK, gin.H{"message": "Truck deleted"})
	}
}
