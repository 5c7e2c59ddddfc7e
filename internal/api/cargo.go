package api

import (
	"context"                       // Context for Redis operations
	"net/http"                      // HTTP status codes
	"strconv"                       // String conversion
	"translink/internal/authz"      // Ownership checks
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

// AddCargoRequest carries the add-cargo form fields. Weight is taken as a
// string so a non-numeric value maps to a validation error, not a bind error.
type AddCargoRequest struct {
	Name        string `form:"name" binding:"required"`        // Display name
	Weight      string `form:"weight" binding:"required"`      // Weight in kg
	Dimensions  string `form:"dimensions" binding:"required"`  // Free-text dimensions
	Origin      string `form:"origin" binding:"required"`      // Pickup location
	Destination string `form:"destination" binding:"required"` // Drop-off location
}

// AddCargoHandler posts a new cargo listing for the authenticated requester.
func AddCargoHandler(db *gorm.DB, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c) // Get actor from context
		// Only requesters post cargo
		if actor.Role != domain.RoleRequester {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only requesters can post cargo"})
			return
		}
		var req AddCargoRequest // Bind form request to struct
		if err := c.ShouldBind(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// A non-numeric or non-positive weight is a validation failure
		weight, err := strconv.ParseFloat(req.Weight, 64)
		if err != nil || weight <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Weight must be a positive number"})
			return
		}
		cargo := domain.Cargo{
			Name:        req.Name,              // Display name
			Weight:      weight,                // Parsed weight
			Dimensions:  req.Dimensions,        // Free-text dimensions
			Origin:      req.Origin,            // Pickup location
			Destination: req.Destination,       // Drop-off location
			Status:      domain.CargoAvailable, // New cargo starts Available
			UserID:      actor.ID,              // Owning user
		}
		// Store the image if one was uploaded
		if file, err := c.FormFile("image"); err == nil {
			name, err := utils.SaveImage(c, file, uploadDir)
			if err != nil {
				writeError(c, err)
				return
			}
			cargo.Image = name // Opaque stored filename
		}
		// Save the new cargo
		if err := db.Create(&cargo).Error; err != nil {
			writeError(c, err)
			return
		}
		// Log the new posting
		logrus.WithFields(logrus.Fields{
			"cargo_id": cargo.ID,
			"owner_id": actor.ID,
		}).Info("Cargo posted")
		// Invalidate cached browse pages
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.InvalidatePrefix(context.Background(), rdb, "browse:cargo:")
		}
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "Cargo posted", "cargo": cargo})
	}
}

// UpdateCargoRequest carries the editable cargo fields; all optional.
type UpdateCargoRequest struct {
	Name        string `json:"name"`        // Display name
	Dimensions  string `json:"dimensions"`  // Free-text dimensions
	Origin      string `json:"origin"`      // Pickup location
	Destination string `json:"destination"` // Drop-off location
}

// UpdateCargoHandler edits a cargo posting's descriptive fields.
func UpdateCargoHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c)            // Get actor from context
		cargoID, err := strconv.Atoi(c.Param("id")) // Parse cargo ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cargo id"})
			return
		}
		var req UpdateCargoRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var cargo domain.Cargo // Cargo to update
		if err := db.First(&cargo, cargoID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cargo not found"})
			return
		}
		// Owner or admin may edit
		if !authz.CanPerform(actor, authz.ActionUpdate, cargo.UserID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not the cargo owner"})
			return
		}
		// Apply only the provided fields
		updates := map[string]any{}
		if req.Name != "" {
			updates["name"] = req.Name
		}
		if req.Dimensions != "" {
			updates["dimensions"] = req.Dimensions
		}
		if req.Origin != "" {
			updates["origin"] = req.Origin
		}
		if req.Destination != "" {
			updates["destination"] = req.Destination
		}
		if len(updates) > 0 {
			if err := db.Model(&cargo).Updates(updates).Error; err != nil {
				writeError(c, err)
				return
			}
		}
		// Invalidate cached browse pages
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.InvalidatePrefix(context.Background(), rdb, "browse:cargo:")
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cargo updated", "cargo": cargo})
	}
}

// MyCargoHandler returns the authenticated owner's cargo postings, paginated
// with the dashboard page size.
func MyCargoHandler(db *gorm.DB) gin.HandlerFunc {
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
		var total int64                                  // Total count of the owner's cargo
		if err := db.Model(&domain.Cargo{}).Where("user_id = ?", actor.ID).Count(&total).Error; err != nil {
			writeError(c, err)
			return
		}
		var cargo []domain.Cargo // Slice to hold cargo
		if err := db.Where("user_id = ?", actor.ID).
			Order("id desc").
			Offset(offset).
			Limit(listing.DashboardPageSize).
			Find(&cargo).Error; err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"cargo":       cargo,                                                                    // Page contents
			"page":        page,                                                                     // Current page
			"page_size":   listing.DashboardPageSize,                                                // Page size
			"total":       total,                                                                    // Total cargo
			"total_pages": (int(total) + listing.DashboardPageSize - 1) / listing.DashboardPageSize, // Total pages
		})
	}
}

// ToggleCargoHandler flips a cargo posting's status (owner override).
func ToggleCargoHandler(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c)            // Get actor from context
		cargoID, err := strconv.Atoi(c.Param("id")) // Parse cargo ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cargo id"})
			return
		}
		cargo, err := svc.ToggleCargoStatus(actor, uint(cargoID)) // Flip the status
		if err != nil {
			writeError(c, err)
			return
		}
		// Invalidate cached browse pages
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.InvalidatePrefix(context.Background(), rdb, "browse:cargo:")
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cargo status updated", "cargo": cargo})
	}
}

// DeleteCargoHandler removes a cargo posting and its requests. Owner or admin.
func DeleteCargoHandler(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c)            // Get actor from context
		cargoID, err := strconv.Atoi(c.Param("id")) // Parse cargo ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cargo id"})
			return
		}
		if err := svc.DeleteCargo(actor, uint(cargoID)); err != nil {
			writeError(c, err)
			return
		}
		// Invalidate cached browse pages
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.InvalidatePrefix(context.Background(), rdb, "browse:cargo:")
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cargo deleted"})
	}
}
