package api

import (
	"context"                       // Context for Redis operations
	"net/http"                      // HTTP status codes
	"strconv"                       // String conversion
	"time"                          // Time durations
	"translink/internal/booking"    // Booking state machine
	"translink/internal/domain"     // Importing domain models
	"translink/internal/middleware" // Actor extraction
	"translink/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// UserAdminResponse represents the user data returned to admin
type UserAdminResponse struct {
	ID         uint        `json:"id"`          // User ID
	Username   string      `json:"username"`    // Username
	Role       domain.Role `json:"role"`        // User role
	Suspended  bool        `json:"suspended"`   // Suspension flag
	TruckCount int64       `json:"truck_count"` // Trucks posted
	CargoCount int64       `json:"cargo_count"` // Cargo posted
}

// ListUsersHandler returns all users with their posting counts
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		// Create a cache key based on pagination parameters
		cacheKey := "admin:users:page=" + c.DefaultQuery("page", "1") + ":size=" + c.DefaultQuery("page_size", "20")
		// Try to get cached response
		var cached struct {
			Users      []UserAdminResponse `json:"users"`       // List of users
			Page       int                 `json:"page"`        // Current page
			PageSize   int                 `json:"page_size"`   // Page size
			Total      int64               `json:"total"`       // Total number of users
			TotalPages int                 `json:"total_pages"` // Total pages
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"users":       cached.Users,      // List of users
				"page":        cached.Page,       // Current page
				"page_size":   cached.PageSize,   // Page size
				"total":       cached.Total,      // Total number of users
				"total_pages": cached.TotalPages, // Total pages
				"cached":      true,              // Indicate response is from cache
			})
			return
		}
		page := 1      // Default page number
		pageSize := 20 // Default page size
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// Check and set page size within limits
		if ps := c.Query("page_size"); ps != "" {
			// If valid, set page size
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size
			}
		}
		offset := (page - 1) * pageSize // Calculate offset for pagination
		var total int64                 // Total user count
		if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"}) // Return on error
			return
		}
		var users []domain.User // Slice to hold users
		if err := db.Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"}) // Return on error
			return
		}
		// The total number of pages
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		// Prepare response data with per-user posting counts
		resp := make([]UserAdminResponse, len(users))
		for i, u := range users {
			var truckCount, cargoCount int64 // Posting counts
			db.Model(&domain.Truck{}).Where("user_id = ?", u.ID).Count(&truckCount)
			db.Model(&domain.Cargo{}).Where("user_id = ?", u.ID).Count(&cargoCount)
			resp[i] = UserAdminResponse{
				ID:         u.ID,        // User ID
				Username:   u.Username,  // Username
				Role:       u.Role,      // User role
				Suspended:  u.Suspended, // Suspension flag
				TruckCount: truckCount,  // Trucks posted
				CargoCount: cargoCount,  // Cargo posted
			}
		}
		// Prepare final response data
		respData := gin.H{
			"users":       resp,       // List of users
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total number of users
			"total_pages": totalPages, // Total pages
			"cached":      false,      // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData) // Return the response
	}
}

// StatsHandler returns marketplace totals: users per role, trucks per
// availability, requests per status.
func StatsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		cacheKey := "admin:stats"   // Single stats cache entry
		var cached gin.H            // Cached stats, if any
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			cached["cached"] = true
			c.JSON(http.StatusOK, cached)
			return
		}
		stats := gin.H{} // Stats under assembly
		// Users per role
		for _, role := range []domain.Role{domain.RoleFleetOwner, domain.RoleRequester, domain.RoleAdmin} {
			var n int64
			if err := db.Model(&domain.User{}).Where("role = ?", role).Count(&n).Error; err != nil {
				writeError(c, err)
				return
			}
			stats["users_"+string(role)] = n
		}
		// Trucks per availability
		var available, booked int64
		if err := db.Model(&domain.Truck{}).Where("available = ?", true).Count(&available).Error; err != nil {
			writeError(c, err)
			return
		}
		if err := db.Model(&domain.Truck{}).Where("available = ?", false).Count(&booked).Error; err != nil {
			writeError(c, err)
			return
		}
		stats["trucks_available"] = available
		stats["trucks_booked"] = booked
		// Requests per status
		for _, status := range []domain.RequestStatus{domain.RequestPending, domain.RequestAccepted, domain.RequestRejected} {
			var n int64
			if err := db.Model(&domain.TruckRequest{}).Where("status = ?", status).Count(&n).Error; err != nil {
				writeError(c, err)
				return
			}
			stats["requests_"+string(status)] = n
		}
		stats["cached"] = false
		// Cache the stats for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, stats, 60*time.Second)
		c.JSON(http.StatusOK, stats) // Return the stats
	}
}

// ModerationRequest carries the required reason for an admin action.
type ModerationRequest struct {
	Reason string `json:"reason" binding:"required"` // Why the action was taken
}

// DeleteUserHandler removes a user and everything they own. Admin-only via
// the route group; the reason is required and logged.
func DeleteUserHandler(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c)           // Get actor from context
		userID, err := strconv.Atoi(c.Param("id")) // Parse user ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}
		var req ModerationRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A reason is required"})
			return
		}
		if err := svc.DeleteUser(actor, uint(userID), req.Reason); err != nil {
			writeError(c, err)
			return
		}
		// The user's listings are gone; drop cached pages
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			ctx := context.Background()
			_ = utils.InvalidatePrefix(ctx, rdb, "browse:")
			_ = utils.InvalidatePrefix(ctx, rdb, "admin:users:")
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
	}
}

// SuspendUserHandler blocks a user from logging in. Admin-only via the route
// group; the reason is required and logged.
func SuspendUserHandler(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c)           // Get actor from context
		userID, err := strconv.Atoi(c.Param("id")) // Parse user ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}
		var req ModerationRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A reason is required"})
			return
		}
		if err := svc.SuspendUser(actor, uint(userID), req.Reason); err != nil {
			writeError(c, err)
			return
		}
		// Drop the cached user list
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.InvalidatePrefix(context.Background(), rdb, "admin:users:")
		}
		c.JSON(http.StatusOK, gin.H{"message": "User suspended"})
	}
}
