package api

import (
	"context"                       // Context for Redis operations
	"net/http"                      // HTTP status codes
	"strconv"                       // String conversion
	"translink/internal/booking"    // Booking state machine
	"translink/internal/domain"     // Importing domain models
	"translink/internal/middleware" // Actor extraction
	"translink/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// TruckRequestForm carries the booking request fields.
type TruckRequestForm struct {
	Origin       string `json:"origin" binding:"required"`      // Pickup location
	Destination  string `json:"destination" binding:"required"` // Drop-off location
	CargoDetails string `json:"cargo_details"`                  // Optional load description
}

// CreateTruckRequestHandler files a Pending booking request against a truck.
func CreateTruckRequestHandler(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c)            // Get actor from context
		truckID, err := strconv.Atoi(c.Param("id")) // Parse truck ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid truck id"})
			return
		}
		var form TruckRequestForm // Bind JSON request to struct
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		req, err := svc.CreateTruckRequest(actor, uint(truckID), form.Origin, form.Destination, form.CargoDetails)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Truck requested", "request": req})
	}
}

// AcceptTruckRequestHandler accepts a Pending request; the truck flips to
// Booked in the same transaction, so the browse cache is invalidated too.
func AcceptTruckRequestHandler(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c)              // Get actor from context
		requestID, err := strconv.Atoi(c.Param("id")) // Parse request ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id"})
			return
		}
		req, err := svc.AcceptTruckRequest(actor, uint(requestID)) // Run the transition
		if err != nil {
			writeError(c, err)
			return
		}
		// The truck is now Booked; drop cached browse pages
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.InvalidatePrefix(context.Background(), rdb, "browse:trucks:")
		}
		c.JSON(http.StatusOK, gin.H{"message": "Request accepted", "request": req})
	}
}

// RejectTruckRequestHandler rejects a Pending request; no truck state change.
func RejectTruckRequestHandler(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c)              // Get actor from context
		requestID, err := strconv.Atoi(c.Param("id")) // Parse request ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id"})
			return
		}
		req, err := svc.RejectTruckRequest(actor, uint(requestID)) // Run the transition
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Request rejected", "request": req})
	}
}

// SentRequestsHandler returns the booking requests the actor has filed.
func SentRequestsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c) // Get actor from context
		var requests []domain.TruckRequest
		if err := db.Preload("Truck").
			Where("user_id = ?", actor.ID).
			Order("created_at desc").
			Find(&requests).Error; err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"requests": requests})
	}
}

// IncomingRequestsHandler returns the booking requests targeting the actor's
// trucks, newest first, so the owner can accept or reject them.
func IncomingRequestsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c) // Get actor from context
		var truckIDs []uint              // The owner's truck ids
		if err := db.Model(&domain.Truck{}).Where("user_id = ?", actor.ID).Pluck("id", &truckIDs).Error; err != nil {
			writeError(c, err)
			return
		}
		requests := []domain.TruckRequest{} // Empty, not null, when no trucks
		if len(truckIDs) > 0 {
			if err := db.Preload("Truck").
				Where("truck_id IN ?", truckIDs).
				Order("created_at desc").
				Find(&requests).Error; err != nil {
				writeError(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"requests": requests})
	}
}

// CreateCargoRequestHandler files a Pending transport offer against a cargo
// posting.
func CreateCargoRequestHandler(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c)            // Get actor from context
		cargoID, err := strconv.Atoi(c.Param("id")) // Parse cargo ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cargo id"})
			return
		}
		req, err := svc.CreateCargoRequest(actor, uint(cargoID)) // File the request
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Cargo requested", "request": req})
	}
}

// AcceptCargoRequestHandler accepts a Pending cargo request; the cargo flips
// to Transported in the same transaction.
func AcceptCargoRequestHandler(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c)              // Get actor from context
		requestID, err := strconv.Atoi(c.Param("id")) // Parse request ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id"})
			return
		}
		req, err := svc.AcceptCargoRequest(actor, uint(requestID)) // Run the transition
		if err != nil {
			writeError(c, err)
			return
		}
		// The cargo is now Transported; drop cached browse pages
		if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
			_ = utils.InvalidatePrefix(context.Background(), rdb, "browse:cargo:")
		}
		c.JSON(http.StatusOK, gin.H{"message": "Request accepted", "request": req})
	}
}

// RejectCargoRequestHandler rejects a Pending cargo request.
func RejectCargoRequestHandler(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c)              // Get actor from context
		requestID, err := strconv.Atoi(c.Param("id")) // Parse request ID from path
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request id"})
			return
		}
		req, err := svc.RejectCargoRequest(actor, uint(requestID)) // Run the transition
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Request rejected", "request": req})
	}
}

// IncomingCargoRequestsHandler returns the transport offers targeting the
// actor's cargo postings.
func IncomingCargoRequestsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFrom(c) // Get actor from context
		var cargoIDs []uint              // The owner's cargo ids
		if err := db.Model(&domain.Cargo{}).Where("user_id = ?", actor.ID).Pluck("id", &cargoIDs).Error; err != nil {
			writeError(c, err)
			return
		}
		requests := []domain.CargoRequest{} // Empty, not null, when no cargo
		if len(cargoIDs) > 0 {
			if err := db.Preload("Cargo").
				Where("cargo_id IN ?", cargoIDs).
				Order("created_at desc").
				Find(&requests).Error; err != nil {
				writeError(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"requests": requests})
	}
}
