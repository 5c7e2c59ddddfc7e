package api

import (
	"context"                    // Context for Redis operations
	"net/http"                   // HTTP status codes
	"strconv"                    // String conversion
	"time"                       // Time durations
	"translink/internal/listing" // Listing query layer
	"translink/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// browsePage reads the page number from the query, defaulting to 1.
func browsePage(c *gin.Context) int {
	page := 1 // Default page
	if p := c.Query("page"); p != "" {
		// Convert page to integer
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	return page
}

// BrowseTrucksHandler serves the truck browse page: filtered, paginated,
// cached for 60 seconds per filter/page combination. A Booked truck never
// appears under the Available filter, which is what keeps the browse surface
// from offering non-requestable trucks.
func BrowseTrucksHandler(svc *listing.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := listing.TruckFilter{
			Status: c.Query("status"), // Optional exact-status filter
			Search: c.Query("search"), // Optional substring search
		}
		page := browsePage(c)       // Requested page
		ctx := context.Background() // Context for Redis operations
		// Cache key per filter/page combination
		cacheKey := "browse:trucks:status=" + filter.Status + ":search=" + filter.Search + ":page=" + strconv.Itoa(page)
		var cached listing.TruckPage // Cached page, if any
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"result": cached, "cached": true})
			return
		}
		result, err := svc.ListTrucks(filter, page, listing.BrowsePageSize) // Query the listing layer
		if err != nil {
			writeError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, result, 60*time.Second)  // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"result": result, "cached": false}) // Return the page
	}
}

// BrowseCargoHandler serves the cargo browse page, same shape as trucks.
func BrowseCargoHandler(svc *listing.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := listing.CargoFilter{
			Status: c.Query("status"), // Optional exact-status filter
			Search: c.Query("search"), // Optional substring search
		}
		page := browsePage(c)       // Requested page
		ctx := context.Background() // Context for Redis operations
		// Cache key per filter/page combination
		cacheKey := "browse:cargo:status=" + filter.Status + ":search=" + filter.Search + ":page=" + strconv.Itoa(page)
		var cached listing.CargoPage // Cached page, if any
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"result": cached, "cached": true})
			return
		}
		result, err := svc.ListCargo(filter, page, listing.BrowsePageSize) // Query the listing layer
		if err != nil {
			writeError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, result, 60*time.Second)  // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"result": result, "cached": false}) // Return the page
	}
}
