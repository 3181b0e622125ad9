package api

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/location" // Location service

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// LocationRequest is the body of POST and PUT /api/locations
type LocationRequest struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`  // nil when absent
	Longitude *float64 `json:"longitude"` // nil when absent
}

func (r LocationRequest) input() location.Input {
	return location.Input{Name: r.Name, Latitude: r.Latitude, Longitude: r.Longitude}
}

// CreateLocationHandler adds a location to the shared catalog
func CreateLocationHandler(svc *location.Service, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LocationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badBody(c)
			return
		}
		loc, err := svc.Create(c.Request.Context(), req.input())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "location added successfully", "location": loc})
	}
}

// ListLocationsHandler returns the whole catalog
func ListLocationsHandler(svc *location.Service, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		locs, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"locations": locs})
	}
}

// SearchLocationsHandler matches ?q= against location names
func SearchLocationsHandler(svc *location.Service, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		locs, err := svc.Search(c.Request.Context(), c.Query("q"))
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"locations": locs})
	}
}

// UpdateLocationHandler replaces a location; renames carry over to transactions
func UpdateLocationHandler(svc *location.Service, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "location")
		if !ok {
			return
		}
		var req LocationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badBody(c)
			return
		}
		loc, err := svc.Update(c.Request.Context(), id, req.input())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "location updated successfully", "location": loc})
	}
}

// DeleteLocationHandler removes a location no transaction references
func DeleteLocationHandler(svc *location.Service, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "location")
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, log, err) // 409 while transactions still reference it
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "location deleted successfully"})
	}
}
