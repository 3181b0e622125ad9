// Package api exposes the HTTP surface: gin handlers and the router that
// wires them behind the middleware chain.
package api

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/auth"       // Auth service
	"finance_tracker/internal/ledger"     // Ledger service
	"finance_tracker/internal/location"   // Location service
	"finance_tracker/internal/middleware" // Custom middleware

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Deps are the services and settings the router is built from
type Deps struct {
	Auth           *auth.Service
	Ledger         *ledger.Service
	Locations      *location.Service
	Log            logrus.FieldLogger
	CORSOrigins    []string // "*" allows any origin
	TrustedProxies []string // nil trusts no proxy
}

// NewRouter builds the gin engine with every route registered
func NewRouter(d Deps) (*gin.Engine, error) {
	r := gin.New()
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, err
	}
	r.Use(middleware.RequestID(), middleware.Logger(d.Log), gin.Recovery(), middleware.CORS(d.CORSOrigins))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "route not found"})
	})

	base := r.Group("/api")

	// Auth routes
	base.POST("/register", RegisterHandler(d.Auth, d.Log)) // Registration endpoint
	base.POST("/login", LoginHandler(d.Auth, d.Log))       // Login endpoint

	// Everything below requires a bearer token
	protected := base.Group("")
	protected.Use(middleware.JWTAuthMiddleware(d.Auth))

	protected.GET("/me", MeHandler(d.Auth, d.Log))
	protected.DELETE("/me", DeleteMeHandler(d.Auth, d.Log))

	tx := protected.Group("/transactions")
	tx.GET("", ListTransactionsHandler(d.Ledger, d.Log))
	tx.GET("/summary", SummaryHandler(d.Ledger, d.Log)) // Static segment wins over :id
	tx.GET("/:id", GetTransactionHandler(d.Ledger, d.Log))
	tx.POST("", CreateTransactionHandler(d.Ledger, d.Log))
	tx.PUT("/:id", UpdateTransactionHandler(d.Ledger, d.Log))
	tx.DELETE("/:id", DeleteTransactionHandler(d.Ledger, d.Log))

	locs := protected.Group("/locations")
	locs.POST("", CreateLocationHandler(d.Locations, d.Log))
	locs.GET("", ListLocationsHandler(d.Locations, d.Log))
	locs.GET("/search", SearchLocationsHandler(d.Locations, d.Log))
	locs.PUT("/:id", UpdateLocationHandler(d.Locations, d.Log))
	locs.DELETE("/:id", DeleteLocationHandler(d.Locations, d.Log))

	return r, nil
}
