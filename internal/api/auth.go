package api

import (
	"net/http" // HTTP status codes

	"finance_tracker/internal/auth" // Auth service

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RegisterRequest is the body of POST /api/register
type RegisterRequest struct {
	Name     string `json:"name"`     // Display name
	Email    string `json:"email"`    // Login email, case-insensitive
	Password string `json:"password"` // Plain password, hashed before storage
}

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler creates a user and returns a token for it
func RegisterHandler(svc *auth.Service, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badBody(c)
			return
		}
		token, err := svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
		if err != nil {
			respondError(c, log, err) // Validation, duplicate email or write failure
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "user registered successfully", "token": token})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(svc *auth.Service, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badBody(c)
			return
		}
		token, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": token})
	}
}

// MeHandler returns the caller's profile
func MeHandler(svc *auth.Service, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		u, err := svc.WhoAmI(c.Request.Context(), userID)
		if err != nil {
			respondError(c, log, err) // User deleted after the token was issued
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "name": u.Name, "email": u.Email})
	}
}

// DeleteMeHandler removes the caller's account and all of their transactions
func DeleteMeHandler(svc *auth.Service, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		if err := svc.DeleteAccount(c.Request.Context(), userID); err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "account deleted successfully"})
	}
}
