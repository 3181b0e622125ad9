package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Query parameter parsing

	"finance_tracker/internal/ledger" // Ledger service

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// TransactionRequest is the body of POST and PUT /api/transactions
type TransactionRequest struct {
	Type         string   `json:"type"`          // income or expense
	Amount       *float64 `json:"amount"`        // Required, nil when absent
	Category     string   `json:"category"`      // Free-form category
	Note         string   `json:"note"`          // Optional note
	Date         string   `json:"date"`          // YYYY-MM-DD
	CurrencyCode string   `json:"currency_code"` // Defaults to the configured currency
	CurrencyRate *float64 `json:"currency_rate"` // Defaults to 1
	TimeZone     string   `json:"time_zone"`     // Defaults to the configured zone
	LocationID   string   `json:"location_id"`   // Location name
}

func (r TransactionRequest) input() ledger.Input {
	return ledger.Input{
		Type:         r.Type,
		Amount:       r.Amount,
		Category:     r.Category,
		Note:         r.Note,
		Date:         r.Date,
		CurrencyCode: r.CurrencyCode,
		CurrencyRate: r.CurrencyRate,
		TimeZone:     r.TimeZone,
		Location:     r.LocationID,
	}
}

// ListTransactionsHandler returns the caller's transactions
func ListTransactionsHandler(svc *ledger.Service, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		entries, err := svc.List(c.Request.Context(), userID)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": entries})
	}
}

// GetTransactionHandler returns one of the caller's transactions
func GetTransactionHandler(svc *ledger.Service, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "transaction")
		if !ok {
			return
		}
		entry, err := svc.Get(c.Request.Context(), userID, id)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transaction": entry})
	}
}

// CreateTransactionHandler records a transaction for the caller
func CreateTransactionHandler(svc *ledger.Service, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req TransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			badBody(c)
			return
		}
		entry, err := svc.Create(c.Request.Context(), userID, req.input())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "transaction added successfully", "transaction": entry})
	}
}

// UpdateTransactionHandler replaces one of the caller's transactions
func UpdateTransactionHandler(svc *ledger.Service, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "transaction")
		if !ok {
			return
		}
		var req TransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badBody(c)
			return
		}
		entry, err := svc.Update(c.Request.Context(), userID, id, req.input())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "transaction updated successfully", "transaction": entry})
	}
}

// DeleteTransactionHandler removes one of the caller's transactions
func DeleteTransactionHandler(svc *ledger.Service, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c, "transaction")
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), userID, id); err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "transaction deleted successfully"})
	}
}

// SummaryHandler totals the caller's income and expense for a month
func SummaryHandler(svc *ledger.Service, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		month, ok := intQuery(c, "month")
		if !ok {
			return
		}
		year, ok := intQuery(c, "year")
		if !ok {
			return
		}
		sum, err := svc.Summary(c.Request.Context(), userID, month, year)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, sum)
	}
}

// intQuery reads an optional integer query parameter; absent means 0
func intQuery(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": key + " must be a number"})
		return 0, false
	}
	return v, true
}
