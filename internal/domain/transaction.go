package domain

import "time"

// Kind is the direction of a transaction.
type Kind string

const (
	KindIncome  Kind = "income"  // Money coming in
	KindExpense Kind = "expense" // Money going out
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction Model
type Transaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                 // Primary key
	UserID       uint      `gorm:"not null;index" json:"-"`              // Owning user
	Type         Kind      `gorm:"size:10;not null" json:"type"`         // income or expense
	Amount       float64   `gorm:"not null" json:"amount"`               // Non-negative amount
	Category     string    `gorm:"size:100;not null" json:"category"`    // Free text category
	Note         string    `gorm:"size:200" json:"note"`                 // Optional note
	Date         Date      `gorm:"type:date;not null;index" json:"date"` // Calendar date
	CurrencyCode string    `gorm:"size:10" json:"currency_code"`         // Stored as given, not converted
	CurrencyRate float64   `json:"currency_rate"`                        // Stored as given, not applied
	TimeZone     string    `gorm:"size:50" json:"time_zone"`             // Label only
	LocationName *string   `gorm:"size:150;index" json:"location_name"`  // References Location.Name
	CreatedAt    time.Time `json:"created_at"`                           // Creation timestamp
	UpdatedAt    time.Time `json:"updated_at"`                           // Refreshed on every write
}
