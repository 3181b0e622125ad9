package domain

// Location Model. Transactions reference a location by its Name.
type Location struct {
	ID        uint    `gorm:"primaryKey" json:"id"`                      // Primary key
	Name      string  `gorm:"size:150;uniqueIndex;not null" json:"name"` // Unique natural key
	Latitude  float64 `gorm:"not null" json:"latitude"`                  // Degrees, -90..90
	Longitude float64 `gorm:"not null" json:"longitude"`                 // Degrees, -180..180
}
