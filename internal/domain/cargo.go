package domain

// CargoStatus is the closed set of cargo states.
type CargoStatus string

const (
	CargoAvailable   CargoStatus = "Available"   // Actively seeking transport
	CargoTransported CargoStatus = "Transported" // Matched or delivered
)

// Cargo Model
type Cargo struct {
	ID          uint        `gorm:"primaryKey"`                // Primary key
	Name        string      `gorm:"not null"`                  // Display name
	Weight      float64     `gorm:"not null"`                  // Weight in kg
	Dimensions  string      `gorm:"not null"`                  // Free-text dimensions
	Origin      string      `gorm:"not null"`                  // Pickup location
	Destination string      `gorm:"not null"`                  // Drop-off location
	Image       string      `gorm:"default:default_cargo.jpg"` // Stored image filename
	Status      CargoStatus `gorm:"default:Available"`         // Available or Transported
	UserID      uint        `gorm:"not null;index"`            // Foreign key to the owning User
}
