package domain

// Truck Model
type Truck struct {
	ID          uint   `gorm:"primaryKey"`                // Primary key
	Name        string `gorm:"not null"`                  // Display name
	PlateNumber string `gorm:"unique;not null"`           // Unique plate number
	DriverName  string `gorm:"not null"`                  // Assigned driver
	Routes      string `gorm:"not null"`                  // Routes served, free text
	Image       string `gorm:"default:default_truck.jpg"` // Stored image filename
	Available   bool   `gorm:"default:true"`              // false means Booked
	UserID      uint   `gorm:"not null;index"`            // Foreign key to the owning User
}
