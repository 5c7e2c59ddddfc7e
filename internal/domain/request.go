package domain

// RequestStatus is the closed set of booking request states.
// Accepted and Rejected are terminal.
type RequestStatus string

const (
	RequestPending  RequestStatus = "Pending"  // Initial state
	RequestAccepted RequestStatus = "Accepted" // Terminal, flips the target's availability
	RequestRejected RequestStatus = "Rejected" // Terminal, no target state change
)

// TruckRequest Model: a requester asking to book a truck.
type TruckRequest struct {
	ID           uint          `gorm:"primaryKey"`           // Primary key
	UserID       uint          `gorm:"not null;index"`       // Foreign key to the requesting User
	TruckID      uint          `gorm:"not null;index"`       // Foreign key to the target Truck
	Origin       string        `gorm:"not null"`             // Pickup location
	Destination  string        `gorm:"not null"`             // Drop-off location
	CargoDetails string        // Optional description of the load
	Status       RequestStatus `gorm:"default:Pending"`      // Pending, Accepted or Rejected
	CreatedAt    int64         `gorm:"autoCreateTime:milli"` // Timestamp of creation in milliseconds
	Truck        Truck         `json:"Truck,omitempty"`      // Target truck, preloaded in listings
}

// CargoRequest Model: a fleet owner offering to transport a cargo posting.
type CargoRequest struct {
	ID        uint          `gorm:"primaryKey"`           // Primary key
	UserID    uint          `gorm:"not null;index"`       // Foreign key to the requesting User
	CargoID   uint          `gorm:"not null;index"`       // Foreign key to the target Cargo
	Status    RequestStatus `gorm:"default:Pending"`      // Pending, Accepted or Rejected
	CreatedAt int64         `gorm:"autoCreateTime:milli"` // Timestamp of creation in milliseconds
	Cargo     Cargo         `json:"Cargo,omitempty"`      // Target cargo, preloaded in listings
}
