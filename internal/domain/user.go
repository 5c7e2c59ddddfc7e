package domain

// Role is the closed set of user roles. There is no role-change operation.
type Role string

const (
	RoleFleetOwner Role = "fleet_owner" // Posts trucks, decides requests against them
	RoleRequester  Role = "requester"   // Posts cargo, requests trucks
	RoleAdmin      Role = "admin"       // Moderation only, never accepts/rejects
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleFleetOwner || r == RoleRequester || r == RoleAdmin
}

// User Model
type User struct {
	ID        uint   `gorm:"primaryKey"`          // Primary key
	Username  string `gorm:"unique;not null"`     // Unique username
	Password  string `gorm:"not null"`            // Hashed password
	Role      Role   `gorm:"not null"`            // fleet_owner, requester or admin
	Avatar    string `gorm:"default:default.png"` // Stored avatar filename
	Suspended bool   `gorm:"default:false"`       // Suspended users cannot log in
}

// Actor is the authenticated identity passed into every core operation.
// A zero Actor is anonymous and may not mutate anything.
type Actor struct {
	ID   uint // User ID, 0 for anonymous
	Role Role // User role
}

// Anonymous reports whether the actor carries no identity.
func (a Actor) Anonymous() bool {
	return a.ID == 0
}
