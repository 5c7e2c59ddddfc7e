package booking

import (
	"fmt"                       // Error wrapping
	"strings"                   // String manipulation
	"translink/internal/authz"  // Ownership checks
	"translink/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Service owns the lifecycle of booking requests: creation, the
// Pending -> Accepted/Rejected transitions, the owner overrides, and the
// cascade deletes. Every operation takes an explicit actor; there is no
// ambient identity. All multi-row effects run inside one transaction.
type Service struct {
	db *gorm.DB // Database handle
}

// NewService creates a booking service over the given database.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateTruckRequest files a Pending request against an available truck.
// A Pending request reserves nothing: multiple Pending requests may coexist
// for one truck and the truck stays Available until one is accepted.
func (s *Service) CreateTruckRequest(actor domain.Actor, truckID uint, origin, destination, cargoDetails string) (*domain.TruckRequest, error) {
	// Anonymous actors may not mutate
	if actor.Anonymous() {
		return nil, fmt.Errorf("no actor: %w", domain.ErrUnauthorized)
	}
	// Only requesters book trucks
	if actor.Role != domain.RoleRequester {
		return nil, fmt.Errorf("only requesters may book trucks: %w", domain.ErrUnauthorized)
	}
	// Origin and destination are required
	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return nil, fmt.Errorf("origin and destination are required: %w", domain.ErrValidation)
	}
	var truck domain.Truck // Target truck
	if err := s.db.First(&truck, truckID).Error; err != nil {
		return nil, fmt.Errorf("truck %d: %w", truckID, domain.ErrNotFound)
	}
	// Owners may not request their own truck
	if truck.UserID == actor.ID {
		return nil, fmt.Errorf("cannot request own truck: %w", domain.ErrUnauthorized)
	}
	// A Booked truck is non-requestable
	if !truck.Available {
		return nil, fmt.Errorf("truck %d is already booked: %w", truckID, domain.ErrConflict)
	}
	req := domain.TruckRequest{
		UserID:       actor.ID,              // Requesting user
		TruckID:      truck.ID,              // Target truck
		Origin:       origin,                // Pickup location
		Destination:  destination,           // Drop-off location
		CargoDetails: cargoDetails,          // Optional load description
		Status:       domain.RequestPending, // Initial state
	}
	if err := s.db.Create(&req).Error; err != nil {
		return nil, err
	}
	// Log the new request
	logrus.WithFields(logrus.Fields{
		"request_id": req.ID,
		"truck_id":   truck.ID,
		"user_id":    actor.ID,
	}).Info("Truck request created")
	return &req, nil
}

// AcceptTruckRequest transitions a Pending request to Accepted and flips the
// truck to Booked, both in one transaction. The availability flip is a
// compare-and-swap on the truck row, so of two concurrent accepts exactly one
// commits and the other observes ErrConflict. Sibling Pending requests are
// left Pending; they become unsatisfiable once the truck is Booked and any
// later accept on them fails the same swap. Only the truck's owner may
// accept; admins are refused.
func (s *Service) AcceptTruckRequest(actor domain.Actor, requestID uint) (*domain.TruckRequest, error) {
	if actor.Anonymous() {
		return nil, fmt.Errorf("no actor: %w", domain.ErrUnauthorized)
	}
	var req domain.TruckRequest // Request under decision
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, requestID).Error; err != nil {
			return fmt.Errorf("request %d: %w", requestID, domain.ErrNotFound)
		}
		var truck domain.Truck // Referenced truck
		if err := tx.First(&truck, req.TruckID).Error; err != nil {
			return fmt.Errorf("truck %d: %w", req.TruckID, domain.ErrNotFound)
		}
		// Accept/Reject is owner-only
		if !authz.CanPerform(actor, authz.ActionDecide, truck.UserID) {
			return fmt.Errorf("only the truck owner may accept: %w", domain.ErrUnauthorized)
		}
		// Accepted and Rejected are terminal
		if req.Status != domain.RequestPending {
			return fmt.Errorf("request is %s: %w", req.Status, domain.ErrConflict)
		}
		// Compare-and-swap the availability flag; a concurrent accept that
		// already booked the truck makes this touch zero rows
		res := tx.Model(&domain.Truck{}).
			Where("id = ? AND available = ?", truck.ID, true).
			Update("available", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("truck no longer available: %w", domain.ErrConflict)
		}
		if err := tx.Model(&req).Update("status", domain.RequestAccepted).Error; err != nil {
			return err // Rolls back the availability flip
		}
		req.Status = domain.RequestAccepted
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Log the transition
	logrus.WithFields(logrus.Fields{
		"request_id": req.ID,
		"truck_id":   req.TruckID,
		"owner_id":   actor.ID,
	}).Info("Truck request accepted")
	return &req, nil
}

// RejectTruckRequest transitions a Pending request to Rejected. The truck is
// untouched. Only the truck's owner may reject.
func (s *Service) RejectTruckRequest(actor domain.Actor, requestID uint) (*domain.TruckRequest, error) {
	if actor.Anonymous() {
		return nil, fmt.Errorf("no actor: %w", domain.ErrUnauthorized)
	}
	var req domain.TruckRequest // Request under decision
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, requestID).Error; err != nil {
			return fmt.Errorf("request %d: %w", requestID, domain.ErrNotFound)
		}
		var truck domain.Truck // Referenced truck
		if err := tx.First(&truck, req.TruckID).Error; err != nil {
			return fmt.Errorf("truck %d: %w", req.TruckID, domain.ErrNotFound)
		}
		if !authz.CanPerform(actor, authz.ActionDecide, truck.UserID) {
			return fmt.Errorf("only the truck owner may reject: %w", domain.ErrUnauthorized)
		}
		if req.Status != domain.RequestPending {
			return fmt.Errorf("request is %s: %w", req.Status, domain.ErrConflict)
		}
		if err := tx.Model(&req).Update("status", domain.RequestRejected).Error; err != nil {
			return err
		}
		req.Status = domain.RequestRejected
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"request_id": req.ID,
		"truck_id":   req.TruckID,
		"owner_id":   actor.ID,
	}).Info("Truck request rejected")
	return &req, nil
}

// ToggleTruckAvailability flips Available<->Booked directly, bypassing the
// request relationship. This is an owner override (e.g. taking a truck
// offline) and can leave the flag inconsistent with an outstanding Accepted
// request until the owner toggles it back; that divergence is deliberate.
func (s *Service) ToggleTruckAvailability(actor domain.Actor, truckID uint) (*domain.Truck, error) {
	var truck domain.Truck // Truck to toggle
	if err := s.db.First(&truck, truckID).Error; err != nil {
		return nil, fmt.Errorf("truck %d: %w", truckID, domain.ErrNotFound)
	}
	// Owner-only override, no admin bypass
	if !authz.CanPerform(actor, authz.ActionOverride, truck.UserID) {
		return nil, fmt.Errorf("only the truck owner may toggle availability: %w", domain.ErrUnauthorized)
	}
	next := !truck.Available // Flip target
	if err := s.db.Model(&truck).Update("available", next).Error; err != nil {
		return nil, err
	}
	truck.Available = next
	logrus.WithFields(logrus.Fields{
		"truck_id":  truck.ID,
		"owner_id":  actor.ID,
		"available": truck.Available,
	}).Info("Truck availability toggled")
	return &truck, nil
}

// DeleteTruck removes a truck and all requests referencing it in one
// transaction. The owner or an admin may delete.
func (s *Service) DeleteTruck(actor domain.Actor, truckID uint) error {
	var truck domain.Truck // Truck to delete
	if err := s.db.First(&truck, truckID).Error; err != nil {
		return fmt.Errorf("truck %d: %w", truckID, domain.ErrNotFound)
	}
	if !authz.CanPerform(actor, authz.ActionDelete, truck.UserID) {
		return fmt.Errorf("not the truck owner: %w", domain.ErrUnauthorized)
	}
	// Cascade: dependent requests go with the truck
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("truck_id = ?", truck.ID).Delete(&domain.TruckRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&truck).Error
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"truck_id": truck.ID,
		"actor_id": actor.ID,
	}).Info("Truck deleted")
	return nil
}
