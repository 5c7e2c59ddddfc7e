package booking

import (
	"fmt"                       // Error wrapping
	"translink/internal/authz"  // Ownership checks
	"translink/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// The cargo request flow mirrors the truck flow: a fleet owner offers to
// transport a cargo posting, the cargo's owner accepts or rejects, and an
// accept flips the cargo to Transported in the same transaction.

// CreateCargoRequest files a Pending transport offer against available cargo.
func (s *Service) CreateCargoRequest(actor domain.Actor, cargoID uint) (*domain.CargoRequest, error) {
	if actor.Anonymous() {
		return nil, fmt.Errorf("no actor: %w", domain.ErrUnauthorized)
	}
	// Only fleet owners offer transport
	if actor.Role != domain.RoleFleetOwner {
		return nil, fmt.Errorf("only fleet owners may offer transport: %w", domain.ErrUnauthorized)
	}
	var cargo domain.Cargo // Target cargo
	if err := s.db.First(&cargo, cargoID).Error; err != nil {
		return nil, fmt.Errorf("cargo %d: %w", cargoID, domain.ErrNotFound)
	}
	// Owners may not request their own cargo
	if cargo.UserID == actor.ID {
		return nil, fmt.Errorf("cannot request own cargo: %w", domain.ErrUnauthorized)
	}
	// Transported cargo is no longer seeking transport
	if cargo.Status != domain.CargoAvailable {
		return nil, fmt.Errorf("cargo %d is not available: %w", cargoID, domain.ErrConflict)
	}
	req := domain.CargoRequest{
		UserID:  actor.ID,              // Requesting user
		CargoID: cargo.ID,              // Target cargo
		Status:  domain.RequestPending, // Initial state
	}
	if err := s.db.Create(&req).Error; err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"request_id": req.ID,
		"cargo_id":   cargo.ID,
		"user_id":    actor.ID,
	}).Info("Cargo request created")
	return &req, nil
}

// AcceptCargoRequest transitions a Pending cargo request to Accepted and the
// cargo to Transported, both in one transaction with the same
// compare-and-swap guard as the truck flow.
func (s *Service) AcceptCargoRequest(actor domain.Actor, requestID uint) (*domain.CargoRequest, error) {
	if actor.Anonymous() {
		return nil, fmt.Errorf("no actor: %w", domain.ErrUnauthorized)
	}
	var req domain.CargoRequest // Request under decision
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, requestID).Error; err != nil {
			return fmt.Errorf("request %d: %w", requestID, domain.ErrNotFound)
		}
		var cargo domain.Cargo // Referenced cargo
		if err := tx.First(&cargo, req.CargoID).Error; err != nil {
			return fmt.Errorf("cargo %d: %w", req.CargoID, domain.ErrNotFound)
		}
		// Accept/Reject is owner-only
		if !authz.CanPerform(actor, authz.ActionDecide, cargo.UserID) {
			return fmt.Errorf("only the cargo owner may accept: %w", domain.ErrUnauthorized)
		}
		if req.Status != domain.RequestPending {
			return fmt.Errorf("request is %s: %w", req.Status, domain.ErrConflict)
		}
		// Compare-and-swap the cargo status
		res := tx.Model(&domain.Cargo{}).
			Where("id = ? AND status = ?", cargo.ID, domain.CargoAvailable).
			Update("status", domain.CargoTransported)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("cargo no longer available: %w", domain.ErrConflict)
		}
		if err := tx.Model(&req).Update("status", domain.RequestAccepted).Error; err != nil {
			return err // Rolls back the status flip
		}
		req.Status = domain.RequestAccepted
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"request_id": req.ID,
		"cargo_id":   req.CargoID,
		"owner_id":   actor.ID,
	}).Info("Cargo request accepted")
	return &req, nil
}

// RejectCargoRequest transitions a Pending cargo request to Rejected.
func (s *Service) RejectCargoRequest(actor domain.Actor, requestID uint) (*domain.CargoRequest, error) {
	if actor.Anonymous() {
		return nil, fmt.Errorf("no actor: %w", domain.ErrUnauthorized)
	}
	var req domain.CargoRequest // Request under decision
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, requestID).Error; err != nil {
			return fmt.Errorf("request %d: %w", requestID, domain.ErrNotFound)
		}
		var cargo domain.Cargo // Referenced cargo
		if err := tx.First(&cargo, req.CargoID).Error; err != nil {
			return fmt.Errorf("cargo %d: %w", req.CargoID, domain.ErrNotFound)
		}
		if !authz.CanPerform(actor, authz.ActionDecide, cargo.UserID) {
			return fmt.Errorf("only the cargo owner may reject: %w", domain.ErrUnauthorized)
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
		"cargo_id":   req.CargoID,
		"owner_id":   actor.ID,
	}).Info("Cargo request rejected")
	return &req, nil
}

// ToggleCargoStatus flips Available<->Transported directly. Owner override,
// same caveat as ToggleTruckAvailability.
func (s *Service) ToggleCargoStatus(actor domain.Actor, cargoID uint) (*domain.Cargo, error) {
	var cargo domain.Cargo // Cargo to toggle
	if err := s.db.First(&cargo, cargoID).Error; err != nil {
		return nil, fmt.Errorf("cargo %d: %w", cargoID, domain.ErrNotFound)
	}
	if !authz.CanPerform(actor, authz.ActionOverride, cargo.UserID) {
		return nil, fmt.Errorf("only the cargo owner may toggle status: %w", domain.ErrUnauthorized)
	}
	next := domain.CargoAvailable // Flip target
	if cargo.Status == domain.CargoAvailable {
		next = domain.CargoTransported
	}
	if err := s.db.Model(&cargo).Update("status", next).Error; err != nil {
		return nil, err
	}
	cargo.Status = next
	logrus.WithFields(logrus.Fields{
		"cargo_id": cargo.ID,
		"owner_id": actor.ID,
		"status":   next,
	}).Info("Cargo status toggled")
	return &cargo, nil
}

// DeleteCargo removes a cargo posting and all requests referencing it in one
// transaction. The owner or an admin may delete.
func (s *Service) DeleteCargo(actor domain.Actor, cargoID uint) error {
	var cargo domain.Cargo // Cargo to delete
	if err := s.db.First(&cargo, cargoID).Error; err != nil {
		return fmt.Errorf("cargo %d: %w", cargoID, domain.ErrNotFound)
	}
	if !authz.CanPerform(actor, authz.ActionDelete, cargo.UserID) {
		return fmt.Errorf("not the cargo owner: %w", domain.ErrUnauthorized)
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cargo_id = ?", cargo.ID).Delete(&domain.CargoRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cargo).Error
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"cargo_id": cargo.ID,
		"actor_id": actor.ID,
	}).Info("Cargo deleted")
	return nil
}
