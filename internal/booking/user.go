package booking

import (
	"fmt"                       // Error wrapping
	"translink/internal/authz"  // Ownership checks
	"translink/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// DeleteUser removes a user together with their trucks, cargo postings, the
// requests targeting those resources, and the requests the user sent, all in
// one transaction so no orphan rows survive. The user themselves or an admin
// may delete; admins supply a moderation reason, which is logged.
func (s *Service) DeleteUser(actor domain.Actor, userID uint, reason string) error {
	var user domain.User // User to delete
	if err := s.db.First(&user, userID).Error; err != nil {
		return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	if !authz.CanPerform(actor, authz.ActionDelete, user.ID) {
		return fmt.Errorf("not the account owner: %w", domain.ErrUnauthorized)
	}
	// A moderation delete needs a stated reason
	if actor.ID != user.ID && reason == "" {
		return fmt.Errorf("moderation delete requires a reason: %w", domain.ErrValidation)
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Requests against the user's trucks, then the trucks
		var truckIDs []uint
		if err := tx.Model(&domain.Truck{}).Where("user_id = ?", user.ID).Pluck("id", &truckIDs).Error; err != nil {
			return err
		}
		if len(truckIDs) > 0 {
			if err := tx.Where("truck_id IN ?", truckIDs).Delete(&domain.TruckRequest{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", truckIDs).Delete(&domain.Truck{}).Error; err != nil {
				return err
			}
		}
		// Requests against the user's cargo, then the cargo
		var cargoIDs []uint
		if err := tx.Model(&domain.Cargo{}).Where("user_id = ?", user.ID).Pluck("id", &cargoIDs).Error; err != nil {
			return err
		}
		if len(cargoIDs) > 0 {
			if err := tx.Where("cargo_id IN ?", cargoIDs).Delete(&domain.CargoRequest{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", cargoIDs).Delete(&domain.Cargo{}).Error; err != nil {
				return err
			}
		}
		// Requests the user sent
		if err := tx.Where("user_id = ?", user.ID).Delete(&domain.TruckRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&domain.CargoRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"actor_id": actor.ID,
		"reason":   reason,
	}).Info("User deleted")
	return nil
}

// SuspendUser blocks a user from logging in. Admin-only moderation; the
// user's listings and requests stay in place.
func (s *Service) SuspendUser(actor domain.Actor, userID uint, reason string) error {
	// Suspension is moderation, never self-service
	if actor.Role != domain.RoleAdmin {
		return fmt.Errorf("admin only: %w", domain.ErrUnauthorized)
	}
	if reason == "" {
		return fmt.Errorf("suspension requires a reason: %w", domain.ErrValidation)
	}
	var user domain.User // User to suspend
	if err := s.db.First(&user, userID).Error; err != nil {
		return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	if user.Suspended {
		return fmt.Errorf("user already suspended: %w", domain.ErrConflict)
	}
	if err := s.db.Model(&user).Update("suspended", true).Error; err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"admin_id": actor.ID,
		"reason":   reason,
	}).Info("User suspended")
	return nil
}
