package booking

import (
	"testing"
	"translink/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Truck{},
		&domain.Cargo{},
		&domain.TruckRequest{},
		&domain.CargoRequest{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string, role domain.Role) domain.User {
	t.Helper()
	u := domain.User{Username: name, Password: "x", Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedTruck(t *testing.T, db *gorm.DB, owner domain.User, plate string) domain.Truck {
	t.Helper()
	truck := domain.Truck{
		Name:        "truck " + plate,
		PlateNumber: plate,
		DriverName:  "driver",
		Routes:      "north corridor",
		Available:   true,
		UserID:      owner.ID,
	}
	require.NoError(t, db.Create(&truck).Error)
	return truck
}

func actorOf(u domain.User) domain.Actor {
	return domain.Actor{ID: u.ID, Role: u.Role}
}

func TestCreateTruckRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	owner := seedUser(t, db, "alice", domain.RoleFleetOwner)
	requester := seedUser(t, db, "bob", domain.RoleRequester)
	truck := seedTruck(t, db, owner, "KAA-001")

	req, err := svc.CreateTruckRequest(actorOf(requester), truck.ID, "Nairobi", "Mombasa", "12 pallets")
	require.NoError(t, err)
	require.Equal(t, domain.RequestPending, req.Status)
	require.Equal(t, requester.ID, req.UserID)
	require.Equal(t, truck.ID, req.TruckID)

	// A Pending request reserves nothing
	var fresh domain.Truck
	require.NoError(t, db.First(&fresh, truck.ID).Error)
	require.True(t, fresh.Available)
}

func TestCreateTruckRequestPreconditions(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	owner := seedUser(t, db, "alice", domain.RoleFleetOwner)
	requester := seedUser(t, db, "bob", domain.RoleRequester)
	truck := seedTruck(t, db, owner, "KAA-002")

	// Anonymous actors are rejected
	_, err := svc.CreateTruckRequest(domain.Actor{}, truck.ID, "A", "B", "")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	// Missing origin or destination is a validation failure
	_, err = svc.CreateTruckRequest(actorOf(requester), truck.ID, " ", "B", "")
	require.ErrorIs(t, err, domain.ErrValidation)

	// Missing truck
	_, err = svc.CreateTruckRequest(actorOf(requester), 9999, "A", "B", "")
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Owners may not request their own truck
	_, err = svc.CreateTruckRequest(actorOf(owner), truck.ID, "A", "B", "")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	// A Booked truck is non-requestable
	require.NoError(t, db.Model(&domain.Truck{}).Where("id = ?", truck.ID).Update("available", false).Error)
	_, err = svc.CreateTruckRequest(actorOf(requester), truck.ID, "A", "B", "")
	require.ErrorIs(t, err, domain.ErrConflict)
}

// The central scenario: two Pending requests, one accept wins, the second
// accept conflicts and changes nothing.
func TestAcceptTruckRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	owner := seedUser(t, db, "alice", domain.RoleFleetOwner)
	bob := seedUser(t, db, "bob", domain.RoleRequester)
	carol := seedUser(t, db, "carol", domain.RoleRequester)
	truck := seedTruck(t, db, owner, "KAA-003")

	r1, err := svc.CreateTruckRequest(actorOf(bob), truck.ID, "A", "B", "")
	require.NoError(t, err)
	r2, err := svc.CreateTruckRequest(actorOf(carol), truck.ID, "C", "D", "")
	require.NoError(t, err)

	accepted, err := svc.AcceptTruckRequest(actorOf(owner), r1.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RequestAccepted, accepted.Status)

	// The truck flipped to Booked in the same transaction
	var fresh domain.Truck
	require.NoError(t, db.First(&fresh, truck.ID).Error)
	require.False(t, fresh.Available)

	// The second accept loses and leaves everything unchanged
	_, err = svc.AcceptTruckRequest(actorOf(owner), r2.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	var r2fresh domain.TruckRequest
	require.NoError(t, db.First(&r2fresh, r2.ID).Error)
	require.Equal(t, domain.RequestPending, r2fresh.Status)
	require.NoError(t, db.First(&fresh, truck.ID).Error)
	require.False(t, fresh.Available)

	// At most one Accepted request per truck, ever
	var acceptedCount int64
	require.NoError(t, db.Model(&domain.TruckRequest{}).
		Where("truck_id = ? AND status = ?", truck.ID, domain.RequestAccepted).
		Count(&acceptedCount).Error)
	require.EqualValues(t, 1, acceptedCount)
}

func TestAcceptAuthorization(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	owner := seedUser(t, db, "alice", domain.RoleFleetOwner)
	bob := seedUser(t, db, "bob", domain.RoleRequester)
	admin := seedUser(t, db, "root", domain.RoleAdmin)
	other := seedUser(t, db, "mallory", domain.RoleFleetOwner)
	truck := seedTruck(t, db, owner, "KAA-004")

	req, err := svc.CreateTruckRequest(actorOf(bob), truck.ID, "A", "B", "")
	require.NoError(t, err)

	// Neither the requester, another fleet owner, nor an admin may decide
	for _, u := range []domain.User{bob, other, admin} {
		_, err = svc.AcceptTruckRequest(actorOf(u), req.ID)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
		_, err = svc.RejectTruckRequest(actorOf(u), req.ID)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
	}

	// Everything is untouched
	var fresh domain.TruckRequest
	require.NoError(t, db.First(&fresh, req.ID).Error)
	require.Equal(t, domain.RequestPending, fresh.Status)
	var truckFresh domain.Truck
	require.NoError(t, db.First(&truckFresh, truck.ID).Error)
	require.True(t, truckFresh.Available)
}

func TestRejectTruckRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	owner := seedUser(t, db, "alice", domain.RoleFleetOwner)
	bob := seedUser(t, db, "bob", domain.RoleRequester)
	truck := seedTruck(t, db, owner, "KAA-005")

	req, err := svc.CreateTruckRequest(actorOf(bob), truck.ID, "A", "B", "")
	require.NoError(t, err)

	rejected, err := svc.RejectTruckRequest(actorOf(owner), req.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RequestRejected, rejected.Status)

	// Reject leaves the truck alone
	var fresh domain.Truck
	require.NoError(t, db.First(&fresh, truck.ID).Error)
	require.True(t, fresh.Available)

	// Rejected is terminal: no further transitions
	_, err = svc.RejectTruckRequest(actorOf(owner), req.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	_, err = svc.AcceptTruckRequest(actorOf(owner), req.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestAcceptAfterOwnerToggle(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	owner := seedUser(t, db, "alice", domain.RoleFleetOwner)
	bob := seedUser(t, db, "bob", domain.RoleRequester)
	truck := seedTruck(t, db, owner, "KAA-006")

	req, err := svc.CreateTruckRequest(actorOf(bob), truck.ID, "A", "B", "")
	require.NoError(t, err)

	// Owner takes the truck offline before deciding
	toggled, err := svc.ToggleTruckAvailability(actorOf(owner), truck.ID)
	require.NoError(t, err)
	require.False(t, toggled.Available)

	// Accept now fails atomically: request stays Pending, truck stays Booked
	_, err = svc.AcceptTruckRequest(actorOf(owner), req.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	var fresh domain.TruckRequest
	require.NoError(t, db.First(&fresh, req.ID).Error)
	require.Equal(t, domain.RequestPending, fresh.Status)
}

func TestToggleTruckAvailability(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	owner := seedUser(t, db, "alice", domain.RoleFleetOwner)
	admin := seedUser(t, db, "root", domain.RoleAdmin)
	truck := seedTruck(t, db, owner, "KAA-007")

	// Owner flips both ways; the returned truck reflects the stored state
	toggled, err := svc.ToggleTruckAvailability(actorOf(owner), truck.ID)
	require.NoError(t, err)
	require.False(t, toggled.Available)
	var fresh domain.Truck
	require.NoError(t, db.First(&fresh, truck.ID).Error)
	require.Equal(t, fresh.Available, toggled.Available)
	toggled, err = svc.ToggleTruckAvailability(actorOf(owner), truck.ID)
	require.NoError(t, err)
	require.True(t, toggled.Available)
	require.NoError(t, db.First(&fresh, truck.ID).Error)
	require.Equal(t, fresh.Available, toggled.Available)

	// The override is owner-only; even admins are refused
	_, err = svc.ToggleTruckAvailability(actorOf(admin), truck.ID)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.ToggleTruckAvailability(actorOf(owner), 9999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteTruckCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	owner := seedUser(t, db, "alice", domain.RoleFleetOwner)
	bob := seedUser(t, db, "bob", domain.RoleRequester)
	truck := seedTruck(t, db, owner, "KAA-008")

	_, err := svc.CreateTruckRequest(actorOf(bob), truck.ID, "A", "B", "")
	require.NoError(t, err)

	// A non-owner cannot delete
	require.ErrorIs(t, svc.DeleteTruck(actorOf(bob), truck.ID), domain.ErrUnauthorized)

	require.NoError(t, svc.DeleteTruck(actorOf(owner), truck.ID))

	// No orphan requests remain
	var reqCount int64
	require.NoError(t, db.Model(&domain.TruckRequest{}).Where("truck_id = ?", truck.ID).Count(&reqCount).Error)
	require.Zero(t, reqCount)
	require.ErrorIs(t, svc.DeleteTruck(actorOf(owner), truck.ID), domain.ErrNotFound)
}

func TestAdminDeleteTruck(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	owner := seedUser(t, db, "alice", domain.RoleFleetOwner)
	bob := seedUser(t, db, "bob", domain.RoleRequester)
	admin := seedUser(t, db, "root", domain.RoleAdmin)
	truck := seedTruck(t, db, owner, "KAA-009")

	_, err := svc.CreateTruckRequest(actorOf(bob), truck.ID, "A", "B", "")
	require.NoError(t, err)

	// Admin moderation bypasses ownership for deletes
	require.NoError(t, svc.DeleteTruck(actorOf(admin), truck.ID))
	var reqCount int64
	require.NoError(t, db.Model(&domain.TruckRequest{}).Where("truck_id = ?", truck.ID).Count(&reqCount).Error)
	require.Zero(t, reqCount)
}
