package booking

import (
	"testing"
	"translink/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestDeleteUserCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	owner := seedUser(t, db, "alice", domain.RoleFleetOwner)
	bob := seedUser(t, db, "bob", domain.RoleRequester)
	admin := seedUser(t, db, "root", domain.RoleAdmin)

	// Alice owns a truck with a request against it, and has filed a cargo
	// request of her own against Bob's cargo
	truck := seedTruck(t, db, owner, "KAA-100")
	cargo := seedCargo(t, db, bob, "timber")
	_, err := svc.CreateTruckRequest(actorOf(bob), truck.ID, "A", "B", "")
	require.NoError(t, err)
	_, err = svc.CreateCargoRequest(actorOf(owner), cargo.ID)
	require.NoError(t, err)

	// A stranger cannot delete Alice
	require.ErrorIs(t, svc.DeleteUser(actorOf(bob), owner.ID, ""), domain.ErrUnauthorized)

	// A moderation delete needs a reason
	require.ErrorIs(t, svc.DeleteUser(actorOf(admin), owner.ID, ""), domain.ErrValidation)
	require.NoError(t, svc.DeleteUser(actorOf(admin), owner.ID, "spam listings"))

	// Her truck, the requests against it, and her own sent requests are gone
	var n int64
	require.NoError(t, db.Model(&domain.Truck{}).Where("user_id = ?", owner.ID).Count(&n).Error)
	require.Zero(t, n)
	require.NoError(t, db.Model(&domain.TruckRequest{}).Where("truck_id = ?", truck.ID).Count(&n).Error)
	require.Zero(t, n)
	require.NoError(t, db.Model(&domain.CargoRequest{}).Where("user_id = ?", owner.ID).Count(&n).Error)
	require.Zero(t, n)

	// Bob's cargo survives
	require.NoError(t, db.Model(&domain.Cargo{}).Where("id = ?", cargo.ID).Count(&n).Error)
	require.EqualValues(t, 1, n)
}

func TestDeleteOwnAccount(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bob := seedUser(t, db, "bob", domain.RoleRequester)

	// Self-delete needs no reason
	require.NoError(t, svc.DeleteUser(actorOf(bob), bob.ID, ""))
	var n int64
	require.NoError(t, db.Model(&domain.User{}).Where("id = ?", bob.ID).Count(&n).Error)
	require.Zero(t, n)
}

func TestSuspendUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bob := seedUser(t, db, "bob", domain.RoleRequester)
	admin := seedUser(t, db, "root", domain.RoleAdmin)

	// Suspension is admin-only and needs a reason
	require.ErrorIs(t, svc.SuspendUser(actorOf(bob), bob.ID, "because"), domain.ErrUnauthorized)
	require.ErrorIs(t, svc.SuspendUser(actorOf(admin), bob.ID, ""), domain.ErrValidation)
	require.NoError(t, svc.SuspendUser(actorOf(admin), bob.ID, "abuse"))

	var fresh domain.User
	require.NoError(t, db.First(&fresh, bob.ID).Error)
	require.True(t, fresh.Suspended)

	// Suspending twice is a conflict
	require.ErrorIs(t, svc.SuspendUser(actorOf(admin), bob.ID, "abuse"), domain.ErrConflict)

	require.ErrorIs(t, svc.SuspendUser(actorOf(admin), 9999, "abuse"), domain.ErrNotFound)
}
