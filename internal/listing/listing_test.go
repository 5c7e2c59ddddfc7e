package listing

import (
	"fmt"
	"testing"
	"translink/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the listing schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Truck{}, &domain.Cargo{}))
	return db
}

func seedTrucks(t *testing.T, db *gorm.DB, n int) []domain.Truck {
	t.Helper()
	owner := domain.User{Username: "alice", Password: "x", Role: domain.RoleFleetOwner}
	require.NoError(t, db.Create(&owner).Error)
	trucks := make([]domain.Truck, n)
	for i := range trucks {
		trucks[i] = domain.Truck{
			Name:        fmt.Sprintf("Hauler %d", i),
			PlateNumber: fmt.Sprintf("KAA-%03d", i),
			DriverName:  "driver",
			Routes:      "Nairobi-Mombasa",
			Available:   true,
			UserID:      owner.ID,
		}
		require.NoError(t, db.Create(&trucks[i]).Error)
	}
	return trucks
}

func TestListTrucksPagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	seedTrucks(t, db, 8)

	page1, err := svc.ListTrucks(TruckFilter{}, 1, BrowsePageSize)
	require.NoError(t, err)
	require.Len(t, page1.Trucks, 6)
	require.EqualValues(t, 8, page1.Total)
	require.Equal(t, 2, page1.TotalPages)

	page2, err := svc.ListTrucks(TruckFilter{}, 2, BrowsePageSize)
	require.NoError(t, err)
	require.Len(t, page2.Trucks, 2)

	// Out-of-range pages are empty, not errors
	page3, err := svc.ListTrucks(TruckFilter{}, 3, BrowsePageSize)
	require.NoError(t, err)
	require.Empty(t, page3.Trucks)

	// Newest first across the pages
	require.Greater(t, page1.Trucks[0].ID, page2.Trucks[0].ID)
}

func TestListTrucksStatusFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	trucks := seedTrucks(t, db, 4)

	// Book one truck
	booked := trucks[1]
	require.NoError(t, db.Model(&domain.Truck{}).Where("id = ?", booked.ID).Update("available", false).Error)

	page, err := svc.ListTrucks(TruckFilter{Status: "Available"}, 1, BrowsePageSize)
	require.NoError(t, err)
	require.Len(t, page.Trucks, 3)
	for _, truck := range page.Trucks {
		require.NotEqual(t, booked.ID, truck.ID) // The booked truck is excluded
		require.True(t, truck.Available)
	}

	page, err = svc.ListTrucks(TruckFilter{Status: "Booked"}, 1, BrowsePageSize)
	require.NoError(t, err)
	require.Len(t, page.Trucks, 1)
	require.Equal(t, booked.ID, page.Trucks[0].ID)
}

func TestListTrucksSearch(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	trucks := seedTrucks(t, db, 3)

	// Give one truck a distinctive route
	require.NoError(t, db.Model(&domain.Truck{}).Where("id = ?", trucks[2].ID).
		Update("routes", "Eldoret-Kitale").Error)

	// Case-insensitive substring match on the route field
	page, err := svc.ListTrucks(TruckFilter{Search: "eldoret"}, 1, BrowsePageSize)
	require.NoError(t, err)
	require.Len(t, page.Trucks, 1)
	require.Equal(t, trucks[2].ID, page.Trucks[0].ID)

	// Name matches too
	page, err = svc.ListTrucks(TruckFilter{Search: "HAULER 1"}, 1, BrowsePageSize)
	require.NoError(t, err)
	require.Len(t, page.Trucks, 1)

	// Search and status combine with AND
	require.NoError(t, db.Model(&domain.Truck{}).Where("id = ?", trucks[2].ID).
		Update("available", false).Error)
	page, err = svc.ListTrucks(TruckFilter{Search: "eldoret", Status: "Available"}, 1, BrowsePageSize)
	require.NoError(t, err)
	require.Empty(t, page.Trucks)
}

func TestListCargo(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	owner := domain.User{Username: "bob", Password: "x", Role: domain.RoleRequester}
	require.NoError(t, db.Create(&owner).Error)
	for i := 0; i < 3; i++ {
		cargo := domain.Cargo{
			Name:        fmt.Sprintf("load %d", i),
			Weight:      500,
			Dimensions:  "1x1x1m",
			Origin:      "Thika",
			Destination: "Naivasha",
			Status:      domain.CargoAvailable,
			UserID:      owner.ID,
		}
		require.NoError(t, db.Create(&cargo).Error)
	}
	// One transported load
	require.NoError(t, db.Model(&domain.Cargo{}).Where("name = ?", "load 0").
		Update("status", domain.CargoTransported).Error)

	page, err := svc.ListCargo(CargoFilter{Status: "Available"}, 1, BrowsePageSize)
	require.NoError(t, err)
	require.Len(t, page.Cargo, 2)

	// Substring match on destination
	page, err = svc.ListCargo(CargoFilter{Search: "naivasha"}, 1, BrowsePageSize)
	require.NoError(t, err)
	require.Len(t, page.Cargo, 3)

	// Out-of-range page is empty
	page, err = svc.ListCargo(CargoFilter{}, 5, BrowsePageSize)
	require.NoError(t, err)
	require.Empty(t, page.Cargo)
}
