package listing

import (
	"strings"                   // Search term normalization
	"translink/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Page sizes per view; browse shows 6 cards per page, dashboards 9.
const (
	BrowsePageSize    = 6
	DashboardPageSize = 9
)

// Service answers the browse queries: filtered, paginated truck and cargo
// listings. This is also where the booking flow's availability predicate is
// surfaced, so the browse page never offers a Booked truck for request.
type Service struct {
	db *gorm.DB // Database handle
}

// NewService creates a listing service over the given database.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// TruckFilter narrows a truck listing. Status is an exact match on the
// availability label ("Available"/"Booked"); Search is a case-insensitive
// substring match over name, routes and plate number. Both are optional and
// combine with AND.
type TruckFilter struct {
	Status string // "Available", "Booked" or empty
	Search string // Substring search term
}

// CargoFilter narrows a cargo listing the same way; Status matches the cargo
// status, Search runs over name, origin and destination.
type CargoFilter struct {
	Status string // "Available", "Transported" or empty
	Search string // Substring search term
}

// TruckPage is one page of a truck listing.
type TruckPage struct {
	Trucks     []domain.Truck `json:"trucks"`      // Page contents
	Page       int            `json:"page"`        // Current page, 1-based
	PageSize   int            `json:"page_size"`   // Page size
	Total      int64          `json:"total"`       // Total matching rows
	TotalPages int            `json:"total_pages"` // Total pages
}

// CargoPage is one page of a cargo listing.
type CargoPage struct {
	Cargo      []domain.Cargo `json:"cargo"`       // Page contents
	Page       int            `json:"page"`        // Current page, 1-based
	PageSize   int            `json:"page_size"`   // Page size
	Total      int64          `json:"total"`       // Total matching rows
	TotalPages int            `json:"total_pages"` // Total pages
}

// ListTrucks returns one page of trucks matching the filter, newest first.
// An out-of-range page yields an empty page, not an error.
func (s *Service) ListTrucks(filter TruckFilter, page, pageSize int) (*TruckPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = BrowsePageSize
	}
	query := s.db.Model(&domain.Truck{}) // Start building the query
	switch filter.Status {
	case "Available":
		query = query.Where("available = ?", true)
	case "Booked":
		query = query.Where("available = ?", false)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(routes) LIKE ? OR LOWER(plate_number) LIKE ?", like, like, like)
	}
	var total int64 // Total matching rows
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}
	var trucks []domain.Truck // Page contents
	offset := (page - 1) * pageSize
	if err := query.Order("id desc").Offset(offset).Limit(pageSize).Find(&trucks).Error; err != nil {
		return nil, err
	}
	return &TruckPage{
		Trucks:     trucks,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: (int(total) + pageSize - 1) / pageSize, // Total pages
	}, nil
}

// ListCargo returns one page of cargo postings matching the filter, newest
// first. An out-of-range page yields an empty page, not an error.
func (s *Service) ListCargo(filter CargoFilter, page, pageSize int) (*CargoPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = BrowsePageSize
	}
	query := s.db.Model(&domain.Cargo{}) // Start building the query
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(origin) LIKE ? OR LOWER(destination) LIKE ?", like, like, like)
	}
	var total int64 // Total matching rows
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}
	var cargo []domain.Cargo // Page contents
	offset := (page - 1) * pageSize
	if err := query.Order("id desc").Offset(offset).Limit(pageSize).Find(&cargo).Error; err != nil {
		return nil, err
	}
	return &CargoPage{
		Cargo:      cargo,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: (int(total) + pageSize - 1) / pageSize, // Total pages
	}, nil
}
