package treatment

import (
	"time"

	"earcare-app-server/internal/models"

	"gorm.io/gorm"
)

// PerPage is the fixed page size for treatment listings.
const PerPage = 15

// ListFilter holds the optional, conjunctive filters of the list operation.
// Date bounds are inclusive and apply at calendar-day granularity.
type ListFilter struct {
	Status   *models.TreatmentStatus
	DateFrom *time.Time
	DateTo   *time.Time
	MineOnly bool
	Page     int
}

// Pagination describes the page window of a listing response.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

// apply adds the filter conditions on top of an already scoped query.
func (f ListFilter) apply(db *gorm.DB) *gorm.DB {
	if f.Status != nil {
		db = db.Where("status = ?", *f.Status)
	}
	if f.DateFrom != nil {
		db = db.Where("treatment_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		db = db.Where("treatment_date <= ?", *f.DateTo)
	}
	return db
}

// latest orders newest treatment first, ties broken by creation time.
func latest(db *gorm.DB) *gorm.DB {
	return db.Order("treatment_date DESC").Order("created_at DESC")
}

// page clamps the requested page and computes the matching pagination block.
func (f ListFilter) page(total int64) (current int, p Pagination) {
	current = f.Page
	if current < 1 {
		current = 1
	}
	totalPages := int((total + PerPage - 1) / PerPage)
	return current, Pagination{
		CurrentPage: current,
		TotalPages:  totalPages,
		PerPage:     PerPage,
		Total:       total,
	}
}
