// Package orm holds query helpers shared by the repositories.
package orm

import (
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/wardrobe/pkg/metrics"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Normalize clamps page to >= 1 and limit to [1, MaxLimit], applying defaults
// for non-positive input.
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// NewPagination computes TotalPages = ceil(total/limit).
func NewPagination(page, limit int, total int64) Pagination {
	page, limit = Normalize(page, limit)
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}
}

// Offset is the number of rows to skip for the page.
func (p Pagination) Offset() int { return (p.Page - 1) * p.Limit }

// Paginate counts the rows matched by q, then loads one page into dest.
// Ordering and preloads go in scopes so they do not leak into the count.
func Paginate(q *gorm.DB, page, limit int, dest interface{}, scopes ...func(*gorm.DB) *gorm.DB) (Pagination, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	base := q.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	p := NewPagination(page, limit, total)
	if total == 0 {
		return p, nil
	}

	err := base.Scopes(scopes...).Offset(p.Offset()).Limit(p.Limit).Find(dest).Error
	return p, err
}
