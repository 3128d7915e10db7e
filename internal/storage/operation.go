package storage

import (
	"errors"
	"math"
	"time"
)

var ErrOperationNotFound = errors.New("operation not found")

// Orderings accepted by OperationQuery.
const (
	OrderByHot   = "hot"
	OrderByID    = "id"
	OrderByViews = "views"
)

// StoredOperation is a persisted canonical operation. Content is the wire
// JSON; the other text columns are copied out of it for search and listing.
type StoredOperation struct {
	ID              int64     `json:"id"`
	StageName       string    `json:"stage_name"`
	Title           string    `json:"title"`
	Details         string    `json:"details"`
	MinimumRequired string    `json:"minimum_required"`
	Content         string    `json:"content"`
	Uploader        string    `json:"uploader"`
	Views           int64     `json:"views"`
	HotScore        float64   `json:"hot_score"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type OperationQuery struct {
	Keyword string
	OrderBy string
	Page    int
	Limit   int
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
)

// Normalize clamps paging to sane bounds and defaults the ordering.
func (q OperationQuery) Normalize() OperationQuery {
	switch q.OrderBy {
	case OrderByHot, OrderByID, OrderByViews:
	default:
		q.OrderBy = OrderByHot
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	return q
}

func (q OperationQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// HotScore ranks an operation by views, decayed by age in hours.
func HotScore(views int64, createdAt, now time.Time) float64 {
	hours := now.Sub(createdAt).Hours()
	if hours < 0 {
		hours = 0
	}
	return float64(views) / math.Pow(hours+2, 1.5)
}
