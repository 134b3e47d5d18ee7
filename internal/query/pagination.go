package query

import "strings"

const (
	DefaultPage      = 1
	DefaultLimit     = 10
	DefaultMaxLimit  = 100
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = "desc"
)

// PaginationOptions carries raw paging and sorting input.
type PaginationOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Pagination is the normalised form of PaginationOptions.
type Pagination struct {
	Page  int
	Limit int
	Skip  int
	Order OrderBy
}

// OrderBy is a resolved sort column and direction.
type OrderBy struct {
	Column string
	Desc   bool
}

// Paginator normalises pagination options against configured limits.
type Paginator struct {
	DefaultLimit int
	MaxLimit     int
}

// NewPaginator builds a Paginator, falling back to package defaults for non-positive limits.
func NewPaginator(defaultLimit, maxLimit int) Paginator {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = DefaultMaxLimit
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return Paginator{DefaultLimit: defaultLimit, MaxLimit: maxLimit}
}

// Calculate applies defaults and computes skip as (page-1)*limit.
func (p Paginator) Calculate(opts PaginationOptions) Pagination {
	page := opts.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = p.DefaultLimit
	}
	if p.MaxLimit > 0 && limit > p.MaxLimit {
		limit = p.MaxLimit
	}

	return Pagination{
		Page:  page,
		Limit: limit,
		Skip:  (page - 1) * limit,
		Order: StudentOrder(opts),
	}
}

var studentSortColumns = map[string]string{
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
	"studentId":  "student_id",
	"firstName":  "first_name",
	"lastName":   "last_name",
	"middleName": "middle_name",
	"email":      "email",
	"contactNo":  "contact_no",
	"gender":     "gender",
	"bloodGroup": "blood_group",
}

// StudentOrder resolves the requested sort. The requested field and direction
// are honoured only when both were supplied and are recognised; otherwise
// students are ordered by creation time, newest first.
func StudentOrder(opts PaginationOptions) OrderBy {
	fallback := OrderBy{Column: studentSortColumns[DefaultSortBy], Desc: DefaultSortOrder == "desc"}

	sortBy := strings.TrimSpace(opts.SortBy)
	sortOrder := strings.ToLower(strings.TrimSpace(opts.SortOrder))
	if sortBy == "" || sortOrder == "" {
		return fallback
	}
	column, ok := studentSortColumns[sortBy]
	if !ok {
		return fallback
	}
	switch sortOrder {
	case "asc":
		return OrderBy{Column: column}
	case "desc":
		return OrderBy{Column: column, Desc: true}
	default:
		return fallback
	}
}
