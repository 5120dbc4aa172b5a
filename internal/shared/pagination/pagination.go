package pagination

import (
	"math"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DefaultPage     = 1
	DefaultLimit    = 10
	DefaultMinLimit = 1
	DefaultMaxLimit = 100

	// MaxPage keeps (page-1)*limit far from integer overflow
	MaxPage = math.MaxInt32
)

// Bounds configures the accepted limit range and its default
type Bounds struct {
	DefaultLimit int
	MinLimit     int
	MaxLimit     int
}

func DefaultBounds() Bounds {
	return Bounds{
		DefaultLimit: DefaultLimit,
		MinLimit:     DefaultMinLimit,
		MaxLimit:     DefaultMaxLimit,
	}
}

// Params is the normalized page request handed to repositories
type Params struct {
	Page  int
	Limit int
	Skip  int
}

// Meta is the pagination block of every list response
type Meta struct {
	Total           int64 `json:"total"`
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// Page is a list response: {"data": [...], "meta": {...}}
type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// Calculate converts page/limit into skip/limit.
// Page is clamped to [1, MaxPage] and limit floored at 1; range checks
// with client-facing messages belong to Query.Validate.
func Calculate(page, limit int) Params {
	page = min(max(1, page), MaxPage)
	limit = max(1, limit)

	return Params{
		Page:  page,
		Limit: limit,
		Skip:  (page - 1) * limit,
	}
}

// NewMeta computes totals and navigation flags for a page
func NewMeta(total int64, page, limit int) Meta {
	limit = max(1, limit)

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if total <= 0 {
		totalPages = 0
	}

	return Meta{
		Total:           total,
		Page:            page,
		Limit:           limit,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// NewPage wraps items with their metadata; Data is never null
func NewPage[T any](items []T, total int64, params Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Data: items,
		Meta: NewMeta(total, params.Page, params.Limit),
	}
}

// MapPage converts the items of a page, keeping the metadata
func MapPage[T, R any](p Page[T], fn func(T) R) Page[R] {
	out := make([]R, len(p.Data))
	for i, item := range p.Data {
		out[i] = fn(item)
	}
	return Page[R]{Data: out, Meta: p.Meta}
}

// ════════════════════════════════════════════════════════════════
// QUERY STRING
// ════════════════════════════════════════════════════════════════

// Query holds raw page/limit values from the query string.
// Raw strings are kept so non-numeric input fails validation instead
// of silently falling back to defaults.
type Query struct {
	PageRaw  string `json:"page"`
	LimitRaw string `json:"limit"`
	bounds   Bounds
}

// NewQuery builds a Query checked against the given bounds
func NewQuery(page, limit string, bounds Bounds) Query {
	return Query{PageRaw: page, LimitRaw: limit, bounds: bounds}
}

func (q Query) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.PageRaw,
			validation.By(intRule(
				"must be an integer between 1 and "+strconv.Itoa(MaxPage),
				1, MaxPage,
			)),
		),
		validation.Field(&q.LimitRaw,
			validation.By(intRule(
				"must be an integer between "+strconv.Itoa(q.bounds.MinLimit)+" and "+strconv.Itoa(q.bounds.MaxLimit),
				q.bounds.MinLimit, q.bounds.MaxLimit,
			)),
		),
	)
}

// Params returns the validated page request. Call Validate first.
func (q Query) Params() Params {
	page := DefaultPage
	if n, err := strconv.Atoi(q.PageRaw); err == nil {
		page = n
	}

	limit := q.bounds.DefaultLimit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if n, err := strconv.Atoi(q.LimitRaw); err == nil {
		limit = n
	}

	return Calculate(page, limit)
}

// intRule accepts an empty value or an integer within [lo, hi]; hi <= 0 means unbounded
func intRule(message string, lo, hi int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < lo || (hi > 0 && n > hi) {
			return validation.NewError("validation_pagination_range", message)
		}
		return nil
	}
}
