package paging

// Params is the normalized page/limit/sort triple shared by every list
// endpoint. SortBy has already been checked against the endpoint's allow-list
// by the time a Params reaches a repo.
type Params struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// OrderClause renders a safe ORDER BY fragment. SortBy must come from an
// allow-list; SortOrder is forced to asc/desc.
func (p Params) OrderClause() string {
	dir := "asc"
	if p.SortOrder == "desc" {
		dir = "desc"
	}
	return p.SortBy + " " + dir
}

// Normalize clamps page/limit and falls back to the given defaults when the
// requested sort column is not allowed.
func Normalize(p Params, defaultSort string, allowed []string) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	ok := false
	for _, col := range allowed {
		if p.SortBy == col {
			ok = true
			break
		}
	}
	if !ok {
		p.SortBy = defaultSort
	}
	if p.SortOrder != "asc" && p.SortOrder != "desc" {
		p.SortOrder = "desc"
	}
	return p
}

// Pagination is the page descriptor embedded in every list response.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	TotalItems int64 `json:"totalItems"`
}

// Paged is the `{data, pagination}` list page shape.
type Paged[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func NewPaged[T any](items []T, p Params, total int64) *Paged[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return &Paged[T]{
		Data: items,
		Pagination: Pagination{
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: totalPages,
			TotalItems: total,
		},
	}
}
