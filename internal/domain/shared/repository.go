package shared

// Filter describes common listing options
type Filter struct {
	Offset  int
	Limit   int
	OrderBy string
}

// Normalize clamps pagination values to usable ranges
func (f Filter) Normalize() Filter {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 200 {
		f.Limit = 200
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// Paginated wraps a page of results with the total count
type Paginated[T any] struct {
	Items []T
	Total int64
}
