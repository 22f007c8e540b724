package report

// PageWindow selects a fixed-size slice of a filtered collection.
type PageWindow struct {
	PageSize   int
	PageNumber int
}

// Page is one window over a filtered collection.
type Page[T any] struct {
	Items      []T
	PageNumber int
	TotalPages int
	Total      int
}

// Paginate clamps the window against the filtered size and slices it out.
// The page number is clamped into [1, max(1, ceil(n/size))] before slicing,
// so shrinking the filter while on a late page silently drops back instead of
// erroring. Pure and idempotent; callers store the returned PageNumber back.
func Paginate[T any](filtered []T, w PageWindow) Page[T] {
	size := w.PageSize
	if size < 1 {
		size = 1
	}

	total := len(filtered)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	page := w.PageNumber
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      filtered[start:end],
		PageNumber: page,
		TotalPages: totalPages,
		Total:      total,
	}
}
