package services

const DefaultPagingLimit = 24

type Pagination[T any] struct {
	Items      []T
	NextOffset int
	PrevOffset int
	NextPage   int
	PrevPage   int
	Page       int
}

// NewPagination cuts the page starting at offset out of all. Offsets past the
// end yield an empty last page.
func NewPagination[T any](offset, limit int, all []T) Pagination[T] {
	if limit <= 0 {
		limit = DefaultPagingLimit
	}
	offset = max(0, min(offset, len(all)))

	var pagination Pagination[T]
	items := all[offset:]
	pagination.Items = items[:min(len(items), limit)]
	pagination.Page = 1 + offset/limit

	if len(items) > limit {
		pagination.NextOffset = offset + limit
		pagination.NextPage = 1 + pagination.NextOffset/limit
	} else {
		pagination.NextOffset = -1
	}

	if offset > 0 {
		pagination.PrevOffset = max(offset-limit, 0)
		pagination.PrevPage = 1 + pagination.PrevOffset/limit
	} else {
		pagination.PrevOffset = -1
	}

	return pagination
}
