package search

// PageSize is the fixed number of products per search page
const PageSize = 2

// PageCount returns ceil(total / size)
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Offset returns the index of the first item on a 1-indexed page
func Offset(page, size int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * size
}

// Window returns the half-open [start, end) bounds of a page within total
// items. Pages past the end yield an empty window.
func Window(total, page, size int) (start, end int) {
	start = Offset(page, size)
	if start > total {
		start = total
	}
	end = start + size
	if end > total {
		end = total
	}
	return start, end
}
