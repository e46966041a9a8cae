package utilities

// Page is one slice of a materialized result set.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

// NormalizePage clamps caller-supplied page and size against a result set of
// length n. An absent or out-of-range size yields one page holding everything;
// an absent or out-of-range page falls back to the first page.
func NormalizePage(n int, page, size *int) (int, int) {
	if size == nil || *size < 1 || *size > n {
		return 1, n
	}
	pages := ceilDiv(n, *size)
	if page == nil || *page < 1 || *page > pages {
		return 1, *size
	}
	return *page, *size
}

// Paginate returns the given page of items. page and size are expected to
// come from NormalizePage.
func Paginate[T any](items []T, page, size int) Page[T] {
	p := Page[T]{Items: []T{}, Total: len(items), Page: page, Size: size}
	if size <= 0 {
		return p
	}
	p.Pages = ceilDiv(len(items), size)
	start := (page - 1) * size
	if start < 0 || start >= len(items) {
		return p
	}
	end := min(start+size, len(items))
	p.Items = items[start:end]
	return p
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
