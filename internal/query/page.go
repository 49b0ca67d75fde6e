package query

import "github.com/jask/accountdeck/internal/database/repository"

// DefaultPageSize is the number of rows on one page.
const DefaultPageSize = 50

// maxPageButtons bounds the numbered navigation buttons.
const maxPageButtons = 5

// Page is one window of a view.
type Page struct {
	Items      []repository.Account
	Page       int // 1-based, already clamped
	TotalPages int // 0 for an empty view
	Total      int // rows in the whole view
	From       int // 1-based index of the first item, 0 when empty
	To         int // 1-based index of the last item, 0 when empty
}

// TotalPages returns ceil(n/size).
func TotalPages(n, size int) int {
	size = normSize(size)
	return (n + size - 1) / size
}

// ClampPage clamps page into [1, max(1, totalPages)].
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Paginate slices view into the requested page. The page is clamped first,
// so the returned window is always inside the view.
func Paginate(view []repository.Account, page, size int) Page {
	size = normSize(size)
	total := TotalPages(len(view), size)
	page = ClampPage(page, total)
	p := Page{Page: page, TotalPages: total, Total: len(view)}
	if len(view) == 0 {
		return p
	}
	start := (page - 1) * size
	end := min(start+size, len(view))
	p.Items = view[start:end:end]
	p.From, p.To = start+1, end
	return p
}

// PageButtons returns up to five page numbers for the navigation bar. Pages
// start at 1 until current passes 3 on a view with more than five pages;
// then the window centres on current without running past totalPages.
func PageButtons(current, totalPages int) []int {
	n := min(maxPageButtons, totalPages)
	if n <= 0 {
		return nil
	}
	start := 1
	if totalPages > maxPageButtons && current > 3 {
		start = max(1, min(current-2, totalPages-maxPageButtons+1))
	}
	out := make([]int, n)
	for i := range out {
		out[i] = start + i
	}
	return out
}

func normSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	return size
}
