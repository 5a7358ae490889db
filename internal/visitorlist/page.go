package visitorlist

import "github.com/diagnosis/visitor-portal/internal/domain"

const PageSize = 5

// Page is one window of a sorted collection. Number is 1-based.
type Page struct {
	Number     int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	TotalItems int              `json:"totalItems"`
	Items      []domain.Visitor `json:"items"`
}

// Paginate cuts the page-th window out of items. Out-of-range pages are
// clamped so navigation can never land past either end.
func Paginate(items []domain.Visitor, page int) Page {
	total := len(items)
	pages := (total + PageSize - 1) / PageSize

	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Number:     page,
		TotalPages: pages,
		TotalItems: total,
		Items:      items[start:end],
	}
}

func (p Page) HasPrev() bool {
	return p.Number > 1
}

func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// From is the 1-based position of the first item on the page, 0 when empty.
func (p Page) From() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.Number-1)*PageSize + 1
}

// To is the 1-based position of the last item on the page.
func (p Page) To() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.Number-1)*PageSize + len(p.Items)
}

// Numbers lists every page number for the pager.
func (p Page) Numbers() []int {
	nums := make([]int, p.TotalPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}
