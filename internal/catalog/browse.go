package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/careplus/pharmacy-api/internal/model"
)

// Browsing is a pure recompute over the full catalog: filter, then sort,
// then paginate. No incremental indexing.

const PageSize = 12

const maxVisiblePages = 5

// Query combines the filter groups with AND semantics across groups and OR
// within a group. Empty groups match everything.
type Query struct {
	Categories   []string
	Brands       []string
	MaxPrice     *decimal.Decimal
	Prescription []string // "prescription" and/or "otc"
	Search       string
	Sort         string // "name", "name-desc", "price", "price-desc", "popularity"
	Page         int    // 1-indexed
}

type Result struct {
	Products   []model.Product `json:"products"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	PageWindow []int           `json:"page_window"`
}

func Filter(products []model.Product, q Query) []model.Product {
	out := make([]model.Product, 0, len(products))
	search := strings.ToLower(strings.TrimSpace(q.Search))

	for _, p := range products {
		if len(q.Categories) > 0 && !containsFold(q.Categories, p.Category) {
			continue
		}
		if len(q.Brands) > 0 && !containsFold(q.Brands, p.Brand) {
			continue
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		if len(q.Prescription) > 0 && !matchesPrescription(q.Prescription, p.Prescription) {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}

func matchesPrescription(selected []string, isPrescription bool) bool {
	for _, s := range selected {
		if s == "prescription" && isPrescription {
			return true
		}
		if s == "otc" && !isPrescription {
			return true
		}
	}
	return false
}

func matchesSearch(p model.Product, search string) bool {
	if strings.Contains(strings.ToLower(p.Title), search) ||
		strings.Contains(strings.ToLower(p.Brand), search) ||
		strings.Contains(strings.ToLower(p.Category), search) ||
		strings.Contains(strings.ToLower(p.Description), search) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

// Sort orders products in place. Unknown keys leave the order untouched.
func Sort(products []model.Product, key string) {
	switch key {
	case "name":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Title < products[j].Title })
	case "name-desc":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Title > products[j].Title })
	case "price":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price.LessThan(products[j].Price) })
	case "price-desc":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price.GreaterThan(products[j].Price) })
	case "popularity":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Reviews > products[j].Reviews })
	}
}

// Paginate slices out the requested 1-indexed page and reports the total
// page count. Out-of-range pages yield an empty slice, never an error.
func Paginate(products []model.Product, page int) ([]model.Product, int) {
	totalPages := (len(products) + PageSize - 1) / PageSize
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(products) {
		return []model.Product{}, totalPages
	}
	end := start + PageSize
	if end > len(products) {
		end = len(products)
	}
	return products[start:end], totalPages
}

// PageWindow returns the sliding window of page-number buttons centered on
// the current page. Pages outside 1..totalPages are never included.
func PageWindow(current, totalPages int) []int {
	if totalPages < 1 {
		return nil
	}
	start := current - maxVisiblePages/2
	if start < 1 {
		start = 1
	}
	end := start + maxVisiblePages - 1
	if end > totalPages {
		end = totalPages
		if end-maxVisiblePages+1 > 0 {
			start = end - maxVisiblePages + 1
		} else {
			start = 1
		}
	}
	window := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		window = append(window, i)
	}
	return window
}

// Brands lists the distinct brands present in the catalog, sorted.
func Brands(products []model.Product) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range products {
		if !seen[p.Brand] {
			seen[p.Brand] = true
			out = append(out, p.Brand)
		}
	}
	sort.Strings(out)
	return out
}
