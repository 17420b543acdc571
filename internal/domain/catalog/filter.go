package catalog

import "strings"

// Query narrows a product collection for display
type Query struct {
	// Text is matched case-insensitively as a substring of the title
	Text string `json:"q" form:"q"`
	// Category must equal the product category exactly; empty matches all
	Category string `json:"category" form:"category"`
}

// IsEmpty reports whether the query matches everything
func (q Query) IsEmpty() bool {
	return q.Text == "" && q.Category == ""
}

// Filter returns the products matching q, preserving input order.
// The input slice is never modified.
func Filter(products []Product, q Query) []Product {
	needle := strings.ToLower(q.Text)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}
