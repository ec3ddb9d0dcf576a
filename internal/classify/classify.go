// Package classify derives the category views of the product set. All
// functions are pure: given the same set and reference date they return
// the same slices, which makes them trivial to freeze-time test.
package classify

import (
	"sort"

	"github.com/bjo163/expiryexpert/internal/domain"
)

// ExpiringSoon returns products whose expiry date falls in the same
// calendar month and year as ref, ascending by expiry date. Day-of-month
// ordering relative to ref is deliberately ignored: a product already
// past within the current month still shows up here.
func ExpiringSoon(set []domain.Product, ref domain.Date) []domain.Product {
	return sortByExpiry(filter(set, func(p domain.Product) bool {
		return p.ExpiryDate.SameMonth(ref)
	}))
}

// Expired returns products whose expiry date is strictly before ref,
// ascending by expiry date.
func Expired(set []domain.Product, ref domain.Date) []domain.Product {
	return sortByExpiry(filter(set, func(p domain.Product) bool {
		return p.ExpiryDate.Before(ref)
	}))
}

// ByCategory returns products whose stored category equals the label,
// ascending by expiry date. Derived labels resolve to an empty slice;
// callers reach those views through ExpiringSoon and Expired.
func ByCategory(set []domain.Product, category string) []domain.Product {
	if domain.IsDerivedCategory(category) {
		return []domain.Product{}
	}
	return sortByExpiry(filter(set, func(p domain.Product) bool {
		return p.Category == category
	}))
}

// View dispatches a category label, derived or stored, to its filter.
func View(set []domain.Product, label string, ref domain.Date) []domain.Product {
	switch label {
	case domain.CategoryExpiringSoon:
		return ExpiringSoon(set, ref)
	case domain.CategoryExpired:
		return Expired(set, ref)
	default:
		return ByCategory(set, label)
	}
}

// StatusOf reports whether the product is past its expiry date.
func StatusOf(p domain.Product, ref domain.Date) domain.Status {
	if p.ExpiryDate.Before(ref) {
		return domain.StatusExpired
	}
	return domain.StatusNotExpired
}

// WithStatus decorates each product with its derived status.
func WithStatus(set []domain.Product, ref domain.Date) []domain.ProductStatus {
	out := make([]domain.ProductStatus, 0, len(set))
	for _, p := range set {
		out = append(out, domain.ProductStatus{Product: p, Status: StatusOf(p, ref)})
	}
	return out
}

func filter(set []domain.Product, keep func(domain.Product) bool) []domain.Product {
	out := make([]domain.Product, 0, len(set))
	for _, p := range set {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// sortByExpiry orders ascending by expiry date; equal dates keep their
// insertion order.
func sortByExpiry(set []domain.Product) []domain.Product {
	sort.SliceStable(set, func(i, j int) bool {
		return set[i].ExpiryDate.Before(set[j].ExpiryDate)
	})
	return set
}
