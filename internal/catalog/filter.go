// Package catalog holds the storefront's pure catalog logic: filtering and
// sorting listings, the compare list, the CSV codec and dashboard numbers.
package catalog

import (
	"math"
	"sort"
	"strings"

	"ougadgets/internal/model"
)

// SortBy names an ordering of the catalog.
type SortBy string

const (
	SortNewest    SortBy = "newest"
	SortPriceAsc  SortBy = "price_asc"
	SortPriceDesc SortBy = "price_desc"
)

// AllBrands is the brand wildcard.
const AllBrands = "all"

// DefaultMaxPrice is the price slider's initial upper bound.
const DefaultMaxPrice = 1_000_000

// NoPriceCap disables the price filter.
const NoPriceCap = math.MaxInt

// FilterState is the catalog page's filter bar.
type FilterState struct {
	Search   string
	Brand    string
	MinRAM   int
	MaxPrice int
	SortBy   SortBy
}

// DefaultFilterState is the filter bar before the user touches it.
func DefaultFilterState() FilterState {
	return FilterState{
		Brand:    AllBrands,
		MaxPrice: DefaultMaxPrice,
		SortBy:   SortNewest,
	}
}

// ParseSortBy maps free text onto a SortBy. Unknown values sort newest first.
func ParseSortBy(s string) SortBy {
	switch SortBy(s) {
	case SortPriceAsc, SortPriceDesc:
		return SortBy(s)
	}
	return SortNewest
}

// Apply filters and sorts phones. The input slice is never modified and the
// result is a fresh, non-nil slice.
func Apply(phones []model.Phone, f FilterState) []model.Phone {
	search := strings.ToLower(f.Search)
	out := make([]model.Phone, 0, len(phones))

	for _, p := range phones {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Brand), search) {
			continue
		}
		if f.Brand != "" && f.Brand != AllBrands && p.Brand != f.Brand {
			continue
		}
		if f.MinRAM > 0 && p.RAM < f.MinRAM {
			continue
		}
		if p.OUPrice > f.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	switch ParseSortBy(string(f.SortBy)) {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].OUPrice < out[j].OUPrice })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].OUPrice > out[j].OUPrice })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].AddedDate.After(out[j].AddedDate) })
	}
	return out
}

// Brands lists distinct brands in first-seen order.
func Brands(phones []model.Phone) []string {
	seen := make(map[string]struct{}, len(phones))
	brands := []string{}
	for _, p := range phones {
		if _, ok := seen[p.Brand]; ok {
			continue
		}
		seen[p.Brand] = struct{}{}
		brands = append(brands, p.Brand)
	}
	return brands
}

// MaxOUPrice is the highest ouPrice in phones, or 0 for an empty catalog.
func MaxOUPrice(phones []model.Phone) int {
	max := 0
	for _, p := range phones {
		if p.OUPrice > max {
			max = p.OUPrice
		}
	}
	return max
}

// Similar returns up to limit other phones of the same brand.
func Similar(phones []model.Phone, phone model.Phone, limit int) []model.Phone {
	out := []model.Phone{}
	for _, p := range phones {
		if len(out) >= limit {
			break
		}
		if p.Brand == phone.Brand && p.ID != phone.ID {
			out = append(out, p)
		}
	}
	return out
}

// Featured returns the first n phones.
func Featured(phones []model.Phone, n int) []model.Phone {
	if n > len(phones) {
		n = len(phones)
	}
	if n < 0 {
		n = 0
	}
	return append([]model.Phone{}, phones[:n]...)
}
