package catalog

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/sku-images/internal/sku"
)

// Index is a read-only lookup structure over the catalog. It must be rebuilt
// if the product set changes.
type Index struct {
	products []Product
	bySKU    map[string]int
	// bySuffix lists product positions per suffix key, in catalog order
	bySuffix map[string][]int
}

// NewIndex builds the lookup structures for a product set
func NewIndex(products []Product) *Index {
	idx := &Index{
		products: products,
		bySKU:    make(map[string]int, len(products)),
		bySuffix: make(map[string][]int),
	}

	for i, p := range products {
		idx.bySKU[p.SKU] = i
		if key, ok := sku.Parse(p.SKU).SuffixKey(); ok {
			idx.bySuffix[key] = append(idx.bySuffix[key], i)
		}
	}

	return idx
}

// Len returns the number of products in the index
func (idx *Index) Len() int {
	return len(idx.products)
}

// Products returns the products in catalog order
func (idx *Index) Products() []Product {
	return idx.products
}

// Lookup finds a product by its exact identifier
func (idx *Index) Lookup(id string) (Product, bool) {
	i, ok := idx.bySKU[id]
	if !ok {
		return Product{}, false
	}
	return idx.products[i], true
}

// SuffixIndex returns the suffix key to identifier map. When several products
// share a suffix the last one in catalog order wins.
func (idx *Index) SuffixIndex() map[string]string {
	out := make(map[string]string, len(idx.bySuffix))
	for key, positions := range idx.bySuffix {
		out[key] = idx.products[positions[len(positions)-1]].SKU
	}
	return out
}

// SuffixMatches returns every product whose suffix key equals key, in catalog order
func (idx *Index) SuffixMatches(key string) []Product {
	positions := idx.bySuffix[key]
	out := make([]Product, 0, len(positions))
	for _, i := range positions {
		out = append(out, idx.products[i])
	}
	return out
}

// EndingWith returns every product whose full identifier ends with candidate,
// in catalog order. This is a plain string suffix check, not a suffix-key lookup.
func (idx *Index) EndingWith(candidate string) []Product {
	var out []Product
	for _, p := range idx.products {
		if strings.HasSuffix(p.SKU, candidate) {
			out = append(out, p)
		}
	}
	return out
}

// NeedingImage returns the products in category whose identifier is not in
// imaged, in catalog order. Products without a category never need one.
func (idx *Index) NeedingImage(category string, imaged map[string]bool) []Product {
	var out []Product
	for _, p := range idx.products {
		if p.HasCategory() && p.Category == category && !imaged[p.SKU] {
			out = append(out, p)
		}
	}
	return out
}

// TieBreak decides which product wins when several satisfy the same rule
type TieBreak string

const (
	// TieBreakCatalog follows catalog order: the first match for prefix
	// completion and the last one for suffix-key collisions
	TieBreakCatalog TieBreak = "catalog"
	// TieBreakShortest picks the shortest identifier, then catalog order
	TieBreakShortest TieBreak = "shortest"
	// TieBreakLexical picks the lexicographically smallest identifier
	TieBreakLexical TieBreak = "lexical"
)

// ParseTieBreak validates a tie-break policy name. Empty means catalog order.
func ParseTieBreak(s string) (TieBreak, error) {
	switch tb := TieBreak(strings.ToLower(strings.TrimSpace(s))); tb {
	case "":
		return TieBreakCatalog, nil
	case TieBreakCatalog, TieBreakShortest, TieBreakLexical:
		return tb, nil
	default:
		return "", fmt.Errorf("unknown tie-break policy: %s (supported: catalog, shortest, lexical)", s)
	}
}

// Pick chooses one product among candidates given in catalog order.
// lastWins selects the last candidate under the catalog policy.
func (tb TieBreak) Pick(candidates []Product, lastWins bool) (Product, bool) {
	if len(candidates) == 0 {
		return Product{}, false
	}

	switch tb {
	case TieBreakShortest:
		best := candidates[0]
		for _, c := range candidates[1:] {
			if len(c.SKU) < len(best.SKU) {
				best = c
			}
		}
		return best, true
	case TieBreakLexical:
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.SKU < best.SKU {
				best = c
			}
		}
		return best, true
	default:
		if lastWins {
			return candidates[len(candidates)-1], true
		}
		return candidates[0], true
	}
}
