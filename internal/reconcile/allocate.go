package reconcile

import (
	"github.com/lehigh-university-libraries/sku-images/internal/catalog"
	"github.com/lehigh-university-libraries/sku-images/internal/sku"
)

// CategoryMap maps an identifier prefix to the catalog category its orphan
// images may be reassigned within
type CategoryMap map[string]string

// DefaultCategories is the BuildRight catalog mapping
func DefaultCategories() CategoryMap {
	return CategoryMap{
		"WINDOW":  "BuildRight Catalog/Windows & Doors",
		"DOOR":    "BuildRight Catalog/Windows & Doors",
		"DRYWALL": "BuildRight Catalog/Drywall & Supplies",
		"LBR":     "BuildRight Catalog/Structural Materials",
		"STUD":    "BuildRight Catalog/Structural Materials",
		"PLY":     "BuildRight Catalog/Structural Materials",
		"INSUL":   "BuildRight Catalog/Structural Materials",
	}
}

// Group summarizes the orphan images sharing one prefix
type Group struct {
	Prefix    string   `json:"prefix" yaml:"prefix"`
	Category  string   `json:"category" yaml:"category"`
	Orphans   []string `json:"orphans" yaml:"orphans"`
	Available int      `json:"available" yaml:"available"`
	Assigned  int      `json:"assigned" yaml:"assigned"`
}

// NoProducts reports whether the group's category had no product left to take an image
func (g Group) NoProducts() bool {
	return g.Available == 0
}

// ReassignmentPlan pairs orphan images with products lacking an image. Each
// asset and each product appears at most once.
type ReassignmentPlan struct {
	Reassignments []Move  `json:"reassignments" yaml:"reassignments"`
	Groups        []Group `json:"groups" yaml:"groups"`
}

// Allocate pairs orphan images with products one-to-one. Orphans are grouped
// by prefix in first-seen order; only identifiers with a suffix segment and a
// prefix present in categories take part. Within a group, orphan i gets the
// i-th product of the category's needing list that no earlier group took.
// Surplus orphans stay unassigned.
func Allocate(orphans []Classification, categories CategoryMap, needing map[string][]catalog.Product, naming Naming) ReassignmentPlan {
	var plan ReassignmentPlan

	groupIndex := make(map[string]int)
	for _, o := range orphans {
		id := sku.Parse(o.Candidate)
		if !id.HasSuffix() {
			continue
		}
		category, ok := categories[id.Prefix]
		if !ok {
			continue
		}
		i, seen := groupIndex[id.Prefix]
		if !seen {
			i = len(plan.Groups)
			groupIndex[id.Prefix] = i
			plan.Groups = append(plan.Groups, Group{Prefix: id.Prefix, Category: category})
		}
		plan.Groups[i].Orphans = append(plan.Groups[i].Orphans, o.Asset)
	}

	taken := make(map[string]bool)
	for i := range plan.Groups {
		g := &plan.Groups[i]

		var available []catalog.Product
		for _, p := range needing[g.Category] {
			if !taken[p.SKU] {
				available = append(available, p)
			}
		}
		g.Available = len(available)

		for j, asset := range g.Orphans {
			if j >= len(available) {
				break
			}
			p := available[j]
			taken[p.SKU] = true
			g.Assigned++
			plan.Reassignments = append(plan.Reassignments, Move{
				From:        asset,
				To:          naming.FileName(p.SKU),
				Target:      p.SKU,
				Reason:      RuleReassign,
				Category:    g.Category,
				ProductName: p.Name,
			})
		}
	}

	return plan
}

// PlanReassignment allocates the analysis's orphans to products in their
// mapped category that have no image, counting pending renames as imaged
func (e *Engine) PlanReassignment(a Analysis) ReassignmentPlan {
	imaged := a.Imaged()

	needing := make(map[string][]catalog.Product)
	for _, category := range e.categories {
		if _, done := needing[category]; done {
			continue
		}
		needing[category] = e.index.NeedingImage(category, imaged)
	}

	return Allocate(a.Orphans(), e.categories, needing, e.naming)
}
