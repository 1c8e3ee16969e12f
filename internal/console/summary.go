package console

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/lehigh-university-libraries/sku-images/internal/reconcile"
	"github.com/lehigh-university-libraries/sku-images/internal/records"
)

// PrintAnalysis prints the classification counts and the rename breakdown
func PrintAnalysis(w io.Writer, a reconcile.Analysis) error {
	fmt.Fprintln(w, "📊 Analysis Results:")
	rule(w)
	fmt.Fprintf(w, "✅ Already correct:        %d\n", len(a.ByRule(reconcile.RuleExact)))
	fmt.Fprintf(w, "🔄 Need renaming:          %d\n", len(a.Renames))
	fmt.Fprintf(w, "❌ Orphaned (no product):  %d\n", len(a.Orphans()))
	if len(a.Conflicts) > 0 {
		fmt.Fprintf(w, "⚠️  Rename conflicts:       %d\n", len(a.Conflicts))
	}
	rule(w)
	fmt.Fprintf(w, "📈 Total usable after fix: %d\n", a.Usable())
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🔄 Renames needed:")
	fmt.Fprintf(w, "  • Add prefix: %d images\n", len(a.RenamesByRule(reconcile.RuleAddPrefix)))
	fmt.Fprintf(w, "  • Fix prefix: %d images\n", len(a.RenamesByRule(reconcile.RuleFixPrefix)))
	fmt.Fprintln(w)

	if len(a.PrefixCorrections) > 0 {
		fmt.Fprintln(w, "  Prefix corrections:")
		table := tablewriter.NewTable(w)
		table.Header("From", "To", "Images")
		for _, pc := range a.PrefixCorrections {
			if err := table.Append(pc.From, pc.To, fmt.Sprintf("%d", pc.Count)); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	for _, c := range a.Conflicts {
		Warn(w, "⚠️  %s → %s left out: %s", c.Move.From, c.Move.To, c.Reason)
	}
	if ambiguous := a.Ambiguous(); len(ambiguous) > 0 {
		Warn(w, "⚠️  %d images matched more than one product:", len(ambiguous))
		for _, c := range ambiguous {
			fmt.Fprintf(w, "    %s → %s (candidates: %v)\n", c.Asset, c.Target, c.Candidates)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// PrintReassignmentGroups prints the orphan images per prefix and the
// products available in the mapped category
func PrintReassignmentGroups(w io.Writer, plan reconcile.ReassignmentPlan) {
	fmt.Fprintln(w, "📊 Orphaned Images by Category:")
	rule(w)
	for _, g := range plan.Groups {
		fmt.Fprintf(w, "%-10s : %d images → %s\n", g.Prefix, len(g.Orphans), g.Category)
		fmt.Fprintf(w, "%13s(%d products need images in this category)\n", "", g.Available)
	}
	fmt.Fprintln(w)

	for _, g := range plan.Groups {
		if g.NoProducts() {
			Warn(w, "⚠️  Warning: No products available in %s for %s images", g.Category, g.Prefix)
		}
	}
}

// PrintReassignmentPlan prints every planned reassignment
func PrintReassignmentPlan(w io.Writer, plan reconcile.ReassignmentPlan) {
	fmt.Fprintln(w, "📋 Reassignment Plan:")
	rule(w)
	for i, m := range plan.Reassignments {
		fmt.Fprintf(w, "%2d. %s\n", i+1, m.From)
		fmt.Fprintf(w, "    → %s\n", m.To)
		fmt.Fprintf(w, "    Product: %s\n", m.ProductName)
		fmt.Fprintln(w)
	}
	rule(w)
	fmt.Fprintf(w, "Total reassignments: %d\n", len(plan.Reassignments))
	fmt.Fprintln(w)
}

// PrintApplyResult prints one line per executed move and the totals
func PrintApplyResult(w io.Writer, result reconcile.ApplyResult, verb string) {
	for _, o := range result.Outcomes {
		switch o.Status {
		case reconcile.StatusApplied:
			Success(w, "✓ %s → %s", o.Move.From, o.Move.To)
		case reconcile.StatusSkipped:
			Warn(w, "⚠️  Skipping %s (%s)", o.Move.From, o.Error)
		case reconcile.StatusFailed:
			Error(w, "✗ Failed to rename %s: %s", o.Move.From, o.Error)
		}
	}

	fmt.Fprintln(w)
	doubleRule(w)
	Success(w, "✅ Successfully %s: %d", verb, result.Applied)
	if result.Skipped > 0 {
		Warn(w, "⚠️  Skipped: %d", result.Skipped)
	}
	if result.Failed > 0 {
		Error(w, "❌ Errors: %d", result.Failed)
	}
	doubleRule(w)
	fmt.Fprintln(w)
}

// PrintFinalStats prints how many products have an image after a run
func PrintFinalStats(w io.Writer, matched, products, images int) {
	fmt.Fprintln(w, "📈 Final Statistics:")
	fmt.Fprintf(w, "   Products with images: %d / %d\n", matched, products)
	fmt.Fprintf(w, "   Total images: %d\n", images)
	fmt.Fprintln(w)
}

// PrintMatching prints the image matching results before records are written
func PrintMatching(w io.Writer, gen *records.Generation) {
	fmt.Fprintln(w, "📊 Image Matching Results:")
	rule(w)
	fmt.Fprintf(w, "✅ Matched: %d images\n", len(gen.Matched))
	fmt.Fprintf(w, "❌ Unmatched: %d images\n", len(gen.Unmatched))
	if len(gen.Failed) > 0 {
		fmt.Fprintf(w, "✗ Unreadable: %d images\n", len(gen.Failed))
	}
	fmt.Fprintln(w)

	if len(gen.Unmatched) > 0 {
		Warn(w, "⚠️  Unmatched images (will be skipped):")
		for _, f := range gen.Unmatched {
			fmt.Fprintf(w, "   %s\n", f)
		}
		fmt.Fprintln(w)
	}
	for _, f := range gen.Failed {
		Error(w, "✗ %s: %s", f.File, f.Error)
	}
}

// PrintReplace prints the removed and written output documents
func PrintReplace(w io.Writer, result *records.ReplaceResult, total int) {
	if len(result.Deleted) > 0 {
		fmt.Fprintln(w, "Removed old image JSON files:")
		for _, name := range result.Deleted {
			fmt.Fprintf(w, "  Deleted: %s\n", name)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Wrote image JSON files:")
	for _, u := range result.Written {
		Success(w, "  ✓ %s (%d products)", u.Name, u.Records)
	}
	fmt.Fprintln(w)
	doubleRule(w)
	Success(w, "✅ Product images JSON files regenerated!")
	fmt.Fprintf(w, "   Total files: %d\n", len(result.Written))
	fmt.Fprintf(w, "   Total products with images: %d\n", total)
	fmt.Fprintln(w)
}
