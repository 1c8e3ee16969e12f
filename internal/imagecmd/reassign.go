package imagecmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/sku-images/internal/config"
	"github.com/lehigh-university-libraries/sku-images/internal/console"
	"github.com/lehigh-university-libraries/sku-images/internal/reconcile"
)

func executeReassign(cfg *config.Config, in io.Reader, out io.Writer) error {
	s, err := openSession(cfg)
	if err != nil {
		return err
	}

	files, err := s.listImages()
	if err != nil {
		return err
	}

	console.Title(out, "🔄 Reassign Orphaned Images")
	analysis := s.engine.Analyze(files)
	plan := s.engine.PlanReassignment(analysis)

	slog.Info("Orphans found", "count", len(analysis.Orphans()), "groups", len(plan.Groups))
	console.PrintReassignmentGroups(out, plan)

	if len(plan.Reassignments) == 0 {
		console.Warn(out, "No reassignments possible.")
		console.PrintFinalStats(out, s.imagedProducts(files), s.index.Len(), len(files))
		return nil
	}

	console.PrintReassignmentPlan(out, plan)

	if !cfg.AssumeYes {
		ok, err := console.Confirm(in, out, fmt.Sprintf("Proceed with reassigning %d images?", len(plan.Reassignments)))
		if err != nil {
			return err
		}
		if !ok {
			console.Warn(out, "❌ Operation cancelled")
			return nil
		}
	}

	slog.Info("Reassigning images", "count", len(plan.Reassignments))
	result := reconcile.Apply(s.store, plan.Reassignments)
	console.PrintApplyResult(out, result, "reassigned")

	files, err = s.listImages()
	if err != nil {
		return err
	}
	console.PrintFinalStats(out, s.imagedProducts(files), s.index.Len(), len(files))

	slog.Info("Reassignment complete", "applied", result.Applied, "skipped", result.Skipped, "failed", result.Failed)
	return nil
}
