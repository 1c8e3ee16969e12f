package imagecmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/sku-images/internal/config"
	"github.com/lehigh-university-libraries/sku-images/internal/console"
	"github.com/lehigh-university-libraries/sku-images/internal/reconcile"
)

func executeFixNames(cfg *config.Config, in io.Reader, out io.Writer) error {
	s, err := openSession(cfg)
	if err != nil {
		return err
	}

	files, err := s.listImages()
	if err != nil {
		return err
	}

	console.Title(out, "🔧 Fix Image Names")
	analysis := s.engine.Analyze(files)
	if err := console.PrintAnalysis(out, analysis); err != nil {
		return err
	}

	if len(analysis.Renames) == 0 {
		console.Success(out, "✅ All images are correctly named!")
		printOrphanNotice(out, analysis)
		return nil
	}

	if !cfg.AssumeYes {
		ok, err := console.Confirm(in, out, fmt.Sprintf("Proceed with renaming %d images?", len(analysis.Renames)))
		if err != nil {
			return err
		}
		if !ok {
			console.Warn(out, "❌ Operation cancelled")
			return nil
		}
	}

	slog.Info("Renaming images", "count", len(analysis.Renames))
	result := reconcile.Apply(s.store, analysis.Renames)
	console.PrintApplyResult(out, result, "renamed")
	printOrphanNotice(out, analysis)

	slog.Info("Rename complete", "applied", result.Applied, "skipped", result.Skipped, "failed", result.Failed)
	return nil
}

func printOrphanNotice(w io.Writer, analysis reconcile.Analysis) {
	orphans := analysis.Orphans()
	if len(orphans) == 0 {
		return
	}
	console.Warn(w, "⚠️  %d orphaned images have no matching product:", len(orphans))
	for _, c := range orphans {
		fmt.Fprintf(w, "   %s\n", c.Asset)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'sku-images reassign' to give them to products without an image.")
	fmt.Fprintln(w)
}
