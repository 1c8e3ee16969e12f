package imagecmd

import (
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/sku-images/internal/config"
)

func executeAnalyze(cfg *config.Config, out io.Writer, format, planOut string) error {
	s, err := openSession(cfg)
	if err != nil {
		return err
	}

	files, err := s.listImages()
	if err != nil {
		return err
	}

	analysis := s.engine.Analyze(files)
	report := AnalyzeReport{
		Products:     s.index.Len(),
		Images:       len(files),
		Analysis:     analysis,
		Reassignment: s.engine.PlanReassignment(analysis),
	}

	if planOut != "" {
		if err := writePlan(planOut, report); err != nil {
			return err
		}
		slog.Info("Plan written", "path", planOut, "renames", len(report.Analysis.Renames), "reassignments", len(report.Reassignment.Reassignments))
	}

	return printReport(out, report, format)
}
