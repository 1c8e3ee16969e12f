package imagecmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/sku-images/internal/console"
	"github.com/lehigh-university-libraries/sku-images/internal/reconcile"
)

// AnalyzeReport is everything a dry run found
type AnalyzeReport struct {
	Products     int                        `json:"products" yaml:"products"`
	Images       int                        `json:"images" yaml:"images"`
	Analysis     reconcile.Analysis         `json:"analysis" yaml:"analysis"`
	Reassignment reconcile.ReassignmentPlan `json:"reassignment" yaml:"reassignment"`
}

func printReport(w io.Writer, report AnalyzeReport, format string) error {
	switch format {
	case "text":
		return printTextReport(w, report)
	case "json":
		return printJSONReport(w, report)
	case "yaml":
		return printYAMLReport(w, report)
	case "csv":
		return printCSVReport(w, report)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printTextReport(w io.Writer, report AnalyzeReport) error {
	console.Title(w, "🔍 SKU Image Analysis (dry run)")
	fmt.Fprintf(w, "Products in catalog: %d\n", report.Products)
	fmt.Fprintf(w, "Images in directory: %d\n", report.Images)
	fmt.Fprintln(w)

	if err := console.PrintAnalysis(w, report.Analysis); err != nil {
		return err
	}
	if len(report.Reassignment.Groups) > 0 {
		console.PrintReassignmentGroups(w, report.Reassignment)
	}
	if len(report.Reassignment.Reassignments) > 0 {
		console.PrintReassignmentPlan(w, report.Reassignment)
	}
	return nil
}

func printJSONReport(w io.Writer, report AnalyzeReport) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func printYAMLReport(w io.Writer, report AnalyzeReport) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(report); err != nil {
		return err
	}
	return encoder.Close()
}

// printCSVReport writes one row per image with its rule and planned move
func printCSVReport(w io.Writer, report AnalyzeReport) error {
	writer := csv.NewWriter(w)

	moves := make(map[string]reconcile.Move)
	for _, m := range report.Analysis.Renames {
		moves[m.From] = m
	}
	for _, m := range report.Reassignment.Reassignments {
		moves[m.From] = m
	}
	conflicts := make(map[string]string)
	for _, c := range report.Analysis.Conflicts {
		conflicts[c.Move.From] = c.Reason
	}

	header := []string{"Image", "Rule", "Target", "Candidates", "Rename To", "Action", "Conflict"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, c := range report.Analysis.Classifications {
		m := moves[c.Asset]
		row := []string{
			c.Asset,
			string(c.Rule),
			c.Target,
			strings.Join(c.Candidates, " "),
			m.To,
			string(m.Reason),
			conflicts[c.Asset],
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// writePlan saves the planned moves as YAML so they can be reviewed before a run
func writePlan(path string, report AnalyzeReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plan file: %w", err)
	}
	defer f.Close()

	plan := struct {
		Renames       []reconcile.Move     `yaml:"renames"`
		Conflicts     []reconcile.Conflict `yaml:"conflicts,omitempty"`
		Reassignments []reconcile.Move     `yaml:"reassignments"`
	}{
		Renames:       report.Analysis.Renames,
		Conflicts:     report.Analysis.Conflicts,
		Reassignments: report.Reassignment.Reassignments,
	}

	encoder := yaml.NewEncoder(f)
	encoder.SetIndent(2)
	if err := encoder.Encode(plan); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	return nil
}
