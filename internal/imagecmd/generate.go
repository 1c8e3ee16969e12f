package imagecmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/lehigh-university-libraries/sku-images/internal/config"
	"github.com/lehigh-university-libraries/sku-images/internal/console"
	"github.com/lehigh-university-libraries/sku-images/internal/records"
)

func executeGenerate(cfg *config.Config, out io.Writer) error {
	s, err := openSession(cfg)
	if err != nil {
		return err
	}

	console.Title(out, "📦 Regenerate Product Images JSON")
	gen, err := records.Generate(s.index, s.store)
	if err != nil {
		return err
	}
	console.PrintMatching(out, gen)

	if len(gen.Records) == 0 {
		console.Warn(out, "⚠️  No images match a product; existing output will be cleared.")
	}

	batches := records.Batch(gen.Records, cfg.BatchSize)
	writer := records.NewWriter(cfg.OutputDir, cfg.OutputPrefix)
	slog.Info("Writing import documents", "dir", cfg.OutputDir, "records", len(gen.Records), "batches", len(batches))

	result, err := writer.Replace(batches)
	if err != nil {
		return fmt.Errorf("failed to write import documents: %w", err)
	}
	console.PrintReplace(out, result, len(gen.Records))

	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "   Import the %s_*.json files from %s into the storefront.\n", writer.Prefix, cfg.OutputDir)
	fmt.Fprintln(out)
	return nil
}
