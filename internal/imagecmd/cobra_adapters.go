package imagecmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lehigh-university-libraries/sku-images/internal/config"
)

// NewAnalyzeCmd creates the analyze command, a dry run of every step
func NewAnalyzeCmd(v *viper.Viper) *cobra.Command {
	var format string
	var planOut string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Show how images match the catalog without changing anything",
		Long: `Classify every image against the product catalog and preview the renames
and orphan reassignments the other commands would perform.

Each image is matched exactly, by adding a missing prefix, by correcting a
wrong prefix, or reported as an orphan.`,
		Example: `  # Text summary
  sku-images analyze

  # Machine readable report and a reviewable plan
  sku-images analyze --format json --plan-out plan.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "text", "json", "yaml", "csv":
			default:
				return fmt.Errorf("unsupported format: %s (use text, json, yaml or csv)", format)
			}

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return executeAnalyze(cfg, cmd.OutOrStdout(), format, planOut)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, yaml, csv)")
	cmd.Flags().StringVar(&planOut, "plan-out", "", "Write the planned renames and reassignments to this YAML file")

	return cmd
}

// NewFixNamesCmd creates the fix-names command
func NewFixNamesCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix-names",
		Short: "Rename images whose names are missing or have the wrong SKU prefix",
		Long: `Rename images so their names match a catalog SKU.

An image named with only the suffix of a SKU gets the prefix added; an image
whose suffix matches a SKU under a different prefix gets the prefix fixed.
Renames never overwrite an existing image.`,
		Example: `  sku-images fix-names
  sku-images fix-names --images ./media/images/products --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return executeFixNames(cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	return cmd
}

// NewReassignCmd creates the reassign command
func NewReassignCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reassign",
		Short: "Give orphaned images to products in the same category that lack one",
		Long: `Group orphaned images by SKU prefix, map each prefix to a catalog category,
and rename each orphan to a product in that category that has no image yet.

Each product receives at most one image. The prefix to category mapping comes
from the categories config key.`,
		Example: `  sku-images reassign
  sku-images reassign --config .sku-images.yaml --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return executeReassign(cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	return cmd
}

// NewGenerateCmd creates the generate command
func NewGenerateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Regenerate the product image import JSON files",
		Long: `Build one import record per image whose name is exactly a catalog SKU,
embedding the image as base64, and write them in batches to
<output>/<output-prefix>_<n>.json. Previous batch files are removed first.`,
		Example: `  sku-images generate
  sku-images generate --batch-size 10 --output ./out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return executeGenerate(cfg, cmd.OutOrStdout())
		},
	}

	return cmd
}
