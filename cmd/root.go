package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lehigh-university-libraries/sku-images/internal/config"
	"github.com/lehigh-university-libraries/sku-images/internal/imagecmd"
)

func NewRootCmd() *cobra.Command {
	v := config.New()

	cmd := &cobra.Command{
		Use:   "sku-images",
		Short: "Reconcile product images with the catalog and build import files",
		Long: `sku-images matches product image files to catalog SKUs.

It renames images whose names are missing or carry the wrong SKU prefix,
gives orphaned images to products in the same category that lack one, and
regenerates the batched product image JSON used for catalog import.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env files if present (ignore errors)
			config.LoadEnvFiles()

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: cfg.LogLevel,
			})))
			if cfg.ConfigFile != "" {
				slog.Debug("Using config file", "path", cfg.ConfigFile)
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "Config file (default .sku-images.yaml in the working or home directory)")
	flags.String("catalog", config.DefaultCatalogPath, "Catalog file (.json, .jsonl or .parquet)")
	flags.String("images", config.DefaultImageDir, "Directory holding the product images")
	flags.String("output", config.DefaultOutputDir, "Directory for the generated import JSON files")
	flags.String("extension", ".jpg", "Image file extension")
	flags.Int("batch-size", 5, "Products per generated JSON file")
	flags.String("output-prefix", "accs_product_images", "Name prefix of the generated JSON files")
	flags.String("tie-break", "catalog", "Choice when several SKUs match (catalog, shortest, lexical)")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.BoolP("verbose", "v", false, "Verbose logging")
	flags.BoolP("yes", "y", false, "Skip confirmation prompts")

	bindFlags(v, cmd, map[string]string{
		config.KeyConfig:       "config",
		config.KeyCatalog:      "catalog",
		config.KeyImages:       "images",
		config.KeyOutput:       "output",
		config.KeyExtension:    "extension",
		config.KeyBatchSize:    "batch-size",
		config.KeyOutputPrefix: "output-prefix",
		config.KeyTieBreak:     "tie-break",
		config.KeyLogLevel:     "log-level",
		config.KeyVerbose:      "verbose",
		config.KeyYes:          "yes",
	})

	// Add subcommands
	cmd.AddCommand(imagecmd.NewAnalyzeCmd(v))
	cmd.AddCommand(imagecmd.NewFixNamesCmd(v))
	cmd.AddCommand(imagecmd.NewReassignCmd(v))
	cmd.AddCommand(imagecmd.NewGenerateCmd(v))

	return cmd
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
}
