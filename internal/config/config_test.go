package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/sku-images/internal/catalog"
	"github.com/lehigh-university-libraries/sku-images/internal/reconcile"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, DefaultCatalogPath, cfg.CatalogPath)
	assert.Equal(t, DefaultImageDir, cfg.ImageDir)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, ".jpg", cfg.Extension)
	assert.Equal(t, 5, cfg.BatchSize)
	assert.Equal(t, "accs_product_images", cfg.OutputPrefix)
	assert.Equal(t, catalog.TieBreakCatalog, cfg.TieBreak)
	assert.Equal(t, reconcile.DefaultCategories(), cfg.Categories)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.AssumeYes)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
catalog: data/products.parquet
images: data/images
batch_size: 10
tie_break: shortest
log_level: warn
categories:
  - prefix: STUD
    category: Structural
  - prefix: WIN
    category: Windows
`)
	v := New()
	v.Set(KeyConfig, path)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, "data/products.parquet", cfg.CatalogPath)
	assert.Equal(t, "data/images", cfg.ImageDir)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, catalog.TieBreakShortest, cfg.TieBreak)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, reconcile.CategoryMap{"STUD": "Structural", "WIN": "Windows"}, cfg.Categories, "prefix case is preserved")
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "batch_size: 10\n")
	t.Setenv("SKU_IMAGES_BATCH_SIZE", "3")
	t.Setenv("SKU_IMAGES_OUTPUT_PREFIX", "images_export")

	v := New()
	v.Set(KeyConfig, path)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.BatchSize)
	assert.Equal(t, "images_export", cfg.OutputPrefix)
}

func TestLoadVerboseForcesDebug(t *testing.T) {
	v := New()
	v.Set(KeyVerbose, true)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) map[string]any
	}{
		{
			name:  "missing explicit config file",
			setup: func(t *testing.T) map[string]any { return map[string]any{KeyConfig: "/nonexistent/config.yaml"} },
		},
		{
			name:  "bad tie break",
			setup: func(t *testing.T) map[string]any { return map[string]any{KeyTieBreak: "coin-flip"} },
		},
		{
			name:  "zero batch size",
			setup: func(t *testing.T) map[string]any { return map[string]any{KeyBatchSize: 0} },
		},
		{
			name:  "empty extension",
			setup: func(t *testing.T) map[string]any { return map[string]any{KeyExtension: " "} },
		},
		{
			name:  "bad log level",
			setup: func(t *testing.T) map[string]any { return map[string]any{KeyLogLevel: "chatty"} },
		},
		{
			name: "incomplete category entry",
			setup: func(t *testing.T) map[string]any {
				return map[string]any{KeyConfig: writeConfig(t, "categories:\n  - prefix: STUD\n")}
			},
		},
		{
			name: "conflicting category entries",
			setup: func(t *testing.T) map[string]any {
				return map[string]any{KeyConfig: writeConfig(t, "categories:\n  - {prefix: STUD, category: A}\n  - {prefix: STUD, category: B}\n")}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			for k, val := range tt.setup(t) {
				v.Set(k, val)
			}
			_, err := Load(v)
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(wd) }()

	require.NoError(t, os.WriteFile(".env", []byte("SKU_IMAGES_EXTENSION=.png\n"), 0644))
	t.Setenv("SKU_IMAGES_EXTENSION", "")
	require.NoError(t, os.Unsetenv("SKU_IMAGES_EXTENSION"))

	LoadEnvFiles()
	defer os.Unsetenv("SKU_IMAGES_EXTENSION")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, ".png", cfg.Extension)
}
