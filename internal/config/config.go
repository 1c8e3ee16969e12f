package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/lehigh-university-libraries/sku-images/internal/catalog"
	"github.com/lehigh-university-libraries/sku-images/internal/images"
	"github.com/lehigh-university-libraries/sku-images/internal/reconcile"
	"github.com/lehigh-university-libraries/sku-images/internal/records"
)

// Configuration keys, shared by the config file, environment and flags
const (
	KeyConfig       = "config"
	KeyCatalog      = "catalog"
	KeyImages       = "images"
	KeyOutput       = "output"
	KeyExtension    = "extension"
	KeyBatchSize    = "batch_size"
	KeyOutputPrefix = "output_prefix"
	KeyTieBreak     = "tie_break"
	KeyCategories   = "categories"
	KeyLogLevel     = "log_level"
	KeyVerbose      = "verbose"
	KeyYes          = "yes"
)

// EnvPrefix is prepended to every environment variable, e.g. SKU_IMAGES_CATALOG
const EnvPrefix = "SKU_IMAGES"

// Default locations, relative to the working directory
const (
	DefaultCatalogPath = "generated/commerce/data/accs/accs_products.json"
	DefaultImageDir    = "media/images/products"
	DefaultOutputDir   = "generated/commerce/data/accs"
)

// CategoryEntry is one prefix to category mapping in the config file. A list
// is used instead of a map because viper lower-cases map keys.
type CategoryEntry struct {
	Prefix   string `mapstructure:"prefix" yaml:"prefix"`
	Category string `mapstructure:"category" yaml:"category"`
}

// Config holds the settings for one run
type Config struct {
	ConfigFile   string
	CatalogPath  string
	ImageDir     string
	OutputDir    string
	Extension    string
	BatchSize    int
	OutputPrefix string
	TieBreak     catalog.TieBreak
	Categories   reconcile.CategoryMap
	LogLevel     slog.Level
	AssumeYes    bool
}

// New returns a viper instance with defaults and environment binding set up
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyCatalog, DefaultCatalogPath)
	v.SetDefault(KeyImages, DefaultImageDir)
	v.SetDefault(KeyOutput, DefaultOutputDir)
	v.SetDefault(KeyExtension, images.DefaultExtension)
	v.SetDefault(KeyBatchSize, records.DefaultBatchSize)
	v.SetDefault(KeyOutputPrefix, records.DefaultPrefix)
	v.SetDefault(KeyTieBreak, string(catalog.TieBreakCatalog))
	v.SetDefault(KeyLogLevel, "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadEnvFiles loads .env then .env.local; missing files are ignored
func LoadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// Load reads the optional config file and builds the run configuration.
// Precedence: flags, environment, config file, defaults.
func Load(v *viper.Viper) (*Config, error) {
	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	tieBreak, err := catalog.ParseTieBreak(v.GetString(KeyTieBreak))
	if err != nil {
		return nil, err
	}

	batchSize := v.GetInt(KeyBatchSize)
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch_size must be positive, got %d", batchSize)
	}

	ext := strings.TrimSpace(v.GetString(KeyExtension))
	if ext == "" {
		return nil, fmt.Errorf("extension must not be empty")
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	categories, err := loadCategories(v)
	if err != nil {
		return nil, err
	}

	level, err := parseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, err
	}
	if v.GetBool(KeyVerbose) {
		level = slog.LevelDebug
	}

	return &Config{
		ConfigFile:   v.ConfigFileUsed(),
		CatalogPath:  v.GetString(KeyCatalog),
		ImageDir:     v.GetString(KeyImages),
		OutputDir:    v.GetString(KeyOutput),
		Extension:    ext,
		BatchSize:    batchSize,
		OutputPrefix: v.GetString(KeyOutputPrefix),
		TieBreak:     tieBreak,
		Categories:   categories,
		LogLevel:     level,
		AssumeYes:    v.GetBool(KeyYes),
	}, nil
}

func readConfigFile(v *viper.Viper) error {
	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", file, err)
		}
		return nil
	}

	v.SetConfigName(".sku-images")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func loadCategories(v *viper.Viper) (reconcile.CategoryMap, error) {
	if !v.IsSet(KeyCategories) {
		return reconcile.DefaultCategories(), nil
	}

	var entries []CategoryEntry
	if err := v.UnmarshalKey(KeyCategories, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse categories: %w", err)
	}

	categories := make(reconcile.CategoryMap, len(entries))
	for i, e := range entries {
		if e.Prefix == "" || e.Category == "" {
			return nil, fmt.Errorf("categories entry %d needs both prefix and category", i+1)
		}
		if existing, ok := categories[e.Prefix]; ok && existing != e.Category {
			return nil, fmt.Errorf("prefix %s mapped to both %q and %q", e.Prefix, existing, e.Category)
		}
		categories[e.Prefix] = e.Category
	}
	return categories, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}
