package imagecmd

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/sku-images/internal/catalog"
	"github.com/lehigh-university-libraries/sku-images/internal/config"
	"github.com/lehigh-university-libraries/sku-images/internal/images"
	"github.com/lehigh-university-libraries/sku-images/internal/reconcile"
)

// session holds the catalog and image directory shared by every command
type session struct {
	cfg    *config.Config
	index  *catalog.Index
	store  *images.Store
	engine *reconcile.Engine
}

func openSession(cfg *config.Config) (*session, error) {
	slog.Info("Loading catalog", "path", cfg.CatalogPath)
	products, err := catalog.NewLoader(cfg.CatalogPath).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	slog.Info("Catalog loaded", "products", len(products))

	index := catalog.NewIndex(products)
	store := images.NewStore(cfg.ImageDir, cfg.Extension)
	return &session{
		cfg:   cfg,
		index: index,
		store: store,
		engine: reconcile.NewEngine(index,
			reconcile.WithCategories(cfg.Categories),
			reconcile.WithTieBreak(cfg.TieBreak),
			reconcile.WithNaming(store),
		),
	}, nil
}

func (s *session) listImages() ([]string, error) {
	files, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list images in %s: %w", s.cfg.ImageDir, err)
	}
	slog.Info("Images found", "dir", s.cfg.ImageDir, "count", len(files))
	return files, nil
}

// imagedProducts counts the listed files that exactly name a catalog product
func (s *session) imagedProducts(files []string) int {
	n := 0
	for _, f := range files {
		if _, ok := s.index.Lookup(s.store.Candidate(f)); ok {
			n++
		}
	}
	return n
}
