package reconcile

import (
	"github.com/lehigh-university-libraries/sku-images/internal/catalog"
	"github.com/lehigh-university-libraries/sku-images/internal/images"
	"github.com/lehigh-university-libraries/sku-images/internal/sku"
)

// Rule is the outcome of the classification cascade for one asset
type Rule string

const (
	RuleExact     Rule = "exact"
	RuleAddPrefix Rule = "add-prefix"
	RuleFixPrefix Rule = "fix-prefix"
	RuleOrphan    Rule = "orphan"
)

// Classification records how an asset relates to the catalog
type Classification struct {
	Asset     string `json:"asset" yaml:"asset"`
	Candidate string `json:"candidate" yaml:"candidate"`
	Rule      Rule   `json:"rule" yaml:"rule"`
	Target    string `json:"target,omitempty" yaml:"target,omitempty"`
	OldPrefix string `json:"old_prefix,omitempty" yaml:"old_prefix,omitempty"`
	NewPrefix string `json:"new_prefix,omitempty" yaml:"new_prefix,omitempty"`
	// Candidates lists every identifier that satisfied the winning rule
	Candidates []string `json:"candidates,omitempty" yaml:"candidates,omitempty"`
}

// Ambiguous reports whether more than one catalog identifier satisfied the rule
func (c Classification) Ambiguous() bool {
	return len(c.Candidates) > 1
}

// NeedsRename reports whether the asset must be renamed to reach its target
func (c Classification) NeedsRename() bool {
	return c.Rule == RuleAddPrefix || c.Rule == RuleFixPrefix
}

// Engine classifies image assets against a catalog index
type Engine struct {
	index      *catalog.Index
	categories CategoryMap
	tieBreak   catalog.TieBreak
	naming     Naming
}

// Naming maps identifiers to image file names and back. images.Store
// implements it.
type Naming interface {
	FileName(id string) string
	Candidate(fileName string) string
}

// Option configures an Engine
type Option func(*Engine)

// WithCategories sets the prefix to category mapping used for reassignment
func WithCategories(categories CategoryMap) Option {
	return func(e *Engine) {
		e.categories = categories
	}
}

// WithTieBreak sets the policy used when several products satisfy a rule
func WithTieBreak(tb catalog.TieBreak) Option {
	return func(e *Engine) {
		e.tieBreak = tb
	}
}

// WithNaming sets how identifiers map to image file names
func WithNaming(n Naming) Option {
	return func(e *Engine) {
		e.naming = n
	}
}

// WithExtension names image files <identifier><ext>
func WithExtension(ext string) Option {
	return WithNaming(images.NewStore("", ext))
}

// NewEngine creates a reconciliation engine over index
func NewEngine(index *catalog.Index, opts ...Option) *Engine {
	e := &Engine{
		index:      index,
		categories: DefaultCategories(),
		tieBreak:   catalog.TieBreakCatalog,
		naming:     images.NewStore("", images.DefaultExtension),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Classify applies the rule cascade to an identifier candidate: exact match,
// then prefix completion, then prefix correction, else orphan. It never fails.
func (e *Engine) Classify(candidate string) Classification {
	c := Classification{
		Asset:     e.naming.FileName(candidate),
		Candidate: candidate,
		Rule:      RuleOrphan,
	}

	// An empty candidate would end every identifier
	if candidate == "" {
		return c
	}

	if _, ok := e.index.Lookup(candidate); ok {
		c.Rule = RuleExact
		c.Target = candidate
		return c
	}

	// Short form missing its prefix: some identifier ends with the candidate
	if matches := e.index.EndingWith(candidate); len(matches) > 0 {
		target, _ := e.tieBreak.Pick(matches, false)
		c.Rule = RuleAddPrefix
		c.Target = target.SKU
		c.Candidates = skus(matches)
		return c
	}

	// Wrong prefix: the suffix segments match a product under another prefix
	id := sku.Parse(candidate)
	if key, ok := id.SuffixKey(); ok {
		var matches []catalog.Product
		for _, p := range e.index.SuffixMatches(key) {
			other := sku.Parse(p.SKU)
			if id.SuffixEquivalent(other) && other.Prefix != id.Prefix {
				matches = append(matches, p)
			}
		}
		if target, ok := e.tieBreak.Pick(matches, true); ok {
			c.Rule = RuleFixPrefix
			c.Target = target.SKU
			c.OldPrefix = id.Prefix
			c.NewPrefix = sku.Parse(target.SKU).Prefix
			c.Candidates = skus(matches)
			return c
		}
	}

	return c
}

func skus(products []catalog.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.SKU)
	}
	return out
}
