package extract

import (
	"log/slog"
	"slices"

	"github.com/joseph-ayodele/packlist/constants"
	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/scan"
)

// chainExtractor runs a grammar's strategies in order. A strategy whose
// items account for every bundle/lot/tag identifier on the page ends the
// chain; otherwise the best partial result is kept and the next rung runs.
// A page without identifiers ends at the first strategy that yields
// anything.
type chainExtractor struct {
	g          *grammar
	strategies []Strategy
	logger     *slog.Logger
}

func (c *chainExtractor) Supplier() constants.Supplier { return c.g.supplier }

func (c *chainExtractor) Extract(in Input) Result {
	ids := c.g.anchorIDs(in.Text)
	best, bestCover := Result{Supplier: c.g.supplier}, -1
	for _, s := range c.strategies {
		items := s.Run(in)
		cover := covered(items, ids)
		c.logger.Debug("extract.strategy",
			"supplier", c.g.supplier,
			"strategy", s.Name,
			"items", len(items),
			"covered", cover,
			"anchors", len(ids),
		)
		if len(items) == 0 {
			continue
		}
		if cover > bestCover || (cover == bestCover && len(items) > len(best.Items)) {
			best, bestCover = Result{Supplier: c.g.supplier, Strategy: s.Name, Items: items}, cover
		}
		if cover == len(ids) {
			return best
		}
	}
	return best
}

// anchorIDs is the set of identifiers the grammar's anchor finds in the
// cleaned text.
func (g *grammar) anchorIDs(text string) map[string]bool {
	ids := map[string]bool{}
	for _, m := range scan.FindAll(g.anchor, Clean(text)) {
		ids[m.Group(1)] = true
	}
	return ids
}

func covered(items []entity.PackingListItem, ids map[string]bool) int {
	seen := map[string]bool{}
	for _, it := range items {
		if ids[it.Bundle] {
			seen[it.Bundle] = true
		}
	}
	return len(seen)
}

// Registry holds one Extractor per known supplier.
type Registry struct {
	extractors map[constants.Supplier]Extractor
	logger     *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{extractors: map[constants.Supplier]Extractor{}, logger: logger}
	for _, g := range grammars {
		r.Register(&chainExtractor{g: g, strategies: g.chain(), logger: logger})
	}
	return r
}

// Register adds or replaces the extractor for e.Supplier().
func (r *Registry) Register(e Extractor) {
	r.extractors[e.Supplier()] = e
}

// Extract runs the supplier's extractor. An unknown supplier runs every
// known extractor and keeps the one with the most items; ties go to the
// earlier strategy, then to the earlier supplier.
func (r *Registry) Extract(supplier constants.Supplier, in Input) Result {
	if e, ok := r.extractors[supplier]; ok {
		return e.Extract(in)
	}

	best := Result{Supplier: constants.SupplierUnknown}
	for _, s := range constants.KnownSuppliers {
		e, ok := r.extractors[s]
		if !ok {
			continue
		}
		res := e.Extract(in)
		if better(res, best) {
			best = res
		}
	}
	r.logger.Info("extract.unknown_supplier",
		"chosen", best.Supplier,
		"strategy", best.Strategy,
		"items", len(best.Items),
	)
	return best
}

var strategyRank = []string{
	constants.StrategyHeader,
	constants.StrategyRegex,
	constants.StrategyOCRTolerant,
	constants.StrategyAnchor,
}

func better(a, b Result) bool {
	if len(a.Items) != len(b.Items) {
		return len(a.Items) > len(b.Items)
	}
	if len(a.Items) == 0 {
		return false
	}
	return slices.Index(strategyRank, a.Strategy) < slices.Index(strategyRank, b.Strategy)
}
