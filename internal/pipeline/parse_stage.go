package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/packlist/constants"
	"github.com/joseph-ayodele/packlist/internal/classify"
	"github.com/joseph-ayodele/packlist/internal/common"
	"github.com/joseph-ayodele/packlist/internal/entity"
	"github.com/joseph-ayodele/packlist/internal/extract"
	"github.com/joseph-ayodele/packlist/internal/ingest"
	"github.com/joseph-ayodele/packlist/internal/invoice"
	"github.com/joseph-ayodele/packlist/internal/scan"
)

// previewLen bounds the text quoted in extraction errors.
const previewLen = 300

// parse classifies pages, extracts from the best page or the combined
// packing-list pages, and correlates invoice pages from the same file.
func (o *Orchestrator) parse(ctx context.Context, doc *ingest.Document, opts Options, res *Result) error {
	log := common.LoggerFrom(ctx, o.Logger)
	texts := doc.Texts()
	res.Pages = classify.ScorePages(texts)
	all := strings.Join(texts, "\n\n")

	var packing, invoices []int
	for i, t := range texts {
		if invoice.IsInvoice(t) {
			invoices = append(invoices, i)
		} else {
			packing = append(packing, i)
		}
	}

	if len(packing) == 0 && len(invoices) > 0 {
		res.IsInvoice = true
		text := joinPages(doc.Pages, invoices)
		inv, err := invoice.Parse(text)
		if err != nil {
			return fmt.Errorf("invoice-only file: %w; text starts %q", err, scan.Preview(text, previewLen))
		}
		if opts.PO != "" {
			inv.PO = opts.PO
		}
		res.Invoice = inv
		return nil
	}
	if len(packing) == 0 {
		return &extract.NoItemsError{Supplier: constants.SupplierUnknown}
	}

	supplier := classify.DetectSupplier(all)
	candidates := make([]string, len(packing))
	for i, idx := range packing {
		candidates[i] = texts[idx]
	}
	sel, _ := classify.SelectBestPage(candidates)
	best := packing[sel.Index]
	out := o.Registry.Extract(supplier, inputOf(doc.Pages, []int{best}))
	res.SelectedPages = []int{best}
	log.Debug("pipeline.page.selected", "page", best, "score", sel.Score, "rule", sel.Rule, "items", len(out.Items))

	var qualifying []int
	for _, idx := range packing {
		if res.Pages[idx].IsPackingList {
			qualifying = append(qualifying, idx)
		}
	}
	if len(qualifying) > 1 {
		combined := o.Registry.Extract(supplier, inputOf(doc.Pages, qualifying))
		log.Debug("pipeline.pages.combined", "pages", qualifying, "items", len(combined.Items))
		if len(combined.Items) > len(out.Items) {
			out = combined
			res.SelectedPages = qualifying
		}
	}

	if len(out.Items) == 0 {
		return &extract.NoItemsError{Supplier: supplier, Preview: scan.Preview(texts[best], previewLen)}
	}
	if out.Supplier != constants.SupplierUnknown {
		supplier = out.Supplier
	}

	po := opts.PO
	if po == "" {
		po, _ = classify.DetectPO(all)
	}
	pl := entity.NewPackingList(supplier, po)
	pl.SetItems(o.Finalizer.Finalize(out.Items, supplier, pl.PO))
	pl.Strategy = out.Strategy
	if wh, ok := classify.DetectWarehouse(all); ok {
		pl.Warehouse, pl.WarehouseDetected = wh, true
	} else {
		pl.Warehouse = o.cfg.DefaultWarehouse
	}
	if sel.Rule == classify.RuleFallback && len(res.SelectedPages) == 1 {
		pl.AddWarning("no page scored as a packing list; extracted from the closest match")
	}
	if res.OCRWarning != "" {
		pl.AddWarning(res.OCRWarning)
	}
	res.Document = pl

	if len(invoices) > 0 {
		inv, err := invoice.Parse(joinPages(doc.Pages, invoices))
		switch {
		case err == nil:
			res.Invoice = inv
			res.Matched = invoice.Correlate(pl, inv)
			if res.Matched < len(pl.Items) {
				pl.AddWarning("some items have no matching invoice line")
			}
		case errors.Is(err, common.ErrNoItems):
			log.Debug("pipeline.invoice.unpriced", "pages", invoices)
		default:
			log.Warn("pipeline.invoice.failed", "err", err)
		}
	}
	return nil
}

// inputOf concatenates the text and rows of the given pages in order.
func inputOf(pages []ingest.Page, idx []int) extract.Input {
	var in extract.Input
	texts := make([]string, 0, len(idx))
	for _, i := range idx {
		texts = append(texts, pages[i].Text)
		in.Rows = append(in.Rows, pages[i].Rows...)
	}
	in.Text = strings.Join(texts, "\n\n")
	return in
}

func joinPages(pages []ingest.Page, idx []int) string {
	return inputOf(pages, idx).Text
}
