// Package pipeline orchestrates a manifest batch run: sequential extraction
// with deterministic sequence-counter assignment, parallel enrichment and
// page composition, and the final stable reorder of composed pages.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/swanseaprintco/manifest-press/internal/assemble"
	"github.com/swanseaprintco/manifest-press/internal/catalog"
	"github.com/swanseaprintco/manifest-press/internal/common"
	"github.com/swanseaprintco/manifest-press/internal/compose"
	"github.com/swanseaprintco/manifest-press/internal/entity"
	"github.com/swanseaprintco/manifest-press/internal/extract"
)

// Pipeline wires the extraction template, catalog enricher and page composer
// into one batch runner.
type Pipeline struct {
	logger   *slog.Logger
	tmpl     *extract.Template
	enricher *catalog.Enricher
	composer *compose.Composer
	workers  int
}

type Option func(*Pipeline)

// WithComposeWorkers sets the parallelism of the enrich/compose stage.
func WithComposeWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

func New(tmpl *extract.Template, enricher *catalog.Enricher, composer *compose.Composer, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		logger:   logger,
		tmpl:     tmpl,
		enricher: enricher,
		composer: composer,
		workers:  4,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// BatchResult is everything a completed run hands to the output writers:
// composed pages in final order, the report aggregation rows, and the
// non-fatal warning lists.
type BatchResult struct {
	Pages         []entity.RenderedPage
	PickListRows  []entity.PickListRow
	InvoiceRows   []entity.InvoiceRow
	MissingAssets []string
	Warnings      []string
}

// pageWork is the outcome of the sequential extraction pass for one page,
// including the page's pre-assigned sequence value.
type pageWork struct {
	index int
	meta  entity.OrderMetadata
	items []entity.ItemRecord
	multi bool
	seq   int
}

// pageResult is the outcome of the parallel enrich/compose stage.
type pageResult struct {
	order    entity.OrderRecord
	rendered entity.RenderedPage
	misses   []string
	warnings []string
	err      error
}

// Run processes a batch. The first fatal extraction error aborts the whole
// run with the offending page identified; a failed batch produces no output
// pages. Recoverable conditions (catalog misses, missing thumbnails) are
// collected into the result's warning lists instead.
func (p *Pipeline) Run(ctx context.Context, pages []entity.RawPage, targetAssetFolder string) (*BatchResult, error) {
	work, err := p.extractAll(pages)
	if err != nil {
		return nil, err
	}

	results, err := p.composeAll(ctx, pages, work, targetAssetFolder)
	if err != nil {
		return nil, err
	}

	return p.collect(results), nil
}

// extractAll is the strictly sequential pre-pass: it validates every page
// and assigns sequence-counter values in input order. The counter starts at
// zero each run and advances exactly once per multi-item page, so the later
// parallel stage needs no shared counter at all.
func (p *Pipeline) extractAll(pages []entity.RawPage) ([]pageWork, error) {
	work := make([]pageWork, len(pages))
	counter := 0

	for i, page := range pages {
		meta, err := p.tmpl.ExtractMetadata(page.Text)
		if err != nil {
			return nil, &common.PageError{Page: i, Err: err}
		}
		items, multi, err := p.tmpl.ExtractItems(page.Text, meta.ItemCount)
		if err != nil {
			return nil, &common.PageError{Page: i, Err: err}
		}

		w := pageWork{index: i, meta: meta, items: items, multi: multi}
		if multi {
			counter++
			w.seq = counter
		}
		work[i] = w

		p.logger.Debug("pipeline.extract.ok", "page", i, "items", meta.ItemCount, "multi", multi, "seq", w.seq)
	}

	p.logger.Info("pipeline.extract.done", "pages", len(pages), "multi_item_orders", counter)
	return work, nil
}

// composeAll enriches, assembles and renders pages on a small worker pool.
// Every worker writes only its own result slot, so the stage needs no locks
// beyond the composer's internal render mutex.
func (p *Pipeline) composeAll(ctx context.Context, pages []entity.RawPage, work []pageWork, targetAssetFolder string) ([]pageResult, error) {
	results := make([]pageResult, len(work))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.composeOne(pages[i], work[i], targetAssetFolder)
			}
		}()
	}

	for i := range work {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	for i := range results {
		if results[i].err != nil {
			return nil, &common.PageError{Page: i, Err: results[i].err}
		}
	}
	return results, nil
}

func (p *Pipeline) composeOne(page entity.RawPage, w pageWork, targetAssetFolder string) pageResult {
	var res pageResult

	for pos := range w.items {
		if err := p.enricher.Enrich(&w.items[pos], w.multi, w.seq, pos); err != nil {
			// Catalog misses are recoverable: the item renders unenriched.
			res.warnings = append(res.warnings, err.Error())
			p.logger.Warn("pipeline.enrich.miss", "page", w.index, "sku", w.items[pos].SKU)
		}
	}

	order, err := assemble.Assemble(w.meta, w.items)
	if err != nil {
		res.err = err
		return res
	}
	res.order = order

	composed, err := p.composer.ComposePage(order, page.PostageLabel, page.CustomsLabel, page.AssetFolder, targetAssetFolder)
	if err != nil {
		res.err = fmt.Errorf("compose page: %w", err)
		return res
	}

	res.misses = composed.MissingAssets
	res.rendered = entity.RenderedPage{
		Image:     composed.Image,
		SortKey:   order.SortKey,
		PageIndex: w.index,
	}
	return res
}

// collect flattens per-page results in input order, builds the aggregation
// rows and performs the final stable sort of composed pages by sort key.
func (p *Pipeline) collect(results []pageResult) *BatchResult {
	out := &BatchResult{}

	invoiceTotals := make(map[string]int)
	var invoiceOrder []string

	for _, res := range results {
		out.Pages = append(out.Pages, res.rendered)
		out.MissingAssets = append(out.MissingAssets, res.misses...)
		out.Warnings = append(out.Warnings, res.warnings...)

		for _, item := range res.order.Items {
			code := item.TypeCode()
			out.PickListRows = append(out.PickListRows, entity.PickListRow{
				Name:     item.GarmentType,
				Size:     item.Size,
				Colour:   item.Colour,
				Quantity: item.Quantity,
				TypeCode: code,
			})
			if _, seen := invoiceTotals[code]; !seen {
				invoiceOrder = append(invoiceOrder, code)
			}
			invoiceTotals[code] += item.Quantity
		}
	}

	for _, code := range invoiceOrder {
		out.InvoiceRows = append(out.InvoiceRows, entity.InvoiceRow{TypeCode: code, Quantity: invoiceTotals[code]})
	}

	// Equal sort keys keep their original page order.
	sort.SliceStable(out.Pages, func(a, b int) bool {
		return out.Pages[a].SortKey < out.Pages[b].SortKey
	})

	p.logger.Info("pipeline.collect.done",
		"pages", len(out.Pages),
		"pick_rows", len(out.PickListRows),
		"invoice_rows", len(out.InvoiceRows),
		"missing_assets", len(out.MissingAssets))
	return out
}
