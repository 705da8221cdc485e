// Package compose renders one output page per order: the per-item pick rows
// with thumbnails, and the order's destination/date block. Pages are drawn
// onto a raster canvas sized for the shop's 210x300 mm print stock.
package compose

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/swanseaprintco/manifest-press/constants"
	"github.com/swanseaprintco/manifest-press/internal/entity"
)

// Canvas geometry in points: 210x300 mm at 72 dpi.
const (
	pageWidth  = 595
	pageHeight = 850
)

// Item row layout. Row i starts at itemTop + i*itemRowStep.
const (
	itemTop     = 50
	itemRowStep = 60

	qtyColX     = 30
	colourColX  = 130
	garmentColX = 250
	designColX  = 390
	thumbColX   = 520

	titleOffsetY  = 20
	title2OffsetY = 35
	thumbOffsetY  = -35 // thumbnail top relative to the row baseline
)

// Order details block layout.
const (
	totalsBaselineY = 350
	detailsTop      = 380
	detailsLineStep = 15
	detailsX        = 30
)

// Label area. The postage label sits bottom-right, the customs label to its
// left, clear of the details block.
const (
	labelWidth  = 240
	labelHeight = 320
	labelMargin = 15
	customSize  = 160
)

// Composer renders order records into output pages.
type Composer struct {
	thumbSize int
	logger    *slog.Logger

	// font faces cache glyphs and are not safe for concurrent drawing;
	// thumbnail I/O stays outside this lock so it can run in parallel.
	renderMu sync.Mutex
}

func NewComposer(thumbSize int, logger *slog.Logger) *Composer {
	if thumbSize < 1 {
		thumbSize = 55
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{thumbSize: thumbSize, logger: logger}
}

// Result is one composed page plus the design assets that could not be
// located while rendering it.
type Result struct {
	Image         image.Image
	MissingAssets []string
}

// ComposePage renders the page for one order. Thumbnail failures are
// recorded in Result.MissingAssets, once per item occurrence, and never fail
// the page. label and custom may be nil when the upstream label document had
// no page for this order.
func (c *Composer) ComposePage(order entity.OrderRecord, label, custom image.Image, assetFolder, targetFolder string) (Result, error) {
	faces, err := loadFaces()
	if err != nil {
		return Result{}, err
	}

	var result Result

	// Thumbnail loading and the asset copy/rename happen before any drawing
	// so that concurrent ComposePage calls only serialize on text rendering.
	thumbs := make([]image.Image, len(order.Items))
	for i, item := range order.Items {
		path := thumbnailPath(assetFolder, item.DesignCode)
		if !item.Enriched {
			// No design folder or rename token to copy under.
			result.MissingAssets = append(result.MissingAssets, path)
			continue
		}
		thumb, err := loadThumbnail(assetFolder, item.DesignCode, c.thumbSize)
		if err != nil {
			c.logger.Warn("thumbnail not found", "design_code", item.DesignCode, "path", path)
			result.MissingAssets = append(result.MissingAssets, path)
			continue
		}
		thumbs[i] = thumb
		if err := copyAsset(assetFolder, item.DesignCode, targetFolder, order.DesignFolder, item.RenameToken); err != nil {
			c.logger.Warn("asset copy failed", "design_code", item.DesignCode, "error", err)
			result.MissingAssets = append(result.MissingAssets, path)
		}
	}

	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	canvas := imaging.New(pageWidth, pageHeight, color.White)

	itemDrawer := &font.Drawer{Dst: canvas, Src: image.NewUniform(color.Black), Face: faces.itemBold}
	titleDrawer := &font.Drawer{Dst: canvas, Src: image.NewUniform(color.Black), Face: faces.titleBold}
	detailDrawer := &font.Drawer{Dst: canvas, Src: image.NewUniform(color.Black), Face: faces.detail}

	for i, item := range order.Items {
		baseline := itemTop + i*itemRowStep

		drawString(itemDrawer, fmt.Sprintf("%d x %s", item.Quantity, item.Size), qtyColX, baseline)
		drawString(itemDrawer, item.Colour, colourColX, baseline)
		drawString(itemDrawer, item.GarmentType, garmentColX, baseline)
		drawString(itemDrawer, item.DesignCode, designColX, baseline)

		line1, line2 := wrapTitle(item.Title, constants.TitleWrapBudget)
		drawString(titleDrawer, line1, qtyColX, baseline+titleOffsetY)
		if line2 != "" {
			drawString(titleDrawer, line2, qtyColX, baseline+title2OffsetY)
		}

		if thumbs[i] != nil {
			pasteAt(canvas, thumbs[i], thumbColX, baseline+thumbOffsetY)
		}
	}

	c.drawOrderDetails(canvas, itemDrawer, detailDrawer, order)
	c.drawLabels(canvas, label, custom)

	result.Image = canvas
	return result, nil
}

// drawOrderDetails renders the totals line, destination address, both dates
// and the shop name under the item rows.
func (c *Composer) drawOrderDetails(canvas *image.NRGBA, totals, detail *font.Drawer, order entity.OrderRecord) {
	drawString(totals, fmt.Sprintf("TOTAL = %d Items", order.Metadata.ItemCount), detailsX, totalsBaselineY)

	line := 0
	write := func(s string) {
		drawString(detail, s, detailsX, detailsTop+line*detailsLineStep)
		line++
	}
	skip := func(n int) { line += n }

	for _, addrLine := range splitLines(order.Metadata.Address) {
		write(addrLine)
	}
	skip(1)
	write("Order Date:")
	write(order.Metadata.OrderDate)
	skip(2)
	write("Dispatch Date:")
	write(order.Metadata.DispatchDate)
	skip(2)
	write(order.Metadata.ShopName)
}

// drawLabels places the postage label bottom-right and the customs label to
// its left, scaled to fit their reserved slots.
func (c *Composer) drawLabels(canvas *image.NRGBA, label, custom image.Image) {
	if label != nil {
		scaled := imaging.Fit(label, labelWidth, labelHeight, imaging.Lanczos)
		x := pageWidth - labelMargin - scaled.Bounds().Dx()
		y := pageHeight - labelMargin - scaled.Bounds().Dy()
		pasteAt(canvas, scaled, x, y)
	}
	if custom != nil {
		scaled := imaging.Fit(custom, customSize, customSize, imaging.Lanczos)
		x := pageWidth - labelMargin - labelWidth - labelMargin - scaled.Bounds().Dx()
		y := pageHeight - labelMargin - scaled.Bounds().Dy()
		pasteAt(canvas, scaled, x, y)
	}
}

func drawString(d *font.Drawer, s string, x, baseline int) {
	d.Dot = fixed.P(x, baseline)
	d.DrawString(s)
}

func pasteAt(dst *image.NRGBA, src image.Image, x, y int) {
	r := src.Bounds().Sub(src.Bounds().Min).Add(image.Pt(x, y))
	draw.Draw(dst, r, src, src.Bounds().Min, draw.Over)
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
