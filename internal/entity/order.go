package entity

import "image"

// RawPage is one manifest page as delivered by the upstream document
// conversion step: the page's plain text, the postage label raster for the
// same position in the batch, the customs declaration that follows the label
// for international orders (nil otherwise), and the asset folder the page's
// thumbnails are sourced from. Consumed exactly once by the pipeline.
type RawPage struct {
	Text         string
	PostageLabel image.Image
	CustomsLabel image.Image
	AssetFolder  string
}

// OrderMetadata holds the fixed, single-valued fields of one manifest page.
type OrderMetadata struct {
	Address      string
	DispatchDate string
	ShopName     string
	OrderDate    string
	ItemCount    int
}

// ItemRecord is one ordered item. SKU, Quantity, DesignCode and Title come
// from page text; the remaining fields are filled in by catalog enrichment
// and stay empty on a catalog miss.
type ItemRecord struct {
	SKU        string
	Quantity   int
	DesignCode string
	Title      string

	GarmentType  string
	Size         string
	Colour       string
	DesignFolder string
	RenameToken  string
	Enriched     bool
}

// TypeCode returns the derived type code used for invoice aggregation:
// the second dash-separated segment of the SKU, e.g. "HBL-TS-M" -> "TS".
func (i ItemRecord) TypeCode() string {
	start := -1
	for idx := 0; idx < len(i.SKU); idx++ {
		if i.SKU[idx] == '-' {
			if start >= 0 {
				return i.SKU[start:idx]
			}
			start = idx + 1
		}
	}
	if start >= 0 {
		return i.SKU[start:]
	}
	return i.SKU
}

// OrderRecord is the assembled result of one page: metadata, the ordered item
// list, the lexicographic sort key deciding the page's final position, and
// the destination bucket for its thumbnail assets.
type OrderRecord struct {
	Metadata     OrderMetadata
	Items        []ItemRecord
	SortKey      string
	DesignFolder string
}

// RenderedPage is one composed output page together with the keys needed for
// the final stable reorder.
type RenderedPage struct {
	Image     image.Image
	SortKey   string
	PageIndex int // original input position, tie-breaker for the sort
}

// PickListRow is one pick-list aggregation row. Rows are emitted per item and
// grouped by (Name, Size, Colour) at export time.
type PickListRow struct {
	Name     string
	Size     string
	Colour   string
	Quantity int
	TypeCode string
}

// InvoiceRow is one invoice aggregation row keyed by derived type code.
type InvoiceRow struct {
	TypeCode string
	Quantity int
}
