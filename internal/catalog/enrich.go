package catalog

import (
	"fmt"
	"strconv"

	"github.com/swanseaprintco/manifest-press/constants"
	"github.com/swanseaprintco/manifest-press/internal/common"
	"github.com/swanseaprintco/manifest-press/internal/entity"
)

// Enricher fills extracted item records with catalog attributes and the
// rename token used for asset naming and page sorting.
type Enricher struct {
	catalog *Catalog
}

func NewEnricher(c *Catalog) *Enricher {
	return &Enricher{catalog: c}
}

// Enrich mutates item in place. seq is the batch sequence value assigned to
// the page (meaningful only for multi-item pages) and pos the item's
// zero-based position on the page.
//
// The rename token contract, which downstream print tooling depends on:
// multi-item pages use "<group>.<seq>.<pos+1>." regardless of catalog data;
// single-item pages use the catalog's rename prefix followed by "1".
//
// A SKU missing from the catalog is not fatal: the item stays unenriched and
// an ErrCatalogMiss is returned so the caller can surface a warning.
func (e *Enricher) Enrich(item *entity.ItemRecord, multiItem bool, seq, pos int) error {
	entry, ok := e.catalog.Lookup(item.SKU)
	if !ok {
		return fmt.Errorf("sku %q: %w", item.SKU, common.ErrCatalogMiss)
	}

	item.GarmentType = entry.GarmentType
	item.Size = entry.Size
	item.Colour = entry.Colour
	item.DesignFolder = entry.DesignFolder
	if multiItem {
		item.RenameToken = constants.MultiOrderRenameGroup + "." + strconv.Itoa(seq) + "." + strconv.Itoa(pos+1) + "."
	} else {
		item.RenameToken = entry.RenamePrefix + "1"
	}
	item.Enriched = true
	return nil
}
