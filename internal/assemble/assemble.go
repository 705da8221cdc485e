// Package assemble combines extracted metadata and enriched items into one
// order record per page.
package assemble

import (
	"fmt"

	"github.com/swanseaprintco/manifest-press/constants"
	"github.com/swanseaprintco/manifest-press/internal/common"
	"github.com/swanseaprintco/manifest-press/internal/entity"
)

// sortKeyPrefixLen is how much of a multi-item rename token survives as the
// order's sort key: the "4.C" numeric prefix of "4.C.k." for single-digit
// counter values.
const sortKeyPrefixLen = 4

// Assemble builds the order record for one page. Multi-item orders land in
// the shared multi-order asset bucket and sort by the numeric prefix of their
// first item's token; single-item orders use their item's catalog folder and
// full token.
func Assemble(meta entity.OrderMetadata, items []entity.ItemRecord) (entity.OrderRecord, error) {
	if len(items) == 0 {
		return entity.OrderRecord{}, fmt.Errorf("assemble order: %w", common.ErrEmptyOrder)
	}

	order := entity.OrderRecord{
		Metadata: meta,
		Items:    items,
	}

	if len(items) > 1 {
		order.DesignFolder = constants.MultiOrderFolder
		order.SortKey = truncate(items[0].RenameToken, sortKeyPrefixLen)
	} else {
		order.DesignFolder = items[0].DesignFolder
		order.SortKey = items[0].RenameToken
	}
	return order, nil
}

// truncate is a bounds-safe prefix cut; unenriched items carry an empty
// token, which must not crash sort-key assignment.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
