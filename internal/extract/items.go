package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/swanseaprintco/manifest-press/constants"
	"github.com/swanseaprintco/manifest-press/internal/common"
	"github.com/swanseaprintco/manifest-press/internal/entity"
)

// ExtractItems collects the repeating item fields from one page's text and
// zips them positionally into expectedCount item records. The four match
// lists must agree with each other and with expectedCount; a disagreement is
// fatal because positional zipping would silently pair fields from different
// items. The multi return reports whether this page consumes one value of
// the batch sequence counter (itemCount > 1); the caller owns the counter.
func (t *Template) ExtractItems(text string, expectedCount int) (items []entity.ItemRecord, multi bool, err error) {
	if expectedCount < 1 {
		return nil, false, fmt.Errorf("expected count %d: %w", expectedCount, common.ErrInvalidCount)
	}

	skus := captures(t.items.sku, text)
	quantities := captures(t.items.quantity, text)
	designCodes := captures(t.items.designCode, text)
	titles := captures(t.items.title, text)

	counts := []struct {
		field string
		n     int
	}{
		{FieldSKU, len(skus)},
		{FieldQuantity, len(quantities)},
		{FieldDesignCode, len(designCodes)},
		{FieldTitle, len(titles)},
	}
	for _, c := range counts {
		if c.n != expectedCount {
			return nil, false, fmt.Errorf("%s matched %d times, want %d: %w",
				c.field, c.n, expectedCount, common.ErrFieldCountMismatch)
		}
	}

	items = make([]entity.ItemRecord, expectedCount)
	for i := 0; i < expectedCount; i++ {
		qty, err := strconv.Atoi(quantities[i])
		if err != nil || qty < 1 {
			return nil, false, fmt.Errorf("%s %q: %w", FieldQuantity, quantities[i], common.ErrInvalidCount)
		}
		items[i] = entity.ItemRecord{
			SKU:        skus[i],
			Quantity:   qty,
			DesignCode: designCodes[i],
			Title:      shortenTitle(titles[i]),
		}
	}
	return items, expectedCount > 1, nil
}

// captures returns the first capture group of every match, in text order.
func captures(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// shortenTitle drops the boilerplate tail of a listing title: everything from
// the first garment-category marker onward.
func shortenTitle(title string) string {
	for _, marker := range constants.TitleMarkers {
		if idx := strings.Index(title, marker); idx >= 0 {
			title = title[:idx]
		}
	}
	return strings.TrimSpace(title)
}
