package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/swanseaprintco/manifest-press/internal/common"
	"github.com/swanseaprintco/manifest-press/internal/entity"
)

// ExtractMetadata applies the template's single-valued rules to one page's
// text in declaration order. A rule that fails to match is fatal for the
// page, as is an item count that does not parse to a positive integer.
func (t *Template) ExtractMetadata(text string) (entity.OrderMetadata, error) {
	var meta entity.OrderMetadata

	for _, rule := range t.meta {
		m := rule.re.FindStringSubmatch(text)
		if m == nil {
			return entity.OrderMetadata{}, fmt.Errorf("%s: %w", rule.field, common.ErrMissingField)
		}
		value := strings.TrimSpace(m[1])

		switch rule.field {
		case FieldAddress:
			meta.Address = value
		case FieldDispatchDate:
			meta.DispatchDate = value
		case FieldShopName:
			meta.ShopName = value
		case FieldOrderDate:
			meta.OrderDate = value
		case FieldItemCount:
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return entity.OrderMetadata{}, fmt.Errorf("%s %q: %w", rule.field, value, common.ErrInvalidCount)
			}
			meta.ItemCount = n
		}
	}
	return meta, nil
}
