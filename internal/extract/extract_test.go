package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/swanseaprintco/manifest-press/internal/common"
)

const twoItemPage = `Deliver to
John Smith
31 Oxford Street
Swansea SA1 3AN
Scheduled to dispatch by
29 February, 2024
Shop
SwanseaPrintCo
Order date
25 February, 2024
2 items
Dragon Hoodie Mens Funny T-Shirt Gift - 1001
SKU: HBL-TS-BLK-M
Colour: Black 2 x Medium
Cool Cat Retro T-Shirt Top - 1002
SKU: HBL-HD-WHT-L
Colour: White 1 x Large
`

const oneItemPage = `Deliver to
Jane Doe
1 Castle Square
Cardiff CF10 1BH
Scheduled to dispatch by
1 March, 2024
Shop
SwanseaPrintCo
Order date
27 February, 2024
1 item
Welsh Dragon Vintage T-Shirt Present - 2001
SKU: HBL-TS-RED-S
Colour: Red 1 x Small
`

func mustTemplate(t *testing.T) *Template {
	t.Helper()
	templates, err := LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}
	tmpl, ok := templates["etsy"]
	if !ok {
		t.Fatal("etsy template not defined")
	}
	return tmpl
}

func TestExtractMetadata(t *testing.T) {
	tmpl := mustTemplate(t)

	meta, err := tmpl.ExtractMetadata(twoItemPage)
	if err != nil {
		t.Fatalf("ExtractMetadata: %v", err)
	}

	if !strings.HasPrefix(meta.Address, "John Smith") || !strings.HasSuffix(meta.Address, "Swansea SA1 3AN") {
		t.Errorf("address = %q", meta.Address)
	}
	if meta.DispatchDate != "29 February, 2024" {
		t.Errorf("dispatch date = %q", meta.DispatchDate)
	}
	if meta.ShopName != "SwanseaPrintCo" {
		t.Errorf("shop name = %q", meta.ShopName)
	}
	if meta.OrderDate != "25 February, 2024" {
		t.Errorf("order date = %q", meta.OrderDate)
	}
	if meta.ItemCount != 2 {
		t.Errorf("item count = %d, want 2", meta.ItemCount)
	}
}

func TestExtractMetadataMissingField(t *testing.T) {
	tmpl := mustTemplate(t)

	// Drop the dispatch block entirely.
	text := strings.Replace(twoItemPage, "Scheduled to dispatch by\n29 February, 2024\n", "", 1)

	_, err := tmpl.ExtractMetadata(text)
	if !errors.Is(err, common.ErrMissingField) {
		t.Fatalf("err = %v, want ErrMissingField", err)
	}
	if !strings.Contains(err.Error(), "dispatch_date") {
		t.Errorf("error should name the missing field: %v", err)
	}
}

func TestExtractMetadataZeroCount(t *testing.T) {
	tmpl := mustTemplate(t)

	text := strings.Replace(twoItemPage, "2 items", "0 items", 1)
	_, err := tmpl.ExtractMetadata(text)
	if !errors.Is(err, common.ErrInvalidCount) {
		t.Fatalf("err = %v, want ErrInvalidCount", err)
	}
}

func TestExtractItems(t *testing.T) {
	tmpl := mustTemplate(t)

	items, multi, err := tmpl.ExtractItems(twoItemPage, 2)
	if err != nil {
		t.Fatalf("ExtractItems: %v", err)
	}
	if !multi {
		t.Error("two-item page should report multi")
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	first := items[0]
	if first.SKU != "HBL-TS-BLK-M" {
		t.Errorf("items[0].SKU = %q", first.SKU)
	}
	if first.Quantity != 2 {
		t.Errorf("items[0].Quantity = %d, want 2", first.Quantity)
	}
	if first.DesignCode != "1001" {
		t.Errorf("items[0].DesignCode = %q", first.DesignCode)
	}
	if first.Title != "Dragon Hoodie Mens Funny" {
		t.Errorf("items[0].Title = %q, marker tail should be dropped", first.Title)
	}

	second := items[1]
	if second.SKU != "HBL-HD-WHT-L" || second.Quantity != 1 || second.DesignCode != "1002" {
		t.Errorf("items[1] = %+v", second)
	}
	if second.Title != "Cool Cat Retro" {
		t.Errorf("items[1].Title = %q", second.Title)
	}
}

func TestExtractItemsSingle(t *testing.T) {
	tmpl := mustTemplate(t)

	items, multi, err := tmpl.ExtractItems(oneItemPage, 1)
	if err != nil {
		t.Fatalf("ExtractItems: %v", err)
	}
	if multi {
		t.Error("single-item page must not consume the sequence counter")
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].TypeCode() != "TS" {
		t.Errorf("TypeCode = %q, want TS", items[0].TypeCode())
	}
}

func TestExtractItemsCountMismatch(t *testing.T) {
	tmpl := mustTemplate(t)

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"expected count disagrees", twoItemPage, 3},
		{"field lists disagree", strings.Replace(twoItemPage, "SKU: HBL-HD-WHT-L\n", "", 1), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tmpl.ExtractItems(tt.text, tt.expected)
			if !errors.Is(err, common.ErrFieldCountMismatch) {
				t.Fatalf("err = %v, want ErrFieldCountMismatch", err)
			}
		})
	}
}

func TestParseTemplatesRejectsBadRules(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			"two capture groups",
			"templates:\n  - name: bad\n    metadata:\n      - field: item_count\n        pattern: '(\\d+)\\s+(item)'\n    items:\n      sku: 'SKU:(.*?)\\n'\n      quantity: '(\\d+) x'\n      design_code: '(\\d+)'\n      title: '(.*?)SKU'\n",
		},
		{
			"unknown metadata field",
			"templates:\n  - name: bad\n    metadata:\n      - field: tracking_no\n        pattern: '(\\d+)'\n    items:\n      sku: 'SKU:(.*?)\\n'\n      quantity: '(\\d+) x'\n      design_code: '(\\d+)'\n      title: '(.*?)SKU'\n",
		},
		{
			"missing item_count rule",
			"templates:\n  - name: bad\n    metadata:\n      - field: address\n        pattern: 'Deliver to(.*?)\\n'\n    items:\n      sku: 'SKU:(.*?)\\n'\n      quantity: '(\\d+) x'\n      design_code: '(\\d+)'\n      title: '(.*?)SKU'\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseTemplates([]byte(tt.yaml)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
