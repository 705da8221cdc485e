package compose

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"golang.org/x/image/colornames"

	"github.com/swanseaprintco/manifest-press/internal/entity"
)

func TestWrapTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		line1 string
		line2 string
	}{
		{
			"short stays on one line",
			"Welsh Dragon Vintage",
			"Welsh Dragon Vintage", "",
		},
		{
			"long breaks at preceding word boundary",
			"Dragon Hoodie Mens Funny Vintage Retro Present Idea",
			// budget is 40; the boundary before it is after "Retro".
			"Dragon Hoodie Mens Funny Vintage Retro", "Present Idea",
		},
		{
			"embedded newline treated as space",
			"Dragon Hoodie\nMens Funny",
			"Dragon Hoodie Mens Funny", "",
		},
		{
			"single over-long word is hard cut",
			strings.Repeat("x", 45),
			strings.Repeat("x", 40), strings.Repeat("x", 5),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l1, l2 := wrapTitle(tt.title, 40)
			if l1 != tt.line1 || l2 != tt.line2 {
				t.Errorf("wrapTitle = %q / %q, want %q / %q", l1, l2, tt.line1, tt.line2)
			}
		})
	}
}

func TestWrapTitleExactlyTwoLines(t *testing.T) {
	long := "One Two Three Four Five Six Seven Eight Nine Ten Eleven Twelve"
	l1, l2 := wrapTitle(long, 40)
	if l2 == "" {
		t.Fatal("over-budget title must wrap into a second line")
	}
	if len([]rune(l1)) > 40 {
		t.Errorf("first line exceeds budget: %q", l1)
	}
	if strings.Join([]string{l1, l2}, " ") != long {
		t.Errorf("wrap must not lose text: %q / %q", l1, l2)
	}
}

func writeDesignPNG(t *testing.T, dir, designCode string) {
	t.Helper()
	img := imaging.New(120, 120, colornames.Steelblue)
	if err := imaging.Save(img, filepath.Join(dir, designCode+".png")); err != nil {
		t.Fatal(err)
	}
}

func testOrder(items ...entity.ItemRecord) entity.OrderRecord {
	return entity.OrderRecord{
		Metadata: entity.OrderMetadata{
			Address:      "John Smith\n31 Oxford Street\nSwansea SA1 3AN",
			DispatchDate: "29 February, 2024",
			ShopName:     "SwanseaPrintCo",
			OrderDate:    "25 February, 2024",
			ItemCount:    len(items),
		},
		Items:        items,
		DesignFolder: "1. T-Shirts",
		SortKey:      "1.1",
	}
}

func TestComposePage(t *testing.T) {
	assets := t.TempDir()
	target := t.TempDir()
	writeDesignPNG(t, assets, "1001")

	item := entity.ItemRecord{
		SKU: "HBL-TS-BLK-M", Quantity: 2, DesignCode: "1001",
		Title: "Dragon Hoodie Mens Funny", GarmentType: "T-Shirt",
		Size: "Medium", Colour: "Black",
		DesignFolder: "1. T-Shirts", RenameToken: "1.1", Enriched: true,
	}

	c := NewComposer(55, nil)
	result, err := c.ComposePage(testOrder(item), nil, nil, assets, target)
	if err != nil {
		t.Fatalf("ComposePage: %v", err)
	}
	if result.Image == nil {
		t.Fatal("no page image")
	}
	if got := result.Image.Bounds(); got.Dx() != pageWidth || got.Dy() != pageHeight {
		t.Errorf("page bounds = %v", got)
	}
	if len(result.MissingAssets) != 0 {
		t.Errorf("unexpected missing assets: %v", result.MissingAssets)
	}

	renamed := filepath.Join(target, "1. T-Shirts", "1.1.png")
	if _, err := os.Stat(renamed); err != nil {
		t.Errorf("renamed asset not written: %v", err)
	}
}

func TestComposePageMissingThumbnail(t *testing.T) {
	assets := t.TempDir()
	target := t.TempDir()

	item := entity.ItemRecord{
		SKU: "HBL-TS-BLK-M", Quantity: 1, DesignCode: "9999",
		Title: "Ghost Design", Size: "Small", Colour: "Red",
		DesignFolder: "1. T-Shirts", RenameToken: "1.1", Enriched: true,
	}

	c := NewComposer(55, nil)
	result, err := c.ComposePage(testOrder(item), nil, nil, assets, target)
	if err != nil {
		t.Fatalf("missing thumbnail must not fail the page: %v", err)
	}
	if result.Image == nil {
		t.Fatal("page must still render without the thumbnail")
	}
	if len(result.MissingAssets) != 1 {
		t.Fatalf("missing assets = %v, want exactly one entry", result.MissingAssets)
	}
	if want := filepath.Join(assets, "9999.png"); result.MissingAssets[0] != want {
		t.Errorf("missing asset path = %q, want %q", result.MissingAssets[0], want)
	}
}

func TestComposePageUnenrichedItem(t *testing.T) {
	assets := t.TempDir()
	target := t.TempDir()
	writeDesignPNG(t, assets, "1001")

	// Catalog miss: the PNG exists, but without a design folder and rename
	// token there is nowhere to copy it. The item still renders as text.
	item := entity.ItemRecord{SKU: "HBL-XX-NOP-E", Quantity: 1, DesignCode: "1001", Title: "Unknown"}

	c := NewComposer(55, nil)
	result, err := c.ComposePage(testOrder(item), nil, nil, assets, target)
	if err != nil {
		t.Fatalf("ComposePage: %v", err)
	}
	if len(result.MissingAssets) != 1 {
		t.Errorf("missing assets = %v, want the unenriched item recorded", result.MissingAssets)
	}
	entries, err := os.ReadDir(target)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("nothing should be copied for an unenriched item, got %v", entries)
	}
}
