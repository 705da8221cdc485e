package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/swanseaprintco/manifest-press/internal/common"
	"github.com/swanseaprintco/manifest-press/internal/entity"
)

const skuListCSV = `SKU,Garment Type,Size,Colour,Design Folder,"PDF PNG Rename (Add Seq(1.,2.,3.etc)"
HBL-TS-BLK-M,T-Shirt,Medium,Black,1. T-Shirts,1.
HBL-HD-WHT-L,Hoodie,Large,White,2. Hoodies,2.
,Ignored,,,,
`

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load(strings.NewReader(skuListCSV))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestLoad(t *testing.T) {
	c := testCatalog(t)
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (blank SKU row skipped)", c.Len())
	}

	entry, ok := c.Lookup("HBL-TS-BLK-M")
	if !ok {
		t.Fatal("HBL-TS-BLK-M not found")
	}
	if entry.GarmentType != "T-Shirt" || entry.Size != "Medium" || entry.Colour != "Black" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.DesignFolder != "1. T-Shirts" {
		t.Errorf("design folder = %q", entry.DesignFolder)
	}
	if entry.RenamePrefix != "1." {
		t.Errorf("rename prefix = %q", entry.RenamePrefix)
	}

	if _, ok := c.Lookup("HBL-XX-NOP-E"); ok {
		t.Error("unknown SKU should not resolve")
	}
}

func TestLoadMissingSKUColumn(t *testing.T) {
	_, err := Load(strings.NewReader("Garment Type,Size\nT-Shirt,M\n"))
	if err == nil {
		t.Fatal("expected error for missing SKU column")
	}
}

func TestEnrichSingleItem(t *testing.T) {
	e := NewEnricher(testCatalog(t))

	item := entity.ItemRecord{SKU: "HBL-TS-BLK-M", Quantity: 1, DesignCode: "1001"}
	if err := e.Enrich(&item, false, 0, 0); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if item.RenameToken != "1.1" {
		t.Errorf("rename token = %q, want %q", item.RenameToken, "1.1")
	}
	if item.GarmentType != "T-Shirt" || item.Size != "Medium" || item.Colour != "Black" {
		t.Errorf("item = %+v", item)
	}
	if !item.Enriched {
		t.Error("item should be marked enriched")
	}
}

func TestEnrichMultiItemTokens(t *testing.T) {
	e := NewEnricher(testCatalog(t))

	// k-th item (1-indexed) at counter value C must get "4.C.k." exactly.
	tests := []struct {
		seq, pos int
		want     string
	}{
		{1, 0, "4.1.1."},
		{1, 1, "4.1.2."},
		{7, 2, "4.7.3."},
	}
	for _, tt := range tests {
		item := entity.ItemRecord{SKU: "HBL-HD-WHT-L", Quantity: 1}
		if err := e.Enrich(&item, true, tt.seq, tt.pos); err != nil {
			t.Fatalf("Enrich(seq=%d,pos=%d): %v", tt.seq, tt.pos, err)
		}
		if item.RenameToken != tt.want {
			t.Errorf("token(seq=%d,pos=%d) = %q, want %q", tt.seq, tt.pos, item.RenameToken, tt.want)
		}
	}
}

func TestEnrichCatalogMiss(t *testing.T) {
	e := NewEnricher(testCatalog(t))

	item := entity.ItemRecord{SKU: "HBL-XX-NOP-E", Quantity: 1}
	err := e.Enrich(&item, true, 3, 0)
	if !errors.Is(err, common.ErrCatalogMiss) {
		t.Fatalf("err = %v, want ErrCatalogMiss", err)
	}
	if item.Enriched || item.RenameToken != "" || item.GarmentType != "" {
		t.Errorf("missed item must stay unenriched: %+v", item)
	}
}

func TestLoadLookups(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	desc := write("desc.csv", "SKU TYPE,DESCRIPTION\nTS,Printed T-Shirt\nHD,Printed Hoodie\n")
	price := write("price.csv", "SKU TYPE,PRICE\nTS,4.50\nHD,9.00\n")
	customers := write("customers.csv",
		"Customer ID,Company Name,Address,City,Postcode,Phone\n10001,Harbour Gifts,5 Quay Road,Swansea,SA1 1AA,01792 000000\n")

	l, err := LoadLookups(desc, price, customers)
	if err != nil {
		t.Fatalf("LoadLookups: %v", err)
	}
	if l.Descriptions["TS"] != "Printed T-Shirt" {
		t.Errorf("description TS = %q", l.Descriptions["TS"])
	}
	if l.Prices["HD"] != 9.00 {
		t.Errorf("price HD = %v", l.Prices["HD"])
	}
	if _, ok := l.Prices["SKU TYPE"]; ok {
		t.Error("header row must not become a price entry")
	}

	c, err := l.Customer("10001")
	if err != nil {
		t.Fatalf("Customer: %v", err)
	}
	if c.CompanyName != "Harbour Gifts" || c.Postcode != "SA1 1AA" {
		t.Errorf("customer = %+v", c)
	}
	if _, err := l.Customer("99999"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("unknown customer err = %v", err)
	}
}
