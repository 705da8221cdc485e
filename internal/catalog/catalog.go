// Package catalog loads the static SKU catalog and the invoice lookup tables
// from the flat CSV files maintained by the shop, and enriches extracted item
// records with catalog attributes.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Column headers of the SKU list file. The rename column name is what the
// spreadsheet actually uses; do not tidy it up.
const (
	colSKU          = "SKU"
	colGarmentType  = "Garment Type"
	colSize         = "Size"
	colColour       = "Colour"
	colDesignFolder = "Design Folder"
	colRenamePrefix = "PDF PNG Rename (Add Seq(1.,2.,3.etc)"
)

// Entry holds the catalog attributes for one SKU.
type Entry struct {
	GarmentType  string
	Size         string
	Colour       string
	DesignFolder string
	RenamePrefix string
}

// Catalog maps SKU -> catalog attributes. Read-only after load.
type Catalog struct {
	entries map[string]Entry
}

// Lookup returns the entry for a SKU, and whether it exists.
func (c *Catalog) Lookup(sku string) (Entry, bool) {
	e, ok := c.entries[sku]
	return e, ok
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// LoadFile reads the SKU list CSV from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads the SKU list CSV. The first row is the header; later rows are
// keyed by their SKU column. Blank SKUs are skipped.
func Load(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	if _, ok := idx[colSKU]; !ok {
		return nil, fmt.Errorf("catalog is missing the %q column", colSKU)
	}

	field := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	entries := make(map[string]Entry)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}
		sku := field(row, colSKU)
		if sku == "" {
			continue
		}
		entries[sku] = Entry{
			GarmentType:  field(row, colGarmentType),
			Size:         field(row, colSize),
			Colour:       field(row, colColour),
			DesignFolder: field(row, colDesignFolder),
			RenamePrefix: field(row, colRenamePrefix),
		}
	}
	return &Catalog{entries: entries}, nil
}
