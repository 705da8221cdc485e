package assemble

import (
	"errors"
	"testing"

	"github.com/swanseaprintco/manifest-press/constants"
	"github.com/swanseaprintco/manifest-press/internal/common"
	"github.com/swanseaprintco/manifest-press/internal/entity"
)

func TestAssembleSingleItem(t *testing.T) {
	items := []entity.ItemRecord{
		{SKU: "HBL-TS-BLK-M", RenameToken: "1.1", DesignFolder: "1. T-Shirts", Enriched: true},
	}

	order, err := Assemble(entity.OrderMetadata{ItemCount: 1}, items)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if order.SortKey != "1.1" {
		t.Errorf("sort key = %q, want token verbatim", order.SortKey)
	}
	if order.DesignFolder != "1. T-Shirts" {
		t.Errorf("design folder = %q, want the item's catalog folder", order.DesignFolder)
	}
}

func TestAssembleMultiItem(t *testing.T) {
	items := []entity.ItemRecord{
		{SKU: "HBL-TS-BLK-M", RenameToken: "4.3.1.", Enriched: true},
		{SKU: "HBL-HD-WHT-L", RenameToken: "4.3.2.", Enriched: true},
	}

	order, err := Assemble(entity.OrderMetadata{ItemCount: 2}, items)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if order.SortKey != "4.3." {
		t.Errorf("sort key = %q, want first token truncated to %d chars", order.SortKey, sortKeyPrefixLen)
	}
	if order.DesignFolder != constants.MultiOrderFolder {
		t.Errorf("design folder = %q, want %q", order.DesignFolder, constants.MultiOrderFolder)
	}
}

func TestAssembleUnenrichedFirstItem(t *testing.T) {
	// Catalog miss: empty rename token must not crash sort-key assignment.
	items := []entity.ItemRecord{
		{SKU: "HBL-XX-NOP-E"},
		{SKU: "HBL-HD-WHT-L", RenameToken: "4.1.2.", Enriched: true},
	}

	order, err := Assemble(entity.OrderMetadata{ItemCount: 2}, items)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if order.SortKey != "" {
		t.Errorf("sort key = %q, want empty for unenriched first item", order.SortKey)
	}
}

func TestAssembleEmpty(t *testing.T) {
	_, err := Assemble(entity.OrderMetadata{}, nil)
	if !errors.Is(err, common.ErrEmptyOrder) {
		t.Fatalf("err = %v, want ErrEmptyOrder", err)
	}
}
