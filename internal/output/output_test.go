package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/image/colornames"

	"github.com/swanseaprintco/manifest-press/internal/entity"
)

func TestWritePDF(t *testing.T) {
	pages := []entity.RenderedPage{
		{Image: imaging.New(120, 170, colornames.White), SortKey: "1.1", PageIndex: 1},
		{Image: imaging.New(120, 170, colornames.Grey), SortKey: "4.1.", PageIndex: 0},
	}
	out := filepath.Join(t.TempDir(), "out", "output.pdf")

	if err := NewWriter(nil).WritePDF(pages, out); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("output is empty")
	}
	if err := api.ValidateFile(out, nil); err != nil {
		t.Errorf("output is not a valid PDF: %v", err)
	}
	count, err := api.PageCountFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("page count = %d, want 2", count)
	}
}

func TestWritePDFEmpty(t *testing.T) {
	err := NewWriter(nil).WritePDF(nil, filepath.Join(t.TempDir(), "output.pdf"))
	if err == nil {
		t.Fatal("empty batch must not produce a PDF")
	}
}
