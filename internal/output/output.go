// Package output writes the composed batch document: every rendered page is
// encoded to PNG in its final sorted position and the set is bound into a
// single PDF.
package output

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/swanseaprintco/manifest-press/internal/entity"
)

// Writer binds rendered pages into the batch output PDF.
type Writer struct {
	logger *slog.Logger
}

func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// WritePDF encodes pages in slice order and imports them into outPath. Page
// slots in the PDF match the slice exactly; callers pass the sorted page
// list. Any write failure fails the batch.
func (w *Writer) WritePDF(pages []entity.RenderedPage, outPath string) error {
	if len(pages) == 0 {
		return fmt.Errorf("no pages to write")
	}
	start := time.Now()

	tmpDir, err := os.MkdirTemp("", "manifest-press-pages-*")
	if err != nil {
		return fmt.Errorf("page staging dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	files := make([]string, 0, len(pages))
	for i, page := range pages {
		path := filepath.Join(tmpDir, fmt.Sprintf("page-%04d.png", i+1))
		if err := imaging.Save(page.Image, path); err != nil {
			return fmt.Errorf("encode page %d: %w", i+1, err)
		}
		files = append(files, path)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}
	// Default import sizes each PDF page to its image dimensions.
	if err := api.ImportImagesFile(files, outPath, pdfcpu.DefaultImportConfig(), model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}

	w.logger.Info("output.pdf.ok",
		"path", outPath,
		"pages", len(pages),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
