// Package pages turns the on-disk batch layout into RawPage values: one text
// file per manifest page, plus the shipping label images exported alongside
// them. Customs declarations ride with the postage label they follow instead
// of consuming a page slot of their own.
package pages

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/swanseaprintco/manifest-press/constants"
	"github.com/swanseaprintco/manifest-press/internal/entity"
)

// Batch is one loaded manifest batch: the customer reference parsed from the
// pack name and the ordered page list.
type Batch struct {
	Ref   string
	Pages []entity.RawPage
}

// Loader reads batch directories from the local filesystem.
type Loader struct {
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// labelSlot pairs a postage label with the customs declaration that
// optionally follows it in the label document.
type labelSlot struct {
	postage image.Image
	customs image.Image
}

// Load builds the batch from pagesDir (per-page text files, name order) and
// labelsDir (label images, name order). labelsDir may be empty; pages beyond
// the label count render without a label. packName is the name of the
// manifest pack the pages were converted from and carries the batch
// reference.
func (l *Loader) Load(pagesDir, labelsDir, assetFolder, packName string) (*Batch, error) {
	texts, err := l.readPageTexts(pagesDir)
	if err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("no %s pages in %s", constants.PageTextExtension, pagesDir)
	}

	var labels []labelSlot
	if labelsDir != "" {
		labels, err = l.readLabels(labelsDir)
		if err != nil {
			return nil, err
		}
	}

	batch := &Batch{Ref: BatchRef(packName)}
	for i, text := range texts {
		page := entity.RawPage{Text: text, AssetFolder: assetFolder}
		if i < len(labels) {
			page.PostageLabel = labels[i].postage
			page.CustomsLabel = labels[i].customs
		}
		batch.Pages = append(batch.Pages, page)
	}

	l.logger.Info("pages.load.ok",
		"ref", batch.Ref,
		"pages", len(batch.Pages),
		"labels", len(labels))
	return batch, nil
}

// readPageTexts reads every page text file in dir, sorted by file name so the
// upstream page numbering is preserved.
func (l *Loader) readPageTexts(dir string) ([]string, error) {
	names, err := sortedFiles(dir, func(ext string) bool {
		return ext == constants.PageTextExtension
	})
	if err != nil {
		return nil, fmt.Errorf("read pages dir: %w", err)
	}

	texts := make([]string, 0, len(names))
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read page %s: %w", name, err)
		}
		texts = append(texts, string(raw))
	}
	return texts, nil
}

// readLabels walks the label images in name order and folds customs
// declarations into the preceding postage label's slot. A customs page is
// recognized by its sidecar text file containing the customs marker; a
// leading customs page with no postage label before it is dropped.
func (l *Loader) readLabels(dir string) ([]labelSlot, error) {
	names, err := sortedFiles(dir, func(ext string) bool {
		_, ok := constants.LabelExtensions[ext]
		return ok
	})
	if err != nil {
		return nil, fmt.Errorf("read labels dir: %w", err)
	}

	var slots []labelSlot
	for _, name := range names {
		path := filepath.Join(dir, name)
		img, err := imaging.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open label %s: %w", name, err)
		}

		if l.isCustomsLabel(dir, name) {
			if len(slots) == 0 {
				l.logger.Warn("pages.labels.orphan_customs", "file", name)
				continue
			}
			slots[len(slots)-1].customs = img
			continue
		}
		slots = append(slots, labelSlot{postage: img})
	}
	return slots, nil
}

// isCustomsLabel checks the label's sidecar text file for the customs
// declaration marker. A label without a sidecar is a postage label.
func (l *Loader) isCustomsLabel(dir, imageName string) bool {
	base := strings.TrimSuffix(imageName, filepath.Ext(imageName))
	sidecar := filepath.Join(dir, base+"."+constants.PageTextExtension)
	raw, err := os.ReadFile(sidecar)
	if err != nil {
		return false
	}
	return strings.Contains(string(raw), constants.CustomsLabelMarker)
}

// BatchRef derives the customer reference from a pack file name: the last
// space-separated token of the base name without its extension.
func BatchRef(packName string) string {
	base := filepath.Base(packName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	fields := strings.Fields(base)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// sortedFiles lists the regular files in dir whose normalized extension
// passes keep, sorted by name.
func sortedFiles(dir string, keep func(ext string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if keep(constants.NormalizeExt(filepath.Ext(entry.Name()))) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
