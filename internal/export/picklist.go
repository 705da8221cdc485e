// Package export builds the two XLSX workbooks a completed batch ships with:
// the warehouse pick list and the customer invoice.
package export

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/swanseaprintco/manifest-press/internal/entity"
)

// Service produces XLSX bytes for batch reports.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// pickKey groups pick rows for the warehouse: one line per garment, size and
// colour combination.
type pickKey struct {
	Name   string
	Size   string
	Colour string
}

// BuildPickList returns the pick-list workbook. Rows are grouped by
// (name, size, colour), quantities summed, and ordered by the same triple.
func (s *Service) BuildPickList(rows []entity.PickListRow) ([]byte, error) {
	start := time.Now()

	totals := make(map[pickKey]int)
	for _, r := range rows {
		totals[pickKey{r.Name, r.Size, r.Colour}] += r.Quantity
	}

	keys := make([]pickKey, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].Name != keys[b].Name {
			return keys[a].Name < keys[b].Name
		}
		if keys[a].Size != keys[b].Size {
			return keys[a].Size < keys[b].Size
		}
		return keys[a].Colour < keys[b].Colour
	})

	f := excelize.NewFile()
	const sheet = "Pick List"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	headers := []string{"GARMENT", "SIZE", "COLOUR", "QUANTITY"}
	for i, h := range headers {
		write(i+1, 1, h)
	}

	row := 2
	for _, k := range keys {
		write(1, row, k.Name)
		write(2, row, k.Size)
		write(3, row, k.Colour)
		write(4, row, totals[k])
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 22)
	_ = f.SetColWidth(sheet, "B", "C", 14)
	_ = f.SetColWidth(sheet, "D", "D", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.picklist.ok",
		"lines", len(keys),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
