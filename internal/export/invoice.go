package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/swanseaprintco/manifest-press/internal/catalog"
	"github.com/swanseaprintco/manifest-press/internal/entity"
)

// The invoice body always shows itemRowCount lines; short batches are padded
// with placeholder rows so the totals block sits at a fixed position.
const (
	itemRowCount = 16
	dueDateDays  = 5
	taxRate      = 0.0
)

// BuildInvoice returns the invoice workbook for one batch. Line items arrive
// pre-aggregated by type code; descriptions and unit prices come from the
// lookup tables, and the billing block from the customer register entry for
// customerID. An unpriced or undescribed type code falls back to the code
// itself at zero price rather than failing the batch.
func (s *Service) BuildInvoice(rows []entity.InvoiceRow, lookups *catalog.Lookups, customerID string, runDate time.Time) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Invoice"
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

	write(1, 1, "INVOICE")

	write(1, 3, "BILL TO")
	customer, err := lookups.Customer(customerID)
	if err != nil {
		s.logger.Warn("export.invoice.unknown_customer", "customer_id", customerID)
	} else {
		write(1, 4, customer.CompanyName)
		write(1, 5, customer.Address)
		write(1, 6, customer.City)
		write(1, 7, customer.Postcode)
		write(1, 8, customer.Phone)
	}

	write(4, 3, "INVOICE DATE")
	write(5, 3, runDate.Format("02/01/2006"))
	write(4, 4, "DUE DATE")
	write(5, 4, runDate.AddDate(0, 0, dueDateDays).Format("02/01/2006"))

	const headerRow = 10
	headers := []string{"DESCRIPTION", "UNIT PRICE", "QTY", "TAXED", "AMOUNT"}
	for i, h := range headers {
		write(i+1, headerRow, h)
	}

	if len(rows) > itemRowCount {
		s.logger.Warn("export.invoice.line_overflow", "lines", len(rows), "kept", itemRowCount)
	}

	subtotal := 0.0
	for i := 0; i < itemRowCount; i++ {
		row := headerRow + 1 + i
		if i >= len(rows) {
			write(5, row, "-")
			continue
		}

		line := rows[i]
		description, ok := lookups.Descriptions[line.TypeCode]
		if !ok {
			description = line.TypeCode
			s.logger.Warn("export.invoice.no_description", "type_code", line.TypeCode)
		}
		price, ok := lookups.Prices[line.TypeCode]
		if !ok {
			s.logger.Warn("export.invoice.no_price", "type_code", line.TypeCode)
		}
		amount := price * float64(line.Quantity)
		subtotal += amount

		write(1, row, description)
		write(2, row, price)
		write(3, row, line.Quantity)
		write(4, row, "")
		write(5, row, amount)
	}

	totalsRow := headerRow + itemRowCount + 2
	tax := subtotal * taxRate
	write(4, totalsRow, "Subtotal")
	write(5, totalsRow, subtotal)
	write(4, totalsRow+1, fmt.Sprintf("Tax %.3f%%", taxRate*100))
	write(5, totalsRow+1, tax)
	write(4, totalsRow+2, "TOTAL")
	write(5, totalsRow+2, subtotal+tax)

	_ = f.SetColWidth(sheet, "A", "A", 36)
	_ = f.SetColWidth(sheet, "B", "E", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.invoice.ok",
		"lines", len(rows),
		"customer_id", customerID,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
