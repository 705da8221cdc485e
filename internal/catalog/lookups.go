package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/swanseaprintco/manifest-press/internal/common"
)

// Customer holds one row of the customer details file.
type Customer struct {
	ID          string
	CompanyName string
	Address     string
	City        string
	Postcode    string
	Phone       string
}

// Lookups bundles the flat lookup tables the invoice builder needs: type
// code -> product description, type code -> unit price, and the customer
// register.
type Lookups struct {
	Descriptions map[string]string
	Prices       map[string]float64
	customers    map[string]Customer
}

// LoadLookups reads the three lookup CSVs. descPath and pricePath are plain
// two-column key,value files; customersPath carries a header row.
func LoadLookups(descPath, pricePath, customersPath string) (*Lookups, error) {
	descriptions, err := loadKeyValueFile(descPath)
	if err != nil {
		return nil, fmt.Errorf("descriptions: %w", err)
	}

	rawPrices, err := loadKeyValueFile(pricePath)
	if err != nil {
		return nil, fmt.Errorf("prices: %w", err)
	}
	prices := make(map[string]float64, len(rawPrices))
	for code, raw := range rawPrices {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue // header rows and stray notes
		}
		prices[code] = p
	}

	customers, err := loadCustomersFile(customersPath)
	if err != nil {
		return nil, fmt.Errorf("customers: %w", err)
	}

	return &Lookups{Descriptions: descriptions, Prices: prices, customers: customers}, nil
}

// Customer returns the register entry for a customer ID.
func (l *Lookups) Customer(id string) (Customer, error) {
	c, ok := l.customers[id]
	if !ok {
		return Customer{}, fmt.Errorf("customer %q: %w", id, common.ErrNotFound)
	}
	return c, nil
}

func loadKeyValueFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	out := make(map[string]string)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 2 {
			continue
		}
		out[strings.TrimSpace(row[0])] = strings.TrimSpace(row[1])
	}
	return out, nil
}

func loadCustomersFile(path string) (map[string]Customer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	field := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make(map[string]Customer)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		id := field(row, "Customer ID")
		if id == "" {
			continue
		}
		out[id] = Customer{
			ID:          id,
			CompanyName: field(row, "Company Name"),
			Address:     field(row, "Address"),
			City:        field(row, "City"),
			Postcode:    field(row, "Postcode"),
			Phone:       field(row, "Phone"),
		}
	}
	return out, nil
}
