// Package source parses billing export CSV files into records the
// warehouse can store.
package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
)

// ParseResult holds the output of parsing one export file. Malformed
// rows are counted and skipped, never fatal.
type ParseResult struct {
	Records     []model.BillingRecord
	ParseErrors int
	Err         error
}

// Column aliases seen across billing export variants, lowercased.
var columnAliases = map[string][]string{
	"month":    {"invoice_month", "invoice month", "month", "billing_month"},
	"project":  {"project_id", "project id", "project", "project.id"},
	"service":  {"service_description", "service description", "service", "service.description", "sku"},
	"cost":     {"cost", "amount", "total_cost"},
	"currency": {"currency", "currency_code"},
}

// ParseFile reads a billing export CSV. The header row maps columns by
// name, so column order does not matter.
func ParseFile(path string) ParseResult {
	f, err := os.Open(path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Parse reads billing export CSV data from r.
func Parse(r io.Reader) ParseResult {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return ParseResult{Err: fmt.Errorf("reading header: %w", err)}
	}
	cols, err := mapColumns(header)
	if err != nil {
		return ParseResult{Err: err}
	}

	var result ParseResult
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.ParseErrors++
			continue
		}
		rec, ok := parseRow(row, cols)
		if !ok {
			result.ParseErrors++
			continue
		}
		result.Records = append(result.Records, rec)
	}
	return result
}

// columns holds the resolved index per logical field; currency may be
// absent (-1) and defaults to USD.
type columns struct {
	month, project, service, cost, currency int
}

func mapColumns(header []string) (columns, error) {
	index := func(field string) int {
		for i, h := range header {
			h = strings.ToLower(strings.TrimSpace(h))
			for _, alias := range columnAliases[field] {
				if h == alias {
					return i
				}
			}
		}
		return -1
	}

	cols := columns{
		month:    index("month"),
		project:  index("project"),
		service:  index("service"),
		cost:     index("cost"),
		currency: index("currency"),
	}
	if cols.month < 0 || cols.project < 0 || cols.service < 0 || cols.cost < 0 {
		return columns{}, fmt.Errorf("export header missing required columns (got %v)", header)
	}
	return cols, nil
}

func parseRow(row []string, cols columns) (model.BillingRecord, bool) {
	max := cols.cost
	for _, i := range []int{cols.month, cols.project, cols.service} {
		if i > max {
			max = i
		}
	}
	if len(row) <= max {
		return model.BillingRecord{}, false
	}

	month, err := model.ParsePeriod(strings.TrimSpace(row[cols.month]))
	if err != nil {
		return model.BillingRecord{}, false
	}
	cost, err := model.NewMoney(strings.TrimSpace(row[cols.cost]))
	if err != nil {
		return model.BillingRecord{}, false
	}

	rec := model.BillingRecord{
		Month:    month,
		Project:  strings.TrimSpace(row[cols.project]),
		Service:  strings.TrimSpace(row[cols.service]),
		Cost:     cost,
		Currency: "USD",
	}
	if rec.Project == "" || rec.Service == "" {
		return model.BillingRecord{}, false
	}
	if cols.currency >= 0 && cols.currency < len(row) {
		if c := strings.ToUpper(strings.TrimSpace(row[cols.currency])); c != "" {
			rec.Currency = c
		}
	}
	return rec, true
}
