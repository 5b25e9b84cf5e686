package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

const (
	milkDataRange     = "Milk!A:D"
	paymentsDataRange = "Payments!A:B"
	usersDataRange    = "Users!A:B"
)

// Source serves dashboard records from spreadsheet tabs whose first row
// names the columns (date, time, liters, total / amount / role).
type Source struct {
	repo Repository
}

// NewSource wraps a sheet repository.
func NewSource(repo Repository) *Source {
	return &Source{repo: repo}
}

// FetchMilkEntries reads the Milk tab.
func (s *Source) FetchMilkEntries(ctx context.Context) ([]models.Record, error) {
	return s.readRecords(ctx, milkDataRange)
}

// FetchPayments reads the Payments tab.
func (s *Source) FetchPayments(ctx context.Context) ([]models.Record, error) {
	return s.readRecords(ctx, paymentsDataRange)
}

// FetchUsers reads the Users tab.
func (s *Source) FetchUsers(ctx context.Context) ([]models.Record, error) {
	return s.readRecords(ctx, usersDataRange)
}

func (s *Source) readRecords(ctx context.Context, sheetRange string) ([]models.Record, error) {
	rows, err := s.repo.ReadRange(ctx, sheetRange)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", sheetRange, err)
	}
	return rowsToRecords(rows), nil
}

// rowsToRecords keys every data row by the header row. Blank rows are
// skipped; short rows simply lack the trailing keys.
func rowsToRecords(rows [][]interface{}) []models.Record {
	if len(rows) == 0 {
		return nil
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(fmt.Sprint(cell)))
	}

	records := make([]models.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(models.Record, len(row))
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if str, ok := cell.(string); ok && strings.TrimSpace(str) == "" {
				continue
			}
			rec[header[i]] = cell
		}
		if len(rec) == 0 {
			continue
		}
		records = append(records, rec)
	}

	return records
}
