// Package csvparse turns raw delimited text plus a column mapping into
// candidate transaction rows. Parsing never aborts on a single bad row: each
// failure is reported with its 1-based data row number and the row is
// skipped.
package csvparse

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hearthfin/hearth_finance_app/internal/apperrors"
	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultDateFormat is used when the mapping does not declare one.
const DefaultDateFormat = "2006-01-02"

// fallbackDateFormats are tried in order when no explicit format is mapped.
var fallbackDateFormats = []string{DefaultDateFormat, "02/01/2006", "2/01/2006"}

// Mapping declares how to read a CSV export: which delimiter it uses,
// whether the first row is a header, and which columns hold the required
// fields. Column indexes are zero-based.
type Mapping struct {
	Delimiter         rune
	HasHeader         bool
	DateColumn        int
	AmountColumn      int
	DescriptionColumn int
	DateFormat        string
}

// Row is a candidate transaction extracted from one CSV data row.
type Row struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        domain.TransactionType
}

// RowError reports a data row that could not be parsed. Row is 1-based over
// the data rows (the header, when declared, is not counted).
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Parse splits raw into records using the declared delimiter and extracts
// candidate rows in input order. It returns a validation error only for a
// malformed mapping; individual bad rows land in the RowError slice instead.
func Parse(raw string, m Mapping) ([]Row, []RowError, error) {
	switch m.Delimiter {
	case ',', ';', '\t', '|':
	default:
		return nil, nil, fmt.Errorf("%w: unsupported delimiter %q", apperrors.ErrValidation, m.Delimiter)
	}
	if m.DateColumn < 0 || m.AmountColumn < 0 || m.DescriptionColumn < 0 {
		return nil, nil, fmt.Errorf("%w: column indexes must be non-negative", apperrors.ErrValidation)
	}

	r := csv.NewReader(strings.NewReader(raw))
	r.Comma = m.Delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var (
		rows      []Row
		rowErrors []RowError
		rowNum    int
		recordNum int
	)

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		recordNum++
		// The header is the first physical record whether or not it parsed,
		// so a malformed header never shifts data row numbering or swallows
		// the first data row.
		if m.HasHeader && recordNum == 1 {
			continue
		}
		rowNum++
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Message: fmt.Sprintf("malformed record: %v", err)})
			continue
		}

		row, err := extractRow(record, m)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		rows = append(rows, row)
	}

	return rows, rowErrors, nil
}

func extractRow(record []string, m Mapping) (Row, error) {
	maxCol := m.DateColumn
	if m.AmountColumn > maxCol {
		maxCol = m.AmountColumn
	}
	if m.DescriptionColumn > maxCol {
		maxCol = m.DescriptionColumn
	}
	if len(record) <= maxCol {
		return Row{}, fmt.Errorf("expected at least %d columns, got %d", maxCol+1, len(record))
	}

	description := strings.TrimSpace(record[m.DescriptionColumn])
	if description == "" {
		return Row{}, fmt.Errorf("description is empty")
	}

	date, err := parseDate(strings.TrimSpace(record[m.DateColumn]), m.DateFormat)
	if err != nil {
		return Row{}, err
	}

	amount, err := parseAmount(strings.TrimSpace(record[m.AmountColumn]))
	if err != nil {
		return Row{}, err
	}

	txnType := domain.Income
	if amount.IsNegative() {
		txnType = domain.Expense
	}

	return Row{Date: date, Description: description, Amount: amount, Type: txnType}, nil
}

func parseDate(raw, format string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	if format != "" {
		t, err := time.Parse(format, raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q for format %q", raw, format)
		}
		return t, nil
	}
	for _, f := range fallbackDateFormats {
		if t, err := time.Parse(f, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// parseAmount coerces bank-export amount spellings: thousands separators are
// stripped and parenthesized amounts are treated as negative.
func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Decimal{}, fmt.Errorf("amount is empty")
	}
	negative := false
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		negative = true
		raw = raw[1 : len(raw)-1]
	}
	raw = strings.ReplaceAll(raw, ",", "")
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q", raw)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}
