package dto

import (
	"fmt"
	"time"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	"github.com/hearthfin/hearth_finance_app/internal/utils/csvparse"
	"github.com/shopspring/decimal"
)

// PreviewLimit bounds the candidate preview returned by a dry-run import.
const PreviewLimit = 20

// CSVMappingRequest declares the shape of an uploaded CSV export. Delimiter
// names are symbolic so they survive JSON transport.
type CSVMappingRequest struct {
	Delimiter         string `json:"delimiter" binding:"required,oneof=comma semicolon tab pipe"`
	HasHeader         bool   `json:"hasHeader"`
	DateColumn        int    `json:"dateColumn" binding:"min=0"`
	AmountColumn      int    `json:"amountColumn" binding:"min=0"`
	DescriptionColumn int    `json:"descriptionColumn" binding:"min=0"`
	DateFormat        string `json:"dateFormat"` // Go reference layout; optional
}

// ToMapping converts the wire mapping to the parser's mapping.
func (r CSVMappingRequest) ToMapping() (csvparse.Mapping, error) {
	var delim rune
	switch r.Delimiter {
	case "comma":
		delim = ','
	case "semicolon":
		delim = ';'
	case "tab":
		delim = '\t'
	case "pipe":
		delim = '|'
	default:
		return csvparse.Mapping{}, fmt.Errorf("unsupported delimiter %q", r.Delimiter)
	}
	return csvparse.Mapping{
		Delimiter:         delim,
		HasHeader:         r.HasHeader,
		DateColumn:        r.DateColumn,
		AmountColumn:      r.AmountColumn,
		DescriptionColumn: r.DescriptionColumn,
		DateFormat:        r.DateFormat,
	}, nil
}

// ImportTransactionsRequest carries raw CSV text, its mapping, the target
// account, and the dry-run flag.
type ImportTransactionsRequest struct {
	AccountID string            `json:"accountID" binding:"required,uuid"`
	CSV       string            `json:"csv" binding:"required"`
	Mapping   CSVMappingRequest `json:"mapping" binding:"required"`
	DryRun    bool              `json:"dryRun"`
}

// CandidateRow is one parsed CSV row as it would be imported.
type CandidateRow struct {
	Date        time.Time              `json:"date"`
	Description string                 `json:"description"`
	Amount      decimal.Decimal        `json:"amount"`
	Type        domain.TransactionType `json:"type"`
}

// ImportTransactionsResponse reports a dry-run preview or a committed
// import. Preview holds at most PreviewLimit candidates and is only
// populated for dry runs; Imported is zero for dry runs.
type ImportTransactionsResponse struct {
	DryRun    bool                `json:"dryRun"`
	Total     int                 `json:"total"`
	Imported  int                 `json:"imported"`
	Preview   []CandidateRow      `json:"preview,omitempty"`
	RowErrors []csvparse.RowError `json:"rowErrors"`
}
