package mapping

import (
	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	"github.com/hearthfin/hearth_finance_app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		Date:          d.Date,
		Description:   d.Description,
		CategoryID:    d.CategoryID,
		CategoryName:  d.CategoryName,
		Amount:        d.Amount,
		Type:          string(d.Type),
		AccountID:     d.AccountID,
		Status:        string(d.Status),
		Notes:         d.Notes,
		TransferID:    d.TransferID,
		AuditFields:   toModelAudit(d.AuditFields),
		Version:       d.Version,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		Date:          m.Date,
		Description:   m.Description,
		CategoryID:    m.CategoryID,
		CategoryName:  m.CategoryName,
		Amount:        m.Amount,
		Type:          domain.TransactionType(m.Type),
		AccountID:     m.AccountID,
		Status:        domain.TransactionStatus(m.Status),
		Notes:         m.Notes,
		TransferID:    m.TransferID,
		AuditFields:   toDomainAudit(m.AuditFields),
		Version:       m.Version,
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain rows.
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
