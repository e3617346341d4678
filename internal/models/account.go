package models

// Account is the database representation of a household account.
type Account struct {
	AccountID    string `db:"account_id"`
	Name         string `db:"name"`
	CurrencyCode string `db:"currency_code"`
	AuditFields
	Version int64 `db:"version"`
}
