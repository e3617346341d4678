package domain

// Account represents one of the household's financial accounts.
// Name is unique across the store (trimmed, non-empty).
type Account struct {
	AccountID    string `json:"accountID"` // Primary Key (UUID)
	Name         string `json:"name"`
	CurrencyCode string `json:"currencyCode"` // e.g. "USD"
	AuditFields
	Version int64 `json:"version"` // Sync version token, strictly increasing per write
}
