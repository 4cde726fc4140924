package model

import "time"

// VerificationStaleAfter is how long a phone verification stays valid.
// Three calendar months, approximated as 90 days like the upstream flow.
const VerificationStaleAfter = 90 * 24 * time.Hour

// VerificationRecord tracks whether a customer's phone number passed a
// provider verification. One row per customer, created on first check.
// Phone is only ever set true immediately after an approved provider check.
type VerificationRecord struct {
	ID         int       `db:"id" json:"id"`
	CustomerID int       `db:"customer_id" json:"customer_id"`
	Phone      bool      `db:"phone" json:"phone"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// StaleAt reports whether the verification is stale at the given instant:
// older than the 90-day window, or timestamped in the future (clock skew).
func (v VerificationRecord) StaleAt(now time.Time) bool {
	elapsed := now.Sub(v.UpdatedAt)
	return elapsed < 0 || elapsed > VerificationStaleAfter
}
