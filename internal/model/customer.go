package model

// Recipient is a campaign target supplied in the request payload. It is
// transient: recipients are not persisted in this flow, only referenced by
// id from outbound messages. Fields supplies placeholder values for the
// campaign body, looked up by name.
type Recipient struct {
	ID     int               `json:"id"`
	Phone  string            `json:"phone"`
	Fields map[string]string `json:"fields"`
}

// Customer is the stored loyalty customer, used by the seeder and attached
// to campaign listings.
type Customer struct {
	ID        int    `db:"id" json:"id"`
	Phone     string `db:"phone" json:"phone"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}
