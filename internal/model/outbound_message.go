package model

import "time"

// OutboundMessage is one provider-accepted SMS, one row per
// (campaign, recipient) pair. Price stays nil until the first delivery
// callback fetches it from the provider; it is set at most once.
type OutboundMessage struct {
	ID         int       `db:"id" json:"id"`
	CampaignID int       `db:"campaign_id" json:"campaign_id"`
	CustomerID int       `db:"customer_id" json:"customer_id"`
	Sid        string    `db:"sid" json:"sid"`
	Status     string    `db:"status" json:"status"`
	Price      *string   `db:"price" json:"price,omitempty"`
	PriceUnit  *string   `db:"price_unit" json:"price_unit,omitempty"`
	Body       string    `db:"body" json:"body"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`

	// Echoed back on campaign creation so the frontend can pair each
	// message with its target without another lookup.
	Recipient *Recipient `db:"-" json:"customer,omitempty"`
}
