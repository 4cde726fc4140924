package model

import "time"

// Campaign is one templated outbound message definition sent to many
// recipients. The body may contain {{field}} placeholders substituted per
// recipient. Immutable once created.
type Campaign struct {
	ID        int       `db:"id" json:"id"`
	BrandID   int       `db:"brand_id" json:"brand_id"`
	Name      string    `db:"name" json:"name"`
	Body      string    `db:"body" json:"body"`
	Sender    string    `db:"sender" json:"sender"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Loaded relations, not columns.
	Brand    *Brand            `db:"-" json:"brand,omitempty"`
	Messages []OutboundMessage `db:"-" json:"sms_messages,omitempty"`
}
