package model

// Brand owns campaigns. Listing is filtered to the brands the caller is
// authorized to view.
type Brand struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
