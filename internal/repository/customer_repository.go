package repository

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/model"
)

// CustomerRepositoryInterface defines the customer reads the listing needs.
type CustomerRepositoryInterface interface {
	GetByID(id int) (*model.Customer, error)
	// GetByIDs fetches customers in bulk, keyed by id, for stitching onto
	// campaign messages.
	GetByIDs(ids []int) (map[int]model.Customer, error)
}

type CustomerRepository struct {
	DB *sql.DB
}

func (r *CustomerRepository) GetByID(id int) (*model.Customer, error) {
	query := `
        SELECT id, phone, first_name, last_name
        FROM customers
        WHERE id = $1
    `
	var c model.Customer
	if err := r.DB.QueryRow(query, id).Scan(&c.ID, &c.Phone, &c.FirstName, &c.LastName); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) GetByIDs(ids []int) (map[int]model.Customer, error) {
	customers := map[int]model.Customer{}
	if len(ids) == 0 {
		return customers, nil
	}

	query := `
        SELECT id, phone, first_name, last_name
        FROM customers
        WHERE id = ANY($1)
    `
	rows, err := r.DB.Query(query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Phone, &c.FirstName, &c.LastName); err != nil {
			return nil, err
		}
		customers[c.ID] = c
	}
	return customers, rows.Err()
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
