package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/guillaumedeshayes/twilio-messaging-controler/internal/errors"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/model"
)

type VerificationRepositoryInterface interface {
	// FindOrCreate returns the customer's verification record, creating it
	// with phone=false on first sight. The bool reports creation.
	FindOrCreate(customerID int) (*model.VerificationRecord, bool, error)
	// FindVerified returns the record only if phone is currently true.
	FindVerified(customerID int) (*model.VerificationRecord, error)
	SetPhone(id int, verified bool) error
}

type VerificationRepository struct {
	DB *sql.DB
}

// FindOrCreate relies on the unique index on customer_id: the insert is a
// no-op when the row already exists, so concurrent first checks for the
// same customer converge on one row.
func (r *VerificationRepository) FindOrCreate(customerID int) (*model.VerificationRecord, bool, error) {
	now := time.Now()
	res, err := r.DB.Exec(`
        INSERT INTO customer_verifications (customer_id, phone, created_at, updated_at)
        VALUES ($1, false, $2, $2)
        ON CONFLICT (customer_id) DO NOTHING
    `, customerID, now)
	if err != nil {
		return nil, false, err
	}
	inserted, _ := res.RowsAffected()

	var v model.VerificationRecord
	err = r.DB.QueryRow(`
        SELECT id, customer_id, phone, created_at, updated_at
        FROM customer_verifications WHERE customer_id=$1
    `, customerID).Scan(&v.ID, &v.CustomerID, &v.Phone, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, false, err
	}
	return &v, inserted > 0, nil
}

func (r *VerificationRepository) FindVerified(customerID int) (*model.VerificationRecord, error) {
	var v model.VerificationRecord
	err := r.DB.QueryRow(`
        SELECT id, customer_id, phone, created_at, updated_at
        FROM customer_verifications
        WHERE customer_id=$1 AND phone=true
    `, customerID).Scan(&v.ID, &v.CustomerID, &v.Phone, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewVerificationNotFound(customerID)
		}
		return nil, err
	}
	return &v, nil
}

func (r *VerificationRepository) SetPhone(id int, verified bool) error {
	_, err := r.DB.Exec(`
        UPDATE customer_verifications SET phone=$1, updated_at=NOW() WHERE id=$2
    `, verified, id)
	return err
}

var _ VerificationRepositoryInterface = (*VerificationRepository)(nil)
