package repository

import (
	"database/sql"

	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/model"
)

type BrandRepositoryInterface interface {
	GetByID(id int) (*model.Brand, error)
}

type BrandRepository struct {
	DB *sql.DB
}

func (r *BrandRepository) GetByID(id int) (*model.Brand, error) {
	var b model.Brand
	err := r.DB.QueryRow(`SELECT id, name FROM brands WHERE id=$1`, id).Scan(&b.ID, &b.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

var _ BrandRepositoryInterface = (*BrandRepository)(nil)
