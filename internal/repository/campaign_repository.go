package repository

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	appErrors "github.com/guillaumedeshayes/twilio-messaging-controler/internal/errors"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(id int) (*model.Campaign, error)
	// ListByBrands returns every campaign owned by one of the given brands.
	ListByBrands(brandIDs []int) ([]*model.Campaign, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
	c.CreatedAt = time.Now()
	query := `
        INSERT INTO sms_campaigns (brand_id, name, body, sender, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	return r.DB.QueryRow(query, c.BrandID, c.Name, c.Body, c.Sender, c.CreatedAt).Scan(&c.ID)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := `
        SELECT id, brand_id, name, body, sender, created_at
        FROM sms_campaigns WHERE id=$1
    `
	var c model.Campaign
	err := r.DB.QueryRow(query, id).Scan(&c.ID, &c.BrandID, &c.Name, &c.Body, &c.Sender, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) ListByBrands(brandIDs []int) ([]*model.Campaign, error) {
	campaigns := []*model.Campaign{}
	query := `
        SELECT id, brand_id, name, body, sender, created_at
        FROM sms_campaigns
        WHERE brand_id = ANY($1)
        ORDER BY id DESC
    `
	rows, err := r.DB.Query(query, pq.Array(brandIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		c := &model.Campaign{}
		if err := rows.Scan(&c.ID, &c.BrandID, &c.Name, &c.Body, &c.Sender, &c.CreatedAt); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
