package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/guillaumedeshayes/twilio-messaging-controler/internal/errors"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/model"
)

type OutboundMessageRepositoryInterface interface {
	Create(msg *model.OutboundMessage) error
	// FindBySid locates the message a provider delivery callback refers to.
	FindBySid(campaignID, customerID int, sid string) (*model.OutboundMessage, error)
	ListByCampaign(campaignID int) ([]model.OutboundMessage, error)
	UpdateStatus(id int, status string) error
	// SetStatusAndPrice persists status and price together. The price
	// column is only written while still NULL, so price is set at most
	// once per message no matter how many callbacks arrive.
	SetStatusAndPrice(id int, status string, price, priceUnit *string) error
}

type OutboundMessageRepository struct {
	DB *sql.DB
}

func (r *OutboundMessageRepository) Create(msg *model.OutboundMessage) error {
	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now

	query := `
        INSERT INTO sms_messages
        (campaign_id, customer_id, sid, status, price, price_unit, body, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `
	return r.DB.QueryRow(
		query,
		msg.CampaignID,
		msg.CustomerID,
		msg.Sid,
		msg.Status,
		msg.Price,
		msg.PriceUnit,
		msg.Body,
		msg.CreatedAt,
		msg.UpdatedAt,
	).Scan(&msg.ID)
}

func (r *OutboundMessageRepository) FindBySid(campaignID, customerID int, sid string) (*model.OutboundMessage, error) {
	query := `
        SELECT id, campaign_id, customer_id, sid, status, price, price_unit, body, created_at, updated_at
        FROM sms_messages
        WHERE campaign_id=$1 AND customer_id=$2 AND sid=$3
    `
	var msg model.OutboundMessage
	err := r.DB.QueryRow(query, campaignID, customerID, sid).Scan(
		&msg.ID, &msg.CampaignID, &msg.CustomerID, &msg.Sid, &msg.Status,
		&msg.Price, &msg.PriceUnit, &msg.Body, &msg.CreatedAt, &msg.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewMessageNotFound(campaignID, customerID, sid)
		}
		return nil, err
	}
	return &msg, nil
}

func (r *OutboundMessageRepository) ListByCampaign(campaignID int) ([]model.OutboundMessage, error) {
	query := `
        SELECT id, campaign_id, customer_id, sid, status, price, price_unit, body, created_at, updated_at
        FROM sms_messages
        WHERE campaign_id=$1
        ORDER BY id
    `
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []model.OutboundMessage{}
	for rows.Next() {
		var msg model.OutboundMessage
		if err := rows.Scan(
			&msg.ID, &msg.CampaignID, &msg.CustomerID, &msg.Sid, &msg.Status,
			&msg.Price, &msg.PriceUnit, &msg.Body, &msg.CreatedAt, &msg.UpdatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *OutboundMessageRepository) UpdateStatus(id int, status string) error {
	query := `UPDATE sms_messages SET status=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.DB.Exec(query, status, id)
	return err
}

func (r *OutboundMessageRepository) SetStatusAndPrice(id int, status string, price, priceUnit *string) error {
	query := `
        UPDATE sms_messages
        SET status=$1, price=$2, price_unit=$3, updated_at=NOW()
        WHERE id=$4 AND price IS NULL
    `
	_, err := r.DB.Exec(query, status, price, priceUnit, id)
	return err
}

var _ OutboundMessageRepositoryInterface = (*OutboundMessageRepository)(nil)
