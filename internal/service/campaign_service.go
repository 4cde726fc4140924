package service

import (
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	appErrors "github.com/guillaumedeshayes/twilio-messaging-controler/internal/errors"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/model"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/repository"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/twilio"
)

// CampaignService persists campaigns, fans sends out to the messaging
// provider with one rendered body per recipient, and applies delivery
// callbacks from the provider.
type CampaignService struct {
	Campaigns repository.CampaignRepositoryInterface
	Brands    repository.BrandRepositoryInterface
	Customers repository.CustomerRepositoryInterface
	Messages  repository.OutboundMessageRepositoryInterface
	Messenger twilio.MessageAPI
	Logger    *slog.Logger

	// StatusCallbackBase is the public base URL delivery callbacks are
	// routed to. Empty in development: no callback is requested.
	StatusCallbackBase string
	// SendConcurrency bounds the per-recipient fan-out.
	SendConcurrency int
}

// DispatchFailure reports one recipient whose send did not go through.
// Failures never abort the rest of the campaign.
type DispatchFailure struct {
	CustomerID int    `json:"customer_id"`
	Error      string `json:"error"`
}

// CreateCampaignResult is the campaign with its brand, every
// provider-accepted message, and the per-recipient failures.
type CreateCampaignResult struct {
	Campaign *model.Campaign   `json:"campaign"`
	Failures []DispatchFailure `json:"failures,omitempty"`
}

// CreateCampaign persists the campaign under the brand, then dispatches to
// every recipient concurrently, bounded by SendConcurrency. Each dispatch
// renders the body with the recipient's fields, sends through the provider
// and persists the accepted message. All sends settle before this returns,
// so the result is complete rather than best-effort.
func (s *CampaignService) CreateCampaign(brandID int, campaign *model.Campaign, recipients []model.Recipient) (*CreateCampaignResult, error) {
	campaign.BrandID = brandID
	if err := s.Campaigns.Create(campaign); err != nil {
		return nil, err
	}

	var (
		mu       sync.Mutex
		messages []model.OutboundMessage
		failures []DispatchFailure
	)

	eg := new(errgroup.Group)
	sem := make(chan struct{}, s.sendConcurrency())

	for _, recipient := range recipients {
		recipient := recipient
		sem <- struct{}{}
		eg.Go(func() error {
			defer func() { <-sem }()

			msg, err := s.dispatchOne(campaign, recipient)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.Logger.Error("campaign dispatch failed",
					"campaign_id", campaign.ID, "customer_id", recipient.ID, "error", err)
				failures = append(failures, DispatchFailure{
					CustomerID: recipient.ID,
					Error:      err.Error(),
				})
				return nil
			}
			messages = append(messages, *msg)
			return nil
		})
	}
	_ = eg.Wait()

	brand, err := s.Brands.GetByID(brandID)
	if err != nil {
		return nil, err
	}

	campaign.Brand = brand
	campaign.Messages = messages
	return &CreateCampaignResult{Campaign: campaign, Failures: failures}, nil
}

// dispatchOne renders, sends and persists a single recipient's message.
func (s *CampaignService) dispatchOne(campaign *model.Campaign, recipient model.Recipient) (*model.OutboundMessage, error) {
	rendered := RenderTemplate(campaign.Body, recipient.Fields)

	callback := ""
	if s.StatusCallbackBase != "" {
		callback = fmt.Sprintf("%s/sms/twilio/status-callback/%d/%d",
			s.StatusCallbackBase, campaign.ID, recipient.ID)
	}

	accepted, err := s.Messenger.SendMessage(recipient.Phone, campaign.Sender, rendered, callback)
	if err != nil {
		return nil, appErrors.NewProviderError("send message", err)
	}

	msg := &model.OutboundMessage{
		CampaignID: campaign.ID,
		CustomerID: recipient.ID,
		Sid:        accepted.Sid,
		Status:     accepted.Status,
		Price:      accepted.Price,
		PriceUnit:  accepted.PriceUnit,
		Body:       rendered,
		Recipient:  &recipient,
	}
	if err := s.Messages.Create(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListCampaigns returns every campaign owned by one of the authorized
// brands, with messages, message recipients and brand attached. No
// pagination.
func (s *CampaignService) ListCampaigns(brandIDs []int) ([]*model.Campaign, error) {
	campaigns, err := s.Campaigns.ListByBrands(brandIDs)
	if err != nil {
		return nil, err
	}

	brands := map[int]*model.Brand{}
	for _, campaign := range campaigns {
		messages, err := s.Messages.ListByCampaign(campaign.ID)
		if err != nil {
			return nil, err
		}

		ids := make([]int, 0, len(messages))
		for _, msg := range messages {
			ids = append(ids, msg.CustomerID)
		}
		customers, err := s.Customers.GetByIDs(ids)
		if err != nil {
			return nil, err
		}
		for i := range messages {
			if c, ok := customers[messages[i].CustomerID]; ok {
				messages[i].Recipient = recipientFromCustomer(c)
			}
		}
		campaign.Messages = messages

		brand, ok := brands[campaign.BrandID]
		if !ok {
			brand, err = s.Brands.GetByID(campaign.BrandID)
			if err != nil {
				return nil, err
			}
			brands[campaign.BrandID] = brand
		}
		campaign.Brand = brand
	}
	return campaigns, nil
}

// UpdateDeliveryStatus applies a provider delivery callback. The price is
// fetched from the provider at most once per message: only while the
// stored price is still unset, after which callbacks update status alone.
func (s *CampaignService) UpdateDeliveryStatus(campaignID, customerID int, sid, status string) error {
	msg, err := s.Messages.FindBySid(campaignID, customerID, sid)
	if err != nil {
		return err
	}

	if msg.Price == nil {
		fetched, err := s.Messenger.FetchMessage(sid)
		if err != nil {
			return appErrors.NewProviderError("fetch message", err)
		}
		return s.Messages.SetStatusAndPrice(msg.ID, status, fetched.Price, fetched.PriceUnit)
	}
	return s.Messages.UpdateStatus(msg.ID, status)
}

func (s *CampaignService) sendConcurrency() int {
	if s.SendConcurrency > 0 {
		return s.SendConcurrency
	}
	return 8
}

func recipientFromCustomer(c model.Customer) *model.Recipient {
	return &model.Recipient{
		ID:    c.ID,
		Phone: c.Phone,
		Fields: map[string]string{
			"first_name": c.FirstName,
			"last_name":  c.LastName,
		},
	}
}
