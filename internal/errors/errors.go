package appErrors

import "fmt"

// ErrVerificationNotFound is returned when a customer has no verification
// record matching the query (never verified, or already flipped to false).
type ErrVerificationNotFound struct {
	CustomerID int
}

func (e *ErrVerificationNotFound) Error() string {
	return fmt.Sprintf("no phone verification found for customer %d", e.CustomerID)
}

func NewVerificationNotFound(customerID int) error {
	return &ErrVerificationNotFound{CustomerID: customerID}
}

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrMessageNotFound is returned when a delivery callback references an
// unknown (campaign, customer, sid) triple.
type ErrMessageNotFound struct {
	CampaignID int
	CustomerID int
	Sid        string
}

func (e *ErrMessageNotFound) Error() string {
	return fmt.Sprintf("no message %s for campaign %d and customer %d", e.Sid, e.CampaignID, e.CustomerID)
}

func NewMessageNotFound(campaignID, customerID int, sid string) error {
	return &ErrMessageNotFound{CampaignID: campaignID, CustomerID: customerID, Sid: sid}
}

// ErrProvider wraps a failure from the verification or messaging provider.
// The provider's own message is kept for the response body.
type ErrProvider struct {
	Op  string
	Err error
}

func (e *ErrProvider) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Op, e.Err)
}

func (e *ErrProvider) Unwrap() error { return e.Err }

func NewProviderError(op string, err error) error {
	return &ErrProvider{Op: op, Err: err}
}
