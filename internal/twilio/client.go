package twilio

import (
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	verifyApi "github.com/twilio/twilio-go/rest/verify/v2"

	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/config"
)

// VerificationSession is the provider's verification-session envelope,
// returned to the caller as-is. Not persisted locally.
type VerificationSession struct {
	Sid     string `json:"sid"`
	To      string `json:"to"`
	Channel string `json:"channel"`
	Status  string `json:"status"`
}

// VerificationCheck is the provider's answer to a submitted code.
type VerificationCheck struct {
	Status string `json:"status"`
	Valid  bool   `json:"valid"`
}

// MessageResult is the subset of the provider's message resource the
// handlers persist: sid, delivery status and (on fetch) price.
type MessageResult struct {
	Sid       string  `json:"sid"`
	Status    string  `json:"status"`
	Price     *string `json:"price,omitempty"`
	PriceUnit *string `json:"price_unit,omitempty"`
}

// VerifyAPI starts and checks phone verifications.
type VerifyAPI interface {
	StartVerification(phone string) (*VerificationSession, error)
	CheckVerification(phone, code string) (*VerificationCheck, error)
}

// MessageAPI sends campaign messages and fetches them back by sid.
type MessageAPI interface {
	SendMessage(to, from, body, statusCallback string) (*MessageResult, error)
	FetchMessage(sid string) (*MessageResult, error)
}

// Client implements VerifyAPI and MessageAPI against the Twilio REST API.
type Client struct {
	rest      *twilio.RestClient
	verifySid string
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		rest: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		}),
		verifySid: cfg.TwilioVerifySID,
	}
}

// StartVerification asks Twilio Verify to text a code to the phone number.
// Channel and locale match the upstream loyalty flow (sms, French).
func (c *Client) StartVerification(phone string) (*VerificationSession, error) {
	params := &verifyApi.CreateVerificationParams{}
	params.SetTo(phone)
	params.SetChannel("sms")
	params.SetLocale("fr")

	v, err := c.rest.VerifyV2.CreateVerification(c.verifySid, params)
	if err != nil {
		return nil, err
	}
	return &VerificationSession{
		Sid:     deref(v.Sid),
		To:      deref(v.To),
		Channel: deref(v.Channel),
		Status:  deref(v.Status),
	}, nil
}

func (c *Client) CheckVerification(phone, code string) (*VerificationCheck, error) {
	params := &verifyApi.CreateVerificationCheckParams{}
	params.SetTo(phone)
	params.SetCode(code)

	check, err := c.rest.VerifyV2.CreateVerificationCheck(c.verifySid, params)
	if err != nil {
		return nil, err
	}
	result := &VerificationCheck{Status: deref(check.Status)}
	if check.Valid != nil {
		result.Valid = *check.Valid
	}
	return result, nil
}

// SendMessage dispatches one SMS. statusCallback may be empty, in which
// case no delivery callbacks are requested (development mode).
func (c *Client) SendMessage(to, from, body, statusCallback string) (*MessageResult, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)
	if statusCallback != "" {
		params.SetStatusCallback(statusCallback)
	}

	msg, err := c.rest.Api.CreateMessage(params)
	if err != nil {
		return nil, err
	}
	return &MessageResult{
		Sid:       deref(msg.Sid),
		Status:    deref(msg.Status),
		Price:     msg.Price,
		PriceUnit: msg.PriceUnit,
	}, nil
}

func (c *Client) FetchMessage(sid string) (*MessageResult, error) {
	msg, err := c.rest.Api.FetchMessage(sid, &twilioApi.FetchMessageParams{})
	if err != nil {
		return nil, err
	}
	return &MessageResult{
		Sid:       deref(msg.Sid),
		Status:    deref(msg.Status),
		Price:     msg.Price,
		PriceUnit: msg.PriceUnit,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var (
	_ VerifyAPI  = (*Client)(nil)
	_ MessageAPI = (*Client)(nil)
)
