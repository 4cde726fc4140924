package service

import (
	"log/slog"
	"time"

	appErrors "github.com/guillaumedeshayes/twilio-messaging-controler/internal/errors"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/model"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/repository"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/twilio"
)

// VerificationService coordinates the Twilio Verify flow with the local
// verification-status store. Verifying a phone number gates reward claims
// upstream, so the boolean outcome is the only thing persisted.
type VerificationService struct {
	Verifications repository.VerificationRepositoryInterface
	Verify        twilio.VerifyAPI
	Logger        *slog.Logger
}

// SendToken asks the provider to text a verification code to the phone
// number. The provider's session object is returned as-is; nothing is
// persisted. A failed call is simply reported, the caller re-invokes to
// retry.
func (s *VerificationService) SendToken(phone string) (*twilio.VerificationSession, error) {
	session, err := s.Verify.StartVerification(phone)
	if err != nil {
		return nil, appErrors.NewProviderError("start verification", err)
	}
	return session, nil
}

// CheckToken submits the customer's code to the provider, then records the
// outcome. The verification row is found-or-created either way; phone is
// set true only when the provider reports status "approved" with valid
// true. The provider's check result is returned regardless of approval.
func (s *VerificationService) CheckToken(customerID int, phone, code string) (*twilio.VerificationCheck, error) {
	check, err := s.Verify.CheckVerification(phone, code)
	if err != nil {
		return nil, appErrors.NewProviderError("check verification", err)
	}

	record, created, err := s.Verifications.FindOrCreate(customerID)
	if err != nil {
		return nil, err
	}
	if created {
		s.Logger.Info("created verification record", "customer_id", customerID)
	}

	if check.Status == "approved" && check.Valid {
		if err := s.Verifications.SetPhone(record.ID, true); err != nil {
			return nil, err
		}
	}
	return check, nil
}

// PhoneVerificationStatus returns the customer's current verification
// record, applying the staleness rule: a verification older than the
// 90-day window (or timestamped in the future) is flipped to false in the
// store before the record is returned. A customer who never verified, or
// whose flag is already false, gets a not-found error.
func (s *VerificationService) PhoneVerificationStatus(customerID int) (*model.VerificationRecord, error) {
	record, err := s.Verifications.FindVerified(customerID)
	if err != nil {
		return nil, err
	}

	if record.StaleAt(time.Now()) {
		if err := s.Verifications.SetPhone(record.ID, false); err != nil {
			return nil, err
		}
		record.Phone = false
		s.Logger.Info("phone verification expired", "customer_id", customerID)
	}
	return record, nil
}
