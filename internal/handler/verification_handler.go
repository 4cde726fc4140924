package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/service"
)

// VerificationHandler holds the dependencies for phone-verification HTTP
// handlers.
type VerificationHandler struct {
	Service *service.VerificationService
}

// SendToken starts a verification: POST /sms/verification/send?phone=...
func (h *VerificationHandler) SendToken(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		writeValidationError(w, "missing phone query parameter")
		return
	}

	session, err := h.Service.SendToken(phone)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// CheckToken verifies a submitted code:
// POST /sms/verification/check?phone=...&customer_id=... with body {"code": "..."}
func (h *VerificationHandler) CheckToken(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	customerID, err := strconv.Atoi(r.URL.Query().Get("customer_id"))
	if phone == "" || err != nil {
		writeValidationError(w, "missing phone or customer_id query parameter")
		return
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Code == "" {
		writeValidationError(w, "missing verification code")
		return
	}

	check, err := h.Service.CheckToken(customerID, phone, payload.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

// Status reports whether the customer's phone is still verified:
// GET /sms/verification/status?customer_id=...
func (h *VerificationHandler) Status(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.Atoi(r.URL.Query().Get("customer_id"))
	if err != nil {
		writeValidationError(w, "missing customer_id query parameter")
		return
	}

	record, err := h.Service.PhoneVerificationStatus(customerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
