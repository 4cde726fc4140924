package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/model"
	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/service"
)

// CampaignHandler holds the dependencies for campaign-related HTTP handlers.
type CampaignHandler struct {
	Service *service.CampaignService
}

// Create sends a new campaign: POST /sms/campaigns/{brandID}
// Body: {"campaign": {name, body, sender}, "recipients": [{id, phone, fields}]}
// All per-recipient dispatches settle before the 201 is written.
func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	brandID, err := strconv.Atoi(chi.URLParam(r, "brandID"))
	if err != nil {
		writeValidationError(w, "invalid brand id")
		return
	}

	var payload struct {
		Campaign struct {
			Name   string `json:"name"`
			Body   string `json:"body"`
			Sender string `json:"sender"`
		} `json:"campaign"`
		Recipients []model.Recipient `json:"recipients"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeValidationError(w, "invalid request body: "+err.Error())
		return
	}
	if payload.Campaign.Body == "" || payload.Campaign.Sender == "" {
		writeValidationError(w, "campaign body and sender are required")
		return
	}

	campaign := &model.Campaign{
		Name:   payload.Campaign.Name,
		Body:   payload.Campaign.Body,
		Sender: payload.Campaign.Sender,
	}

	result, err := h.Service.CreateCampaign(brandID, campaign, payload.Recipients)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Sms campaign successfully sent",
		"campaign": result.Campaign,
		"failures": result.Failures,
	})
}

// List returns campaigns for the brands the caller may view:
// GET /sms/campaigns?brand_ids=1,2,3
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("brand_ids")
	if raw == "" {
		writeValidationError(w, "missing brand_ids query parameter")
		return
	}

	var brandIDs []int
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			writeValidationError(w, "invalid brand id: "+part)
			return
		}
		brandIDs = append(brandIDs, id)
	}

	campaigns, err := h.Service.ListCampaigns(brandIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

// StatusCallback applies a Twilio delivery-status callback:
// POST /sms/twilio/status-callback/{campaignID}/{customerID}
// Twilio posts form-encoded MessageSid and MessageStatus.
func (h *CampaignHandler) StatusCallback(w http.ResponseWriter, r *http.Request) {
	campaignID, err := strconv.Atoi(chi.URLParam(r, "campaignID"))
	if err != nil {
		writeValidationError(w, "invalid campaign id")
		return
	}
	customerID, err := strconv.Atoi(chi.URLParam(r, "customerID"))
	if err != nil {
		writeValidationError(w, "invalid customer id")
		return
	}

	if err := r.ParseForm(); err != nil {
		writeValidationError(w, "invalid form body")
		return
	}
	sid := r.FormValue("MessageSid")
	status := r.FormValue("MessageStatus")
	if sid == "" || status == "" {
		writeValidationError(w, "missing MessageSid or MessageStatus")
		return
	}

	if err := h.Service.UpdateDeliveryStatus(campaignID, customerID, sid, status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully updated"})
}
