package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	appErrors "github.com/guillaumedeshayes/twilio-messaging-controler/internal/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to structured JSON bodies. The underlying
// message is kept so callers still see what the provider or store said.
func writeError(w http.ResponseWriter, err error) {
	var (
		verifNotFound    *appErrors.ErrVerificationNotFound
		campaignNotFound *appErrors.ErrCampaignNotFound
		messageNotFound  *appErrors.ErrMessageNotFound
		provider         *appErrors.ErrProvider
	)

	switch {
	case errors.As(err, &verifNotFound),
		errors.As(err, &campaignNotFound),
		errors.As(err, &messageNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{errorDetail{"not_found", err.Error()}})
	case errors.As(err, &provider):
		writeJSON(w, http.StatusBadGateway, errorBody{errorDetail{"provider_error", err.Error()}})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{errorDetail{"internal_error", err.Error()}})
	}
}

func writeValidationError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody{errorDetail{"invalid_request", message}})
}
