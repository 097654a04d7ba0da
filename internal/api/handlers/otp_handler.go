package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/signup-otp-be/internal/services"
	"github.com/rs/zerolog/log"
)

// OTPHandler handles OTP dispatch requests.
type OTPHandler struct {
	dispatcher services.OTPDispatcherProvider
}

// NewOTPHandler creates a new OTPHandler.
func NewOTPHandler(dispatcher services.OTPDispatcherProvider) *OTPHandler {
	return &OTPHandler{dispatcher: dispatcher}
}

// SendOTPPayload is the expected JSON body for /send-otp.
type SendOTPPayload struct {
	Phone string `json:"phone"`
}

// SendOTPResponse carries the generated code back to the caller, which is
// responsible for verifying it.
type SendOTPResponse struct {
	Message string `json:"message"`
	OTP     string `json:"otp"`
}

// SendOTP generates a code and sends it to the given phone number.
func (h *OTPHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var payload SendOTPPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	code, err := h.dispatcher.SendOTP(r.Context(), payload.Phone)
	switch {
	case err == nil:
		respondWithJSON(w, http.StatusOK, SendOTPResponse{Message: "OTP sent successfully!", OTP: code})
	case errors.Is(err, services.ErrInvalidPhone):
		respondWithMessage(w, http.StatusBadRequest, "Invalid phone number, expected prefix "+h.dispatcher.CountryPrefix())
	case errors.Is(err, services.ErrDispatcherDisabled):
		log.Error().Msg("OTP requested but SMS gateway client is not initialized")
		respondWithMessage(w, http.StatusInternalServerError, "SMS gateway client not initialized")
	default:
		log.Error().Err(err).Msg("Failed to send OTP")
		respondWithError(w, http.StatusInternalServerError, "Failed to send OTP", err)
	}
}
