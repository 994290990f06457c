package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ledger/internal/log"
	"ledger/internal/services"
)

type sendOTPRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (s *Server) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req sendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	if err := s.otp.Issue(r.Context(), email); err != nil {
		switch {
		case errors.Is(err, services.ErrEmailNotAllowed):
			writeError(w, http.StatusForbidden, "Email not allowed")
		default:
			s.logger.ErrorContext(r.Context(), "Failed to send OTP",
				log.FieldEmail, email, log.FieldError, err)
			writeError(w, http.StatusInternalServerError, "Failed to send OTP")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "OTP sent successfully",
	})
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.TrimSpace(req.Email)
	code := strings.TrimSpace(req.OTP)
	if email == "" || code == "" {
		writeError(w, http.StatusBadRequest, "Email and OTP are required")
		return
	}

	// All verification failures surface the same message so the response
	// does not reveal whether a code exists, expired, or mismatched.
	if err := s.otp.Verify(r.Context(), email, code); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or expired OTP")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "OTP verified successfully",
	})
}
