package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/services"
)

type createTransactionRequest struct {
	Person   string      `json:"person"`
	Type     string      `json:"type"`
	Category string      `json:"category"`
	Amount   json.Number `json:"amount"`
	Date     string      `json:"date"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list transactions", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	// Empty list serializes as [], not null.
	if txns == nil {
		txns = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := s.ledger.RecordTransaction(r.Context(), services.TransactionInput{
		Person:   req.Person,
		Kind:     req.Type,
		Category: req.Category,
		Amount:   req.Amount.String(),
		Date:     req.Date,
	})
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		s.logger.ErrorContext(r.Context(), "Failed to record transaction", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Failed to save transaction")
		return
	}

	// A new transaction shifts derived balances; cached statements are stale.
	s.statementsCache.Clear()

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      id,
	})
}
