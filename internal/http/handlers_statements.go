package http

import (
	"net/http"
	"strings"

	"ledger/internal/core"
	"ledger/internal/log"
)

func (s *Server) handleStatements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	f := core.Filter{
		Person: core.NormalizePerson(r.URL.Query().Get("person")),
		Month:  strings.TrimSpace(r.URL.Query().Get("month")),
	}
	// The wildcard stays lowercase through normalization.
	if strings.EqualFold(f.Person, core.FilterAll) {
		f.Person = core.FilterAll
	}

	cacheKey := f.Person + "|" + f.Month
	if cached, ok := s.statementsCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	statements, err := s.ledger.ListStatements(r.Context(), f)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to build statements",
			log.FieldPerson, f.Person, log.FieldMonth, f.Month, log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch statements")
		return
	}

	s.statementsCache.Set(cacheKey, statements)
	writeJSON(w, http.StatusOK, statements)
}
