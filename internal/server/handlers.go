package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"FundLens/internal/calculator"
	"FundLens/internal/collector"
	"FundLens/internal/explorer"
)

type fixedRateSipRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Period float64 `json:"period" validate:"required,gt=0"`
	Rate   float64 `json:"rate" validate:"required,gt=0"`
}

type historicalSipRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	From   string  `json:"from" validate:"required"`
	To     string  `json:"to"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /api/mf?q=&page=&page_size=
func (s *Server) handleSchemes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	res, err := s.explorer.SearchSchemes(r.Context(), q.Get("q"), page, pageSize)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// GET /api/scheme/{code}
func (s *Server) handleScheme(w http.ResponseWriter, r *http.Request) {
	code, ok := s.schemeCode(w, r)
	if !ok {
		return
	}
	res, err := s.explorer.Scheme(r.Context(), code)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// GET /api/scheme/{code}/returns?period= | ?from=&to=
func (s *Server) handleReturns(w http.ResponseWriter, r *http.Request) {
	code, ok := s.schemeCode(w, r)
	if !ok {
		return
	}
	res, err := s.explorer.Returns(r.Context(), code, windowQuery(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// GET /api/scheme/{code}/returns/summary
func (s *Server) handleReturnsSummary(w http.ResponseWriter, r *http.Request) {
	code, ok := s.schemeCode(w, r)
	if !ok {
		return
	}
	res, err := s.explorer.ReturnsSummary(r.Context(), code)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// GET /api/scheme/{code}/range?period= | ?from=&to=
func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	code, ok := s.schemeCode(w, r)
	if !ok {
		return
	}
	res, err := s.explorer.Range(r.Context(), code, windowQuery(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// POST /api/sip/estimate and /api/scheme/{code}/sip
func (s *Server) handleFixedRateSip(w http.ResponseWriter, r *http.Request) {
	var req fixedRateSipRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.explorer.EstimateSip(req.Amount, req.Period, req.Rate)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// POST /api/scheme/{code}/sip/history
func (s *Server) handleHistoricalSip(w http.ResponseWriter, r *http.Request) {
	code, ok := s.schemeCode(w, r)
	if !ok {
		return
	}
	var req historicalSipRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.explorer.HistoricalSip(r.Context(), code, req.Amount, req.From, req.To)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func windowQuery(r *http.Request) explorer.ReturnsQuery {
	q := r.URL.Query()
	return explorer.ReturnsQuery{Period: q.Get("period"), From: q.Get("from"), To: q.Get("to")}
}

func (s *Server) schemeCode(w http.ResponseWriter, r *http.Request) (int, bool) {
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil || code <= 0 {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "scheme code must be a positive number",
			Kind:  calculator.KindInvalidInput.String(),
			Field: "code",
		})
		return 0, false
	}
	return code, true
}

// decode reads and validates a JSON body, answering 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "request body must be valid JSON",
			Kind:  calculator.KindInvalidInput.String(),
		})
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		resp := errorResponse{Error: "missing or invalid fields", Kind: calculator.KindInvalidInput.String()}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			resp.Field = verrs[0].Field()
			resp.Error = verrs[0].Field() + " is required and must be positive"
		}
		s.writeJSON(w, http.StatusBadRequest, resp)
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var ce *calculator.Error
	if errors.As(err, &ce) {
		status := http.StatusInternalServerError
		msg := ce.Msg
		switch ce.Kind {
		case calculator.KindNotFound, calculator.KindDataUnavailable:
			status = http.StatusNotFound
			msg = "no data available for this period"
		case calculator.KindInvalidInput:
			status = http.StatusBadRequest
		case calculator.KindDivisionHazard:
			status = http.StatusUnprocessableEntity
		}
		s.writeJSON(w, status, errorResponse{Error: msg, Kind: ce.Kind.String(), Field: ce.Field})
		return
	}

	var apiErr *collector.APIError
	if errors.As(err, &apiErr) {
		if apiErr.NotFound() {
			s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "scheme not found"})
			return
		}
		s.log.Warn().Err(err).Msg("upstream error")
		s.writeJSON(w, http.StatusBadGateway, errorResponse{Error: "NAV provider unavailable, please retry"})
		return
	}

	s.log.Error().Err(err).Msg("request failed")
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "something went wrong, please retry"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}
