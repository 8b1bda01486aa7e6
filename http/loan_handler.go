package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"loan-desk/domain"
	"loan-desk/service"
)

type LoanHandler struct {
	service     *service.LoanService
	defaultRate float64
	log         *logrus.Logger
}

func NewLoanHandler(service *service.LoanService, defaultRate float64, log *logrus.Logger) *LoanHandler {
	return &LoanHandler{service: service, defaultRate: defaultRate, log: log}
}

type emiRequest struct {
	Amount     float64  `json:"amount"`
	AnnualRate *float64 `json:"annualRate"`
	Months     int      `json:"months"`
}

// CalculateEMI suggests an EMI for the amount and tenure. The configured
// rate is used when the request has none.
func (h *LoanHandler) CalculateEMI(w http.ResponseWriter, r *http.Request) {

	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var req emiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.WithError(err).Debug("invalid emi request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	input := domain.LoanInput{
		Amount:       req.Amount,
		InterestRate: h.defaultRate,
		TermMonths:   req.Months,
	}
	if req.AnnualRate != nil {
		input.InterestRate = *req.AnnualRate
	}

	result, err := h.service.CalculateLoan(r.Context(), input)
	if err != nil {
		writeJSON(w, h.log, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, h.log, http.StatusOK, result)
}

type validateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Validate runs one field rule without touching any form state.
func (h *LoanHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !domain.IsField(req.Field) {
		writeJSON(w, h.log, http.StatusBadRequest, errorResponse{Error: "unknown field " + req.Field})
		return
	}

	writeJSON(w, h.log, http.StatusOK, fieldResponse{
		Field: req.Field,
		Error: service.ValidateField(req.Field, req.Value),
	})
}
