package handlers

import (
	"net/http"

	"github.com/saccokit/sacco-backoffice/internal/api/response"
	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/service"
)

// SummaryHandler serves the combined dashboard read.
type SummaryHandler struct {
	summaryService  *service.SummaryService
	dividendService *service.DividendService
}

// NewSummaryHandler creates a new SummaryHandler with the provided service dependencies.
func NewSummaryHandler(summaryService *service.SummaryService, dividendService *service.DividendService) *SummaryHandler {
	return &SummaryHandler{
		summaryService:  summaryService,
		dividendService: dividendService,
	}
}

// GetDashboardSummary handles GET requests for the back-office landing
// page aggregates.
//
// Endpoint: GET /api/summary
// Response: 200 OK with DashboardSummary
// Error: 500 Internal Server Error if any aggregate fails
func (h *SummaryHandler) GetDashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summaryService.GetDashboardSummary(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSummary.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "summary retrieved successfully", summary)
}

// GetDividendSummary handles GET requests for the dividend ledger
// aggregate on its own.
//
// Endpoint: GET /api/summary/dividends
// Response: 200 OK with DividendSummary
// Error: 500 Internal Server Error if retrieval fails
func (h *SummaryHandler) GetDividendSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dividendService.GetDividendSummary(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSummary.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "dividend summary retrieved successfully", summary)
}
