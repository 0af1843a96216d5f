package handlers

import (
	"errors"
	"net/http"

	"github.com/saccokit/sacco-backoffice/internal/api/request"
	"github.com/saccokit/sacco-backoffice/internal/api/response"
	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/service"
	"github.com/saccokit/sacco-backoffice/internal/validation"
)

// ContributionHandler handles HTTP requests for contribution endpoints.
type ContributionHandler struct {
	contributionService *service.ContributionService
}

// NewContributionHandler creates a new ContributionHandler with the provided service dependency.
func NewContributionHandler(contributionService *service.ContributionService) *ContributionHandler {
	return &ContributionHandler{
		contributionService: contributionService,
	}
}

// GetContributions handles GET requests to list contributions,
// optionally filtered by member.
//
// Endpoint: GET /api/contributions?memberId={uuid}
// Response: 200 OK with array of ContributionView
// Error: 400 Bad Request if the member filter is not a UUID
// Error: 404 Not Found if the filtered member does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *ContributionHandler) GetContributions(w http.ResponseWriter, r *http.Request) {
	memberID := r.URL.Query().Get("memberId")
	if memberID != "" {
		if err := validation.ValidateUUID(memberID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
	}

	contributions, err := h.contributionService.GetContributions(r.Context(), memberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrMemberNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrMemberNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveContributions.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "contributions retrieved successfully", contributions)
}

// CreateContribution handles POST requests to record a member deposit.
//
// Endpoint: POST /api/contributions
// Request Body: CreateContributionRequest
// Response: 200 OK with the created Contribution
// Error: 400 Bad Request if validation fails or the member is inactive
// Error: 404 Not Found if member not found
// Error: 500 Internal Server Error if creation fails
func (h *ContributionHandler) CreateContribution(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateContributionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateContribution(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	contribution, err := h.contributionService.CreateContribution(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrMemberNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrMemberNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrMemberInactive):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrMemberInactive.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to record contribution", err.Error())
		}
		return
	}

	response.RespondMessage(w, http.StatusOK, "contribution recorded successfully", contribution)
}
