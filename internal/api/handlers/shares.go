package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saccokit/sacco-backoffice/internal/api/request"
	"github.com/saccokit/sacco-backoffice/internal/api/response"
	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/service"
	"github.com/saccokit/sacco-backoffice/internal/validation"
)

// ShareHandler handles HTTP requests for the share register.
type ShareHandler struct {
	shareService *service.ShareService
}

// NewShareHandler creates a new ShareHandler with the provided service dependency.
func NewShareHandler(shareService *service.ShareService) *ShareHandler {
	return &ShareHandler{
		shareService: shareService,
	}
}

// GetShares handles GET requests to retrieve all share lots.
//
// Endpoint: GET /api/shares
// Response: 200 OK with array of ShareView
// Error: 500 Internal Server Error if retrieval fails
func (h *ShareHandler) GetShares(w http.ResponseWriter, r *http.Request) {
	shares, err := h.shareService.GetShares(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveShares.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "shares retrieved successfully", shares)
}

// GetMemberShares handles GET requests to retrieve one member's lots.
//
// Endpoint: GET /api/shares/member/{uuid}
// Response: 200 OK with array of ShareView
// Error: 400 Bad Request if member ID is invalid (validated by middleware)
// Error: 404 Not Found if member not found
// Error: 500 Internal Server Error if retrieval fails
func (h *ShareHandler) GetMemberShares(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "uuid")

	shares, err := h.shareService.GetMemberShares(r.Context(), memberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrMemberNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrMemberNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveShares.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "member shares retrieved successfully", shares)
}

// AddShare handles POST requests to record a share purchase.
//
// Endpoint: POST /api/shares
// Request Body: AddShareRequest
// Response: 200 OK with the created lot
// Error: 400 Bad Request if validation fails or the member is inactive
// Error: 404 Not Found if member not found
// Error: 500 Internal Server Error if creation fails
func (h *ShareHandler) AddShare(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.AddShareRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateAddShare(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	lot, err := h.shareService.AddShare(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrMemberNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrMemberNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrMemberInactive):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrMemberInactive.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to add shares", err.Error())
		}
		return
	}

	response.RespondMessage(w, http.StatusOK, "shares added successfully", lot)
}

// UpdateShare handles PUT requests to edit a lot.
//
// Endpoint: PUT /api/shares/{uuid}
// Request Body: UpdateShareRequest
// Response: 200 OK with the updated lot
// Error: 400 Bad Request if share ID is invalid (validated by middleware)
// Error: 404 Not Found if share not found
// Error: 500 Internal Server Error if update fails
func (h *ShareHandler) UpdateShare(w http.ResponseWriter, r *http.Request) {
	shareID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateShareRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	lot, err := h.shareService.UpdateShare(r.Context(), shareID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrShareNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrShareNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update share", err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "share updated successfully", lot)
}

// CancelShare handles DELETE requests to soft-delete an active lot.
// The body is optional; when present it must be well-formed JSON.
//
// Endpoint: DELETE /api/shares/{uuid}
// Request Body: CancelShareRequest (optional)
// Response: 200 OK
// Error: 400 Bad Request if share ID is invalid (validated by middleware)
// or the request body is malformed
// Error: 404 Not Found if the lot is missing or not active
// Error: 500 Internal Server Error if cancellation fails
func (h *ShareHandler) CancelShare(w http.ResponseWriter, r *http.Request) {
	shareID := chi.URLParam(r, "uuid")

	req, err := parseOptionalJSON[request.CancelShareRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.shareService.CancelShare(r.Context(), shareID, req.Remarks); err != nil {
		if errors.Is(err, apperrors.ErrShareNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrShareNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to cancel share", err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "share cancelled successfully", nil)
}

// TransferShares handles POST requests to move units between members.
// Lots are consumed oldest-first; each consumed lot yields a new lot
// under the recipient at the source lot's unit price.
//
// Endpoint: POST /api/shares/transfer
// Request Body: TransferSharesRequest
// Response: 200 OK with the lots created under the recipient
// Error: 400 Bad Request if validation fails, a member is missing or
// inactive, or the source member holds insufficient units
// Error: 500 Internal Server Error if the transfer fails
func (h *ShareHandler) TransferShares(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.TransferSharesRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateTransferShares(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	created, err := h.shareService.TransferShares(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrMemberNotFound),
			errors.Is(err, apperrors.ErrMemberInactive),
			errors.Is(err, apperrors.ErrInsufficientShares):
			response.RespondError(w, http.StatusBadRequest, "transfer rejected", err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to transfer shares", err.Error())
		}
		return
	}

	response.RespondMessage(w, http.StatusOK, "shares transferred successfully", created)
}

// GetShareSummary handles GET requests for the active register aggregate.
//
// Endpoint: GET /api/shares/summary
// Response: 200 OK with ShareSummary
// Error: 500 Internal Server Error if retrieval fails
func (h *ShareHandler) GetShareSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.shareService.GetShareSummary(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveShareSummary.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "share summary retrieved successfully", summary)
}

// GetMemberShareSummaries handles GET requests for the materialized
// per-member register.
//
// Endpoint: GET /api/shares/summary/members
// Response: 200 OK with array of MemberShareSummary
// Error: 500 Internal Server Error if retrieval fails
func (h *ShareHandler) GetMemberShareSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.shareService.GetMemberShareSummaries(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveShareSummary.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "member share summaries retrieved successfully", summaries)
}

// RefreshMemberShareSummaries handles POST requests to rebuild the
// materialized per-member register on demand.
//
// Endpoint: POST /api/shares/summary/refresh
// Response: 200 OK
// Error: 500 Internal Server Error if the rebuild fails
func (h *ShareHandler) RefreshMemberShareSummaries(w http.ResponseWriter, r *http.Request) {
	if err := h.shareService.RefreshMemberShareSummary(r.Context()); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to refresh share summaries", err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "member share summaries refreshed", nil)
}
