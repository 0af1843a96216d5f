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

// MemberHandler handles HTTP requests for member endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the memberService.
type MemberHandler struct {
	memberService *service.MemberService
}

// NewMemberHandler creates a new MemberHandler with the provided service dependency.
func NewMemberHandler(memberService *service.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// GetMembers handles GET requests to retrieve all members.
//
// Endpoint: GET /api/members
// Response: 200 OK with array of Member
// Error: 500 Internal Server Error if retrieval fails
func (h *MemberHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberService.GetMembers(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveMembers.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "members retrieved successfully", members)
}

// GetMember handles GET requests to retrieve a single member.
//
// Endpoint: GET /api/members/{uuid}
// Response: 200 OK with Member
// Error: 400 Bad Request if member ID is invalid (validated by middleware)
// Error: 404 Not Found if member not found
// Error: 500 Internal Server Error if retrieval fails
func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "uuid")

	member, err := h.memberService.GetMember(r.Context(), memberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrMemberNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrMemberNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveMember.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "member retrieved successfully", member)
}

// CreateMember handles POST requests to register a new member.
//
// Endpoint: POST /api/members
// Request Body: CreateMemberRequest
// Response: 200 OK with the created Member
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *MemberHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateMemberRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateMember(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	member, err := h.memberService.CreateMember(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create member", err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "member registered successfully", member)
}

// UpdateMember handles PUT requests to edit a member.
//
// Endpoint: PUT /api/members/{uuid}
// Request Body: UpdateMemberRequest
// Response: 200 OK with the updated Member
// Error: 400 Bad Request if member ID is invalid (validated by middleware)
// Error: 404 Not Found if member not found
// Error: 500 Internal Server Error if update fails
func (h *MemberHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateMemberRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	member, err := h.memberService.UpdateMember(r.Context(), memberID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrMemberNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrMemberNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update member", err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "member updated successfully", member)
}

// DeactivateMember handles POST requests to deactivate a member.
// Inactive members keep their history but stop accruing dividends.
//
// Endpoint: POST /api/members/{uuid}/deactivate
// Response: 200 OK
// Error: 400 Bad Request if member ID is invalid (validated by middleware)
// Error: 404 Not Found if member not found
// Error: 500 Internal Server Error if the update fails
func (h *MemberHandler) DeactivateMember(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "uuid")

	if err := h.memberService.DeactivateMember(r.Context(), memberID); err != nil {
		if errors.Is(err, apperrors.ErrMemberNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrMemberNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to deactivate member", err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "member deactivated successfully", nil)
}
