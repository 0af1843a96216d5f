package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/saccokit/sacco-backoffice/internal/api/request"
	"github.com/saccokit/sacco-backoffice/internal/api/response"
	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/model"
	"github.com/saccokit/sacco-backoffice/internal/service"
	"github.com/saccokit/sacco-backoffice/internal/validation"
)

// GuarantorHandler handles HTTP requests for the guarantor register.
type GuarantorHandler struct {
	guarantorService *service.GuarantorService
}

// NewGuarantorHandler creates a new GuarantorHandler with the provided service dependency.
func NewGuarantorHandler(guarantorService *service.GuarantorService) *GuarantorHandler {
	return &GuarantorHandler{
		guarantorService: guarantorService,
	}
}

// GetGuarantors handles GET requests to retrieve all guarantors.
//
// Endpoint: GET /api/guarantors
// Response: 200 OK with array of Guarantor
// Error: 500 Internal Server Error if retrieval fails
func (h *GuarantorHandler) GetGuarantors(w http.ResponseWriter, r *http.Request) {
	guarantors, err := h.guarantorService.GetGuarantors(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveGuarantors.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "guarantors retrieved successfully", guarantors)
}

// GetGuarantor handles GET requests to retrieve one guarantor.
//
// Endpoint: GET /api/guarantors/{uuid}
// Response: 200 OK with Guarantor
// Error: 400 Bad Request if guarantor ID is invalid (validated by middleware)
// Error: 404 Not Found if guarantor not found
// Error: 500 Internal Server Error if retrieval fails
func (h *GuarantorHandler) GetGuarantor(w http.ResponseWriter, r *http.Request) {
	guarantorID := chi.URLParam(r, "uuid")

	guarantor, err := h.guarantorService.GetGuarantor(r.Context(), guarantorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrGuarantorNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrGuarantorNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveGuarantors.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "guarantor retrieved successfully", guarantor)
}

// CreateGuarantor handles POST requests to register a guarantor.
// Guarantors need not be members; external people are registered here.
//
// Endpoint: POST /api/guarantors
// Request Body: CreateGuarantorRequest
// Response: 200 OK with the created guarantor
// Error: 400 Bad Request if validation fails
// Error: 500 Internal Server Error if creation fails
func (h *GuarantorHandler) CreateGuarantor(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateGuarantorRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateGuarantor(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	guarantor, err := h.guarantorService.CreateGuarantor(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create guarantor", err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "guarantor created successfully", guarantor)
}

// UpdateGuarantor handles PUT requests to edit a guarantor.
//
// Endpoint: PUT /api/guarantors/{uuid}
// Request Body: UpdateGuarantorRequest
// Response: 200 OK with the updated guarantor
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if guarantor not found
// Error: 500 Internal Server Error if update fails
func (h *GuarantorHandler) UpdateGuarantor(w http.ResponseWriter, r *http.Request) {
	guarantorID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateGuarantorRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateGuarantor(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	guarantor, err := h.guarantorService.UpdateGuarantor(r.Context(), guarantorID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrGuarantorNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrGuarantorNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update guarantor", err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "guarantor updated successfully", guarantor)
}

// DeleteGuarantor handles DELETE requests to remove a guarantor. A
// guarantor referenced by any loan cannot be removed.
//
// Endpoint: DELETE /api/guarantors/{uuid}
// Response: 200 OK
// Error: 400 Bad Request if the guarantor is associated with loans
// Error: 404 Not Found if guarantor not found
// Error: 500 Internal Server Error if deletion fails
func (h *GuarantorHandler) DeleteGuarantor(w http.ResponseWriter, r *http.Request) {
	guarantorID := chi.URLParam(r, "uuid")

	if err := h.guarantorService.DeleteGuarantor(r.Context(), guarantorID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrGuarantorNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrGuarantorNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrGuarantorInUse):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrGuarantorInUse.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to delete guarantor", err.Error())
		}
		return
	}

	response.RespondMessage(w, http.StatusOK, "guarantor deleted successfully", nil)
}

// SearchGuarantors handles GET requests to search the register by name,
// ID number, or phone. Queries shorter than two characters return nothing.
//
// Endpoint: GET /api/guarantors/search?q={query}
// Response: 200 OK with array of Guarantor
// Error: 500 Internal Server Error if the search fails
func (h *GuarantorHandler) SearchGuarantors(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) < 2 {
		response.RespondMessage(w, http.StatusOK, "guarantors retrieved successfully", []model.Guarantor{})
		return
	}

	guarantors, err := h.guarantorService.SearchGuarantors(r.Context(), query)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveGuarantors.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "guarantors retrieved successfully", guarantors)
}

// GetPotentialGuarantors handles GET requests for members eligible to
// stand as guarantor based on their active share holding.
//
// Endpoint: GET /api/guarantors/potential
// Response: 200 OK with array of PotentialGuarantor
// Error: 500 Internal Server Error if retrieval fails
func (h *GuarantorHandler) GetPotentialGuarantors(w http.ResponseWriter, r *http.Request) {
	members, err := h.guarantorService.GetPotentialGuarantors(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveGuarantors.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "potential guarantors retrieved successfully", members)
}
