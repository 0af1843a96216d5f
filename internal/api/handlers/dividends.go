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

// DividendHandler handles HTTP requests for the declaration lifecycle
// and payment processing endpoints.
type DividendHandler struct {
	dividendService *service.DividendService
}

// NewDividendHandler creates a new DividendHandler with the provided service dependency.
func NewDividendHandler(dividendService *service.DividendService) *DividendHandler {
	return &DividendHandler{
		dividendService: dividendService,
	}
}

// GetDeclarations handles GET requests to retrieve all declarations.
//
// Endpoint: GET /api/dividends/declarations
// Response: 200 OK with array of DeclarationView
// Error: 500 Internal Server Error if retrieval fails
func (h *DividendHandler) GetDeclarations(w http.ResponseWriter, r *http.Request) {
	declarations, err := h.dividendService.GetDeclarations(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDeclarations.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "declarations retrieved successfully", declarations)
}

// GetDeclaration handles GET requests to retrieve one declaration.
//
// Endpoint: GET /api/dividends/declarations/{uuid}
// Response: 200 OK with DeclarationView
// Error: 400 Bad Request if declaration ID is invalid (validated by middleware)
// Error: 404 Not Found if declaration not found
// Error: 500 Internal Server Error if retrieval fails
func (h *DividendHandler) GetDeclaration(w http.ResponseWriter, r *http.Request) {
	declarationID := chi.URLParam(r, "uuid")

	declaration, err := h.dividendService.GetDeclaration(r.Context(), declarationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDeclarationNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrDeclarationNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDeclarations.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "declaration retrieved successfully", declaration)
}

// CreateDeclaration handles POST requests to declare a dividend.
// At most one declaration may exist per financial year; "2024-2025" and
// "2024/2025" name the same year.
//
// Endpoint: POST /api/dividends/declarations
// Request Body: CreateDeclarationRequest
// Response: 200 OK with the created declaration
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 409 Conflict if a declaration already covers the financial year
// Error: 500 Internal Server Error if creation fails
func (h *DividendHandler) CreateDeclaration(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateDeclarationRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateDeclaration(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	declaration, err := h.dividendService.CreateDeclaration(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDeclarationExists) {
			response.RespondError(w, http.StatusConflict, apperrors.ErrDeclarationExists.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to create declaration", err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "dividend declared successfully", declaration)
}

// UpdateDeclaration handles PUT requests to edit a Pending declaration,
// keyed by financial year.
//
// Endpoint: PUT /api/dividends/declarations/year/{year}
// Request Body: UpdateDeclarationRequest
// Response: 200 OK with the updated declaration
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if no declaration covers the year
// Error: 409 Conflict if the declaration has left Pending
// Error: 500 Internal Server Error if update fails
func (h *DividendHandler) UpdateDeclaration(w http.ResponseWriter, r *http.Request) {
	year := chi.URLParam(r, "year")

	req, err := parseJSON[request.UpdateDeclarationRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateDeclaration(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	declaration, err := h.dividendService.UpdateDeclaration(r.Context(), year, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDeclarationNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrDeclarationNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrDeclarationNotModifiable):
			response.RespondError(w, http.StatusConflict, apperrors.ErrDeclarationNotModifiable.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to update declaration", err.Error())
		}
		return
	}

	response.RespondMessage(w, http.StatusOK, "declaration updated successfully", declaration)
}

// ApproveDeclaration handles POST requests to approve a Pending
// declaration. Approval snapshots eligible holdings as of the record
// date, computes the total, and generates one Pending payment per
// eligible member, exactly once.
//
// Endpoint: POST /api/dividends/declarations/{uuid}/approve
// Response: 200 OK with the approved declaration
// Error: 400 Bad Request if the declaration is not Pending
// Error: 404 Not Found if declaration not found
// Error: 500 Internal Server Error if approval fails
func (h *DividendHandler) ApproveDeclaration(w http.ResponseWriter, r *http.Request) {
	declarationID := chi.URLParam(r, "uuid")
	approvedBy := r.Header.Get("X-Approved-By")
	if approvedBy == "" {
		approvedBy = "system"
	}

	declaration, err := h.dividendService.ApproveDeclaration(r.Context(), declarationID, approvedBy)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDeclarationNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrDeclarationNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvalidDeclarationState):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDeclarationState.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to approve declaration", err.Error())
		}
		return
	}

	response.RespondMessage(w, http.StatusOK, "declaration approved successfully", declaration)
}

// ProcessDeclaration handles POST requests to mark an Approved
// declaration Processed.
//
// Endpoint: POST /api/dividends/declarations/{uuid}/process
// Response: 200 OK with the processed declaration
// Error: 400 Bad Request if the declaration is not Approved
// Error: 404 Not Found if declaration not found
// Error: 500 Internal Server Error if the transition fails
func (h *DividendHandler) ProcessDeclaration(w http.ResponseWriter, r *http.Request) {
	declarationID := chi.URLParam(r, "uuid")

	declaration, err := h.dividendService.ProcessDeclaration(r.Context(), declarationID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDeclarationNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrDeclarationNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvalidDeclarationState):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDeclarationState.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to process declaration", err.Error())
		}
		return
	}

	response.RespondMessage(w, http.StatusOK, "declaration processed successfully", declaration)
}

// DeleteDeclaration handles DELETE requests to remove a Pending
// declaration.
//
// Endpoint: DELETE /api/dividends/declarations/{uuid}
// Response: 200 OK
// Error: 400 Bad Request if the declaration has left Pending
// Error: 404 Not Found if declaration not found
// Error: 500 Internal Server Error if deletion fails
func (h *DividendHandler) DeleteDeclaration(w http.ResponseWriter, r *http.Request) {
	declarationID := chi.URLParam(r, "uuid")

	if err := h.dividendService.DeleteDeclaration(r.Context(), declarationID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDeclarationNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrDeclarationNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvalidDeclarationState):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDeclarationState.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to delete declaration", err.Error())
		}
		return
	}

	response.RespondMessage(w, http.StatusOK, "declaration deleted successfully", nil)
}

// GetEligibleMembers handles GET requests projecting who a declaration
// with the given record date would cover.
//
// Endpoint: GET /api/dividends/eligible?recordDate=YYYY-MM-DD
// Response: 200 OK with EligibleMembers
// Error: 400 Bad Request if the record date is missing or malformed
// Error: 500 Internal Server Error if the projection fails
func (h *DividendHandler) GetEligibleMembers(w http.ResponseWriter, r *http.Request) {
	recordDate := r.URL.Query().Get("recordDate")
	if err := validation.ValidateDate("recordDate", recordDate); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	eligible, err := h.dividendService.GetEligibleMembers(r.Context(), recordDate)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to project eligible members", err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "eligible members retrieved successfully", eligible)
}

// GetPayments handles GET requests to retrieve all payments.
//
// Endpoint: GET /api/dividends/payments
// Response: 200 OK with array of PaymentView
// Error: 500 Internal Server Error if retrieval fails
func (h *DividendHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.dividendService.GetPayments(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePayments.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "payments retrieved successfully", payments)
}

// GetPaymentsByDeclaration handles GET requests for the payments one
// declaration generated.
//
// Endpoint: GET /api/dividends/declarations/{uuid}/payments
// Response: 200 OK with array of PaymentView
// Error: 400 Bad Request if declaration ID is invalid (validated by middleware)
// Error: 404 Not Found if declaration not found
// Error: 500 Internal Server Error if retrieval fails
func (h *DividendHandler) GetPaymentsByDeclaration(w http.ResponseWriter, r *http.Request) {
	declarationID := chi.URLParam(r, "uuid")

	payments, err := h.dividendService.GetPaymentsByDeclaration(r.Context(), declarationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDeclarationNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrDeclarationNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePayments.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "payments retrieved successfully", payments)
}

// ProcessPayments handles POST requests to process a batch of payments
// in one transaction. Any payment that is missing or no longer Pending
// rolls back the whole batch.
//
// Endpoint: POST /api/dividends/payments/process
// Request Body: ProcessPaymentsRequest
// Response: 200 OK with BatchResult
// Error: 400 Bad Request if validation fails
// Error: 500 Internal Server Error on any failure (batch rolled back)
func (h *DividendHandler) ProcessPayments(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.ProcessPaymentsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateProcessPayments(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.dividendService.ProcessPayments(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to process payments", err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "payments processed successfully", result)
}

// ProcessPayment handles POST requests to process one payment. The
// payment number is resolved from the method: bank transfers use the
// member's bank account number, mobile money uses their phone number.
//
// Endpoint: POST /api/dividends/payments/{uuid}/process
// Request Body: ProcessPaymentRequest
// Response: 200 OK with the paid PaymentView
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the payment is missing or already processed
// Error: 500 Internal Server Error if processing fails
func (h *DividendHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.ProcessPaymentRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateProcessPayment(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	payment, err := h.dividendService.ProcessSinglePayment(r.Context(), paymentID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPaymentNotFound),
			errors.Is(err, apperrors.ErrPaymentAlreadyProcessed):
			response.RespondError(w, http.StatusNotFound, "payment not found or already processed", err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to process payment", err.Error())
		}
		return
	}

	response.RespondMessage(w, http.StatusOK, "payment processed successfully", payment)
}

// FailPayment handles POST requests to mark one Pending payment Failed.
// The body is optional; when present it must be well-formed JSON.
//
// Endpoint: POST /api/dividends/payments/{uuid}/fail
// Request Body: FailPaymentRequest (optional)
// Response: 200 OK with the failed PaymentView
// Error: 400 Bad Request if the request body is malformed
// Error: 404 Not Found if the payment is missing or already processed
// Error: 500 Internal Server Error if the transition fails
func (h *DividendHandler) FailPayment(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "uuid")

	req, err := parseOptionalJSON[request.FailPaymentRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	payment, err := h.dividendService.MarkPaymentFailed(r.Context(), paymentID, req.Remarks)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPaymentNotFound),
			errors.Is(err, apperrors.ErrPaymentAlreadyProcessed):
			response.RespondError(w, http.StatusNotFound, "payment not found or already processed", err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to mark payment failed", err.Error())
		}
		return
	}

	response.RespondMessage(w, http.StatusOK, "payment marked as failed", payment)
}
