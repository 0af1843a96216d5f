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

// LoanHandler handles HTTP requests for the loan book.
type LoanHandler struct {
	loanService *service.LoanService
}

// NewLoanHandler creates a new LoanHandler with the provided service dependency.
func NewLoanHandler(loanService *service.LoanService) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
	}
}

// GetLoans handles GET requests to retrieve all loans.
//
// Endpoint: GET /api/loans
// Response: 200 OK with array of LoanView
// Error: 500 Internal Server Error if retrieval fails
func (h *LoanHandler) GetLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.loanService.GetLoans(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveLoans.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "loans retrieved successfully", loans)
}

// GetLoan handles GET requests to retrieve one loan.
//
// Endpoint: GET /api/loans/{uuid}
// Response: 200 OK with LoanView
// Error: 400 Bad Request if loan ID is invalid (validated by middleware)
// Error: 404 Not Found if loan not found
// Error: 500 Internal Server Error if retrieval fails
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "uuid")

	loan, err := h.loanService.GetLoan(r.Context(), loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrLoanNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrLoanNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveLoans.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "loan retrieved successfully", loan)
}

// ApplyLoan handles POST requests to record a loan application.
//
// Endpoint: POST /api/loans
// Request Body: ApplyLoanRequest
// Response: 200 OK with the created loan in Pending state
// Error: 400 Bad Request if validation fails or the member is inactive
// Error: 404 Not Found if the member or a named guarantor is missing
// Error: 500 Internal Server Error if creation fails
func (h *LoanHandler) ApplyLoan(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.ApplyLoanRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateApplyLoan(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	loan, err := h.loanService.ApplyLoan(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrMemberNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrMemberNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrGuarantorNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrGuarantorNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrMemberInactive):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrMemberInactive.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to apply for loan", err.Error())
		}
		return
	}

	response.RespondMessage(w, http.StatusOK, "loan application recorded successfully", loan)
}

// ApproveLoan handles POST requests to approve a pending loan with final
// terms.
//
// Endpoint: POST /api/loans/{uuid}/approve
// Request Body: ApproveLoanRequest
// Response: 200 OK with the approved loan
// Error: 400 Bad Request if validation fails or the loan is not Pending
// Error: 404 Not Found if loan not found
// Error: 500 Internal Server Error if approval fails
func (h *LoanHandler) ApproveLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.ApproveLoanRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateApproveLoan(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	loan, err := h.loanService.ApproveLoan(r.Context(), loanID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrLoanNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrLoanNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvalidLoanState):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidLoanState.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to approve loan", err.Error())
		}
		return
	}

	response.RespondMessage(w, http.StatusOK, "loan approved successfully", loan)
}

// RejectLoan handles POST requests to reject a pending loan.
//
// Endpoint: POST /api/loans/{uuid}/reject
// Request Body: RejectLoanRequest (optional)
// Response: 200 OK with the rejected loan
// Error: 400 Bad Request if the loan is not Pending or the body is malformed
// Error: 404 Not Found if loan not found
// Error: 500 Internal Server Error if rejection fails
func (h *LoanHandler) RejectLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "uuid")

	req, err := parseOptionalJSON[request.RejectLoanRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanService.RejectLoan(r.Context(), loanID, req.Remarks)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrLoanNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrLoanNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvalidLoanState):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidLoanState.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to reject loan", err.Error())
		}
		return
	}

	response.RespondMessage(w, http.StatusOK, "loan rejected successfully", loan)
}

// DisburseLoan handles POST requests to disburse an approved loan. The
// repayment window is stamped and the amortization schedule generated.
//
// Endpoint: POST /api/loans/{uuid}/disburse
// Response: 200 OK with the disbursed loan
// Error: 400 Bad Request if the loan is not Approved
// Error: 404 Not Found if loan not found
// Error: 500 Internal Server Error if disbursement fails
func (h *LoanHandler) DisburseLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "uuid")

	loan, err := h.loanService.DisburseLoan(r.Context(), loanID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrLoanNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrLoanNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvalidLoanState):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidLoanState.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to disburse loan", err.Error())
		}
		return
	}

	response.RespondMessage(w, http.StatusOK, "loan disbursed successfully", loan)
}

// DeleteLoan handles DELETE requests to remove a loan and its schedule.
//
// Endpoint: DELETE /api/loans/{uuid}
// Response: 200 OK
// Error: 400 Bad Request if loan ID is invalid (validated by middleware)
// Error: 404 Not Found if loan not found
// Error: 500 Internal Server Error if deletion fails
func (h *LoanHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "uuid")

	if err := h.loanService.DeleteLoan(r.Context(), loanID); err != nil {
		if errors.Is(err, apperrors.ErrLoanNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrLoanNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to delete loan", err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "loan deleted successfully", nil)
}

// GetInstallments handles GET requests for a loan's amortization schedule.
//
// Endpoint: GET /api/loans/{uuid}/installments
// Response: 200 OK with array of LoanInstallment
// Error: 400 Bad Request if loan ID is invalid (validated by middleware)
// Error: 404 Not Found if loan not found
// Error: 500 Internal Server Error if retrieval fails
func (h *LoanHandler) GetInstallments(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "uuid")

	installments, err := h.loanService.GetInstallments(r.Context(), loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrLoanNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrLoanNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveLoans.Error(), err.Error())
		return
	}

	response.RespondMessage(w, http.StatusOK, "loan installments retrieved successfully", installments)
}

// PayInstallment handles POST requests to settle one pending installment.
// The loan's outstanding balance drops by the installment total.
//
// Endpoint: POST /api/loans/installments/{uuid}/pay
// Request Body: PayInstallmentRequest
// Response: 200 OK with the paid installment
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the installment is missing or already paid
// Error: 500 Internal Server Error if payment fails
func (h *LoanHandler) PayInstallment(w http.ResponseWriter, r *http.Request) {
	installmentID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.PayInstallmentRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidatePayInstallment(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	installment, err := h.loanService.PayInstallment(r.Context(), installmentID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInstallmentNotFound),
			errors.Is(err, apperrors.ErrInstallmentAlreadyPaid):
			response.RespondError(w, http.StatusNotFound, "installment not found or already paid", err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to pay installment", err.Error())
		}
		return
	}

	response.RespondMessage(w, http.StatusOK, "installment paid successfully", installment)
}
