package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
var (
	// ErrMemberNotFound indicates that a member with the given ID does not exist.
	ErrMemberNotFound = errors.New("member not found")

	// ErrShareNotFound indicates that a share lot with the given ID does not exist,
	// or is no longer in a state the operation accepts.
	ErrShareNotFound = errors.New("share not found")

	// ErrDeclarationNotFound indicates that a dividend declaration does not exist.
	ErrDeclarationNotFound = errors.New("dividend declaration not found")

	// ErrPaymentNotFound indicates that a dividend payment does not exist.
	ErrPaymentNotFound = errors.New("dividend payment not found")

	// ErrContributionNotFound indicates that a contribution record does not exist.
	ErrContributionNotFound = errors.New("contribution not found")

	// ErrSettingNotFound indicates that a settings key does not exist.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrLoanNotFound indicates that a loan with the given ID does not exist.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrGuarantorNotFound indicates that a guarantor does not exist.
	ErrGuarantorNotFound = errors.New("guarantor not found")

	// ErrInstallmentNotFound indicates that a loan installment does not exist.
	ErrInstallmentNotFound = errors.New("loan installment not found")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInsufficientShares indicates that a transfer cannot be completed
	// because the source member does not hold enough active units.
	ErrInsufficientShares = errors.New("insufficient shares to transfer")

	// ErrDeclarationExists indicates a declaration already covers the financial year.
	ErrDeclarationExists = errors.New("declaration for financial year already exists")

	// ErrDeclarationNotModifiable indicates the declaration has left the
	// Pending state and can no longer be edited or deleted.
	ErrDeclarationNotModifiable = errors.New("declaration cannot be modified")

	// ErrInvalidDeclarationState indicates a lifecycle transition attempted
	// from the wrong state.
	ErrInvalidDeclarationState = errors.New("declaration is not in a valid state for this operation")

	// ErrPaymentAlreadyProcessed indicates the payment has already left the
	// Pending state. Surfaced as not-found at the wire for compatibility,
	// kept distinct here for observability.
	ErrPaymentAlreadyProcessed = errors.New("payment already processed")

	// ErrMemberInactive indicates an operation requiring an active member.
	ErrMemberInactive = errors.New("member is not active")

	// ErrInvalidLoanState indicates a loan lifecycle transition attempted
	// from the wrong state.
	ErrInvalidLoanState = errors.New("loan is not in a valid state for this operation")

	// ErrGuarantorInUse indicates a guarantor cannot be deleted because a
	// loan references them.
	ErrGuarantorInUse = errors.New("guarantor is associated with existing loans")

	// ErrInstallmentAlreadyPaid indicates the installment has already been
	// settled. Surfaced as not-found at the wire, like processed payments.
	ErrInstallmentAlreadyPaid = errors.New("installment already paid")

	ErrInvalidUUID  = errors.New("invalid UUID format")
	ErrEmptyID      = errors.New("ID cannot be empty")
	ErrInvalidRate  = errors.New("rate must be greater than 0 and at most 1")
	ErrInvalidUnits = errors.New("units must be at least 1")
)

// Operation failure errors represent system-level failures when retrieving
// or processing data.
var (
	ErrFailedToRetrieveMembers       = errors.New("failed to retrieve members")
	ErrFailedToRetrieveMember        = errors.New("failed to retrieve member")
	ErrFailedToRetrieveShares        = errors.New("failed to retrieve shares")
	ErrFailedToRetrieveShareSummary  = errors.New("failed to retrieve share summary")
	ErrFailedToRetrieveDeclarations  = errors.New("failed to retrieve dividend declarations")
	ErrFailedToRetrievePayments      = errors.New("failed to retrieve dividend payments")
	ErrFailedToRetrieveContributions = errors.New("failed to retrieve contributions")
	ErrFailedToRetrieveLoans         = errors.New("failed to retrieve loans")
	ErrFailedToRetrieveGuarantors    = errors.New("failed to retrieve guarantors")
	ErrFailedToRetrieveSettings      = errors.New("failed to retrieve settings")
	ErrFailedToRetrieveSummary       = errors.New("failed to retrieve dashboard summary")
)
