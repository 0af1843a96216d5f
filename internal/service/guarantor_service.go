package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saccokit/sacco-backoffice/internal/api/request"
	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/model"
	"github.com/saccokit/sacco-backoffice/internal/repository"
)

// GuarantorMinUnits is the active share holding a member needs before
// they can stand as a loan guarantor.
const GuarantorMinUnits = 100

// GuarantorService manages the guarantor register.
type GuarantorService struct {
	guarantors *repository.GuarantorRepository
}

// NewGuarantorService creates a new GuarantorService.
func NewGuarantorService(guarantors *repository.GuarantorRepository) *GuarantorService {
	return &GuarantorService{guarantors: guarantors}
}

// GetGuarantors returns all guarantors.
func (s *GuarantorService) GetGuarantors(ctx context.Context) ([]model.Guarantor, error) {
	return s.guarantors.GetGuarantors(ctx)
}

// GetGuarantor returns one guarantor.
func (s *GuarantorService) GetGuarantor(ctx context.Context, id string) (model.Guarantor, error) {
	return s.guarantors.GetGuarantor(ctx, id)
}

// CreateGuarantor registers a guarantor as active.
func (s *GuarantorService) CreateGuarantor(ctx context.Context, req request.CreateGuarantorRequest) (model.Guarantor, error) {
	g := model.Guarantor{
		ID:              uuid.New().String(),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		PhoneNumber:     req.PhoneNumber,
		Email:           req.Email,
		IDNumber:        req.IDNumber,
		PhysicalAddress: req.PhysicalAddress,
		IsActive:        true,
		Remarks:         req.Remarks,
		CreatedAt:       time.Now().UTC(),
	}

	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return model.Guarantor{}, fmt.Errorf("invalid date of birth: %w", err)
		}
		g.DateOfBirth = &dob
	}

	if err := s.guarantors.InsertGuarantor(ctx, &g); err != nil {
		return model.Guarantor{}, err
	}
	return g, nil
}

// UpdateGuarantor edits a guarantor's details.
func (s *GuarantorService) UpdateGuarantor(ctx context.Context, id string, req request.UpdateGuarantorRequest) (model.Guarantor, error) {
	existing, err := s.guarantors.GetGuarantor(ctx, id)
	if err != nil {
		return model.Guarantor{}, err
	}

	existing.FirstName = req.FirstName
	existing.LastName = req.LastName
	existing.PhoneNumber = req.PhoneNumber
	existing.Email = req.Email
	existing.IDNumber = req.IDNumber
	existing.PhysicalAddress = req.PhysicalAddress
	existing.IsActive = req.IsActive
	existing.Remarks = req.Remarks

	existing.DateOfBirth = nil
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return model.Guarantor{}, fmt.Errorf("invalid date of birth: %w", err)
		}
		existing.DateOfBirth = &dob
	}

	if err := s.guarantors.UpdateGuarantor(ctx, &existing); err != nil {
		return model.Guarantor{}, err
	}
	return s.guarantors.GetGuarantor(ctx, id)
}

// DeleteGuarantor removes a guarantor unless a loan references them.
func (s *GuarantorService) DeleteGuarantor(ctx context.Context, id string) error {
	inUse, err := s.guarantors.GuarantorInUse(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return apperrors.ErrGuarantorInUse
	}
	return s.guarantors.DeleteGuarantor(ctx, id)
}

// SearchGuarantors matches guarantors on name, ID number, or phone.
func (s *GuarantorService) SearchGuarantors(ctx context.Context, query string) ([]model.Guarantor, error) {
	return s.guarantors.SearchGuarantors(ctx, query)
}

// GetPotentialGuarantors lists members eligible to stand as guarantor.
func (s *GuarantorService) GetPotentialGuarantors(ctx context.Context) ([]model.PotentialGuarantor, error) {
	return s.guarantors.GetPotentialGuarantors(ctx, GuarantorMinUnits)
}
