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

// ContributionService records and lists member deposits.
type ContributionService struct {
	contributions *repository.ContributionRepository
	members       *repository.MemberRepository
}

// NewContributionService creates a new ContributionService.
func NewContributionService(contributions *repository.ContributionRepository, members *repository.MemberRepository) *ContributionService {
	return &ContributionService{contributions: contributions, members: members}
}

// GetContributions lists contributions, optionally filtered by member.
func (s *ContributionService) GetContributions(ctx context.Context, memberID string) ([]model.ContributionView, error) {
	if memberID != "" {
		exists, err := s.members.MemberExists(ctx, memberID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperrors.ErrMemberNotFound
		}
	}
	return s.contributions.GetContributions(ctx, memberID)
}

// CreateContribution records a deposit against an active member.
func (s *ContributionService) CreateContribution(ctx context.Context, req request.CreateContributionRequest) (model.Contribution, error) {
	m, err := s.members.GetMember(ctx, req.MemberID)
	if err != nil {
		return model.Contribution{}, err
	}
	if m.Status != model.MemberStatusActive {
		return model.Contribution{}, apperrors.ErrMemberInactive
	}

	contributionDate, err := time.Parse("2006-01-02", req.ContributionDate)
	if err != nil {
		return model.Contribution{}, fmt.Errorf("invalid contribution date: %w", err)
	}

	c := model.Contribution{
		ID:               uuid.New().String(),
		MemberID:         req.MemberID,
		Amount:           req.Amount,
		Method:           req.Method,
		Reference:        req.Reference,
		ContributionDate: contributionDate,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.contributions.InsertContribution(ctx, &c); err != nil {
		return model.Contribution{}, err
	}
	return c, nil
}
