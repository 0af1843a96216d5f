package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/saccokit/sacco-backoffice/internal/model"
	"github.com/saccokit/sacco-backoffice/internal/repository"
)

// SummaryService assembles the dashboard read. The three aggregates are
// independent queries, so they run concurrently.
type SummaryService struct {
	shares        *repository.ShareRepository
	payments      *repository.PaymentRepository
	contributions *repository.ContributionRepository
}

// NewSummaryService creates a new SummaryService.
func NewSummaryService(
	shares *repository.ShareRepository,
	payments *repository.PaymentRepository,
	contributions *repository.ContributionRepository,
) *SummaryService {
	return &SummaryService{shares: shares, payments: payments, contributions: contributions}
}

// GetDashboardSummary fans out to the share, dividend, and contribution
// aggregates and combines them.
func (s *SummaryService) GetDashboardSummary(ctx context.Context) (model.DashboardSummary, error) {
	var summary model.DashboardSummary

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		shares, err := s.shares.GetShareSummary(ctx)
		if err != nil {
			return err
		}
		summary.Shares = shares
		return nil
	})
	g.Go(func() error {
		dividends, err := s.payments.GetDividendSummary(ctx)
		if err != nil {
			return err
		}
		summary.Dividends = dividends
		return nil
	})
	g.Go(func() error {
		total, err := s.contributions.GetContributionsTotal(ctx)
		if err != nil {
			return err
		}
		summary.ContributionsTotal = total
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.DashboardSummary{}, err
	}
	return summary, nil
}
