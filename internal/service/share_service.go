package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saccokit/sacco-backoffice/internal/api/request"
	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/model"
	"github.com/saccokit/sacco-backoffice/internal/repository"
)

// ShareService manages the share register. Transfers consume the source
// member's lots oldest-first inside a single transaction.
type ShareService struct {
	db      *sql.DB
	shares  *repository.ShareRepository
	members *repository.MemberRepository
}

// NewShareService creates a new ShareService.
func NewShareService(db *sql.DB, shares *repository.ShareRepository, members *repository.MemberRepository) *ShareService {
	return &ShareService{db: db, shares: shares, members: members}
}

// GetShares returns all lots with owning member details.
func (s *ShareService) GetShares(ctx context.Context) ([]model.ShareView, error) {
	return s.shares.GetShares(ctx)
}

// GetMemberShares returns one member's lots.
func (s *ShareService) GetMemberShares(ctx context.Context, memberID string) ([]model.ShareView, error) {
	exists, err := s.members.MemberExists(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrMemberNotFound
	}
	return s.shares.GetMemberShares(ctx, memberID)
}

// GetShare returns one lot.
func (s *ShareService) GetShare(ctx context.Context, id string) (model.ShareView, error) {
	return s.shares.GetShare(ctx, id)
}

// AddShare records a purchase as a new Active lot.
func (s *ShareService) AddShare(ctx context.Context, req request.AddShareRequest) (model.Share, error) {
	m, err := s.members.GetMember(ctx, req.MemberID)
	if err != nil {
		return model.Share{}, err
	}
	if m.Status != model.MemberStatusActive {
		return model.Share{}, apperrors.ErrMemberInactive
	}

	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		return model.Share{}, fmt.Errorf("invalid purchase date: %w", err)
	}

	shareType := req.ShareType
	if shareType == "" {
		shareType = model.DefaultShareType
	}

	lot := model.Share{
		ID:           uuid.New().String(),
		MemberID:     req.MemberID,
		Units:        req.Units,
		UnitPrice:    req.UnitPrice,
		PurchaseDate: purchaseDate,
		Status:       model.ShareStatusActive,
		ShareType:    shareType,
		Remarks:      req.Remarks,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.shares.InsertShare(ctx, s.db, &lot); err != nil {
		return model.Share{}, err
	}
	return lot, nil
}

// UpdateShare edits a lot in place.
func (s *ShareService) UpdateShare(ctx context.Context, id string, req request.UpdateShareRequest) (model.ShareView, error) {
	existing, err := s.shares.GetShare(ctx, id)
	if err != nil {
		return model.ShareView{}, err
	}

	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		return model.ShareView{}, fmt.Errorf("invalid purchase date: %w", err)
	}

	lot := existing.Share
	lot.Units = req.Units
	lot.UnitPrice = req.UnitPrice
	lot.PurchaseDate = purchaseDate
	lot.Status = req.Status
	lot.ShareType = req.ShareType
	lot.Remarks = req.Remarks

	if err := s.shares.UpdateShare(ctx, &lot); err != nil {
		return model.ShareView{}, err
	}
	return s.shares.GetShare(ctx, id)
}

// CancelShare soft-deletes an active lot.
func (s *ShareService) CancelShare(ctx context.Context, id, remarks string) error {
	return s.shares.CancelShare(ctx, id, remarks)
}

// TransferShares moves units between members, consuming the source
// member's active lots oldest-purchase-first. A fully consumed lot is
// closed as Transferred; a partially consumed lot shrinks in place. Each
// consumed lot yields one new Active lot under the recipient carrying the
// source lot's unit price. The whole move runs in one transaction.
func (s *ShareService) TransferShares(ctx context.Context, req request.TransferSharesRequest) ([]model.Share, error) {
	source, err := s.members.GetMember(ctx, req.FromMemberID)
	if err != nil {
		return nil, err
	}
	recipient, err := s.members.GetMember(ctx, req.ToMemberID)
	if err != nil {
		return nil, err
	}
	if recipient.Status != model.MemberStatusActive {
		return nil, apperrors.ErrMemberInactive
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transfer: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	available, err := s.shares.GetActiveUnits(ctx, tx, req.FromMemberID)
	if err != nil {
		return nil, err
	}
	if available < req.Units {
		return nil, apperrors.ErrInsufficientShares
	}

	lots, err := s.shares.GetActiveLotsFIFO(ctx, tx, req.FromMemberID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	remarks := req.Remarks
	if remarks == "" {
		remarks = fmt.Sprintf("Transferred to member %s", recipient.MemberNo)
	}

	created := []model.Share{}
	remaining := req.Units
	for _, lot := range lots {
		if remaining == 0 {
			break
		}

		take := lot.Units
		if take > remaining {
			take = remaining
		}

		if take == lot.Units {
			err = s.shares.MarkTransferred(ctx, tx, lot.ID, remarks)
		} else {
			err = s.shares.DecrementUnits(ctx, tx, lot.ID, take, remarks)
		}
		if err != nil {
			return nil, err
		}

		shareType := req.ShareType
		if shareType == "" {
			shareType = lot.ShareType
		}

		newLot := model.Share{
			ID:           uuid.New().String(),
			MemberID:     req.ToMemberID,
			Units:        take,
			UnitPrice:    lot.UnitPrice,
			PurchaseDate: now,
			Status:       model.ShareStatusActive,
			ShareType:    shareType,
			Remarks:      fmt.Sprintf("Transferred from member %s", source.MemberNo),
			CreatedAt:    now,
		}
		if err := s.shares.InsertShare(ctx, tx, &newLot); err != nil {
			return nil, err
		}

		created = append(created, newLot)
		remaining -= take
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transfer: %w", err)
	}
	return created, nil
}

// GetShareSummary aggregates the active register.
func (s *ShareService) GetShareSummary(ctx context.Context) (model.ShareSummary, error) {
	return s.shares.GetShareSummary(ctx)
}

// GetMemberShareSummaries reads the materialized per-member register.
func (s *ShareService) GetMemberShareSummaries(ctx context.Context) ([]model.MemberShareSummary, error) {
	return s.shares.GetMemberShareSummaries(ctx)
}

// RefreshMemberShareSummary rebuilds the materialized per-member register.
// Invoked by the nightly scheduler and available on demand.
func (s *ShareService) RefreshMemberShareSummary(ctx context.Context) error {
	return s.shares.RefreshMemberShareSummary(ctx, repository.FormatDateTime(time.Now().UTC()))
}
