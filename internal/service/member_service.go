package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saccokit/sacco-backoffice/internal/api/request"
	"github.com/saccokit/sacco-backoffice/internal/model"
	"github.com/saccokit/sacco-backoffice/internal/repository"
	"github.com/saccokit/sacco-backoffice/internal/vault"
)

// MemberService handles member registration and maintenance. Bank account
// numbers are encrypted before they reach the repository and decrypted on
// the way out.
type MemberService struct {
	members *repository.MemberRepository
	vault   *vault.Vault
}

// NewMemberService creates a new MemberService.
func NewMemberService(members *repository.MemberRepository, v *vault.Vault) *MemberService {
	return &MemberService{members: members, vault: v}
}

// GetMembers returns all members with decrypted bank account numbers.
func (s *MemberService) GetMembers(ctx context.Context) ([]model.Member, error) {
	members, err := s.members.GetMembers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range members {
		if err := s.decryptBankAccount(&members[i]); err != nil {
			return nil, err
		}
	}
	return members, nil
}

// GetMember returns one member with a decrypted bank account number.
func (s *MemberService) GetMember(ctx context.Context, id string) (model.Member, error) {
	m, err := s.members.GetMember(ctx, id)
	if err != nil {
		return model.Member{}, err
	}
	if err := s.decryptBankAccount(&m); err != nil {
		return model.Member{}, err
	}
	return m, nil
}

// CreateMember registers a new member in Active status.
func (s *MemberService) CreateMember(ctx context.Context, req request.CreateMemberRequest) (model.Member, error) {
	m := model.Member{
		ID:          uuid.New().String(),
		MemberNo:    req.MemberNo,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		NationalID:  req.NationalID,
		Status:      model.MemberStatusActive,
		CreatedAt:   time.Now().UTC(),
	}

	if req.JoinDate != "" {
		joinDate, err := time.Parse("2006-01-02", req.JoinDate)
		if err != nil {
			return model.Member{}, fmt.Errorf("invalid join date: %w", err)
		}
		m.JoinDate = &joinDate
	}

	encrypted, err := s.vault.Encrypt(req.BankAccountNumber)
	if err != nil {
		return model.Member{}, fmt.Errorf("failed to encrypt bank account: %w", err)
	}
	m.BankAccountNumber = encrypted

	if err := s.members.InsertMember(ctx, &m); err != nil {
		return model.Member{}, err
	}

	m.BankAccountNumber = req.BankAccountNumber
	return m, nil
}

// UpdateMember edits a member's mutable fields.
func (s *MemberService) UpdateMember(ctx context.Context, id string, req request.UpdateMemberRequest) (model.Member, error) {
	m, err := s.members.GetMember(ctx, id)
	if err != nil {
		return model.Member{}, err
	}

	m.FirstName = req.FirstName
	m.LastName = req.LastName
	m.Email = req.Email
	m.PhoneNumber = req.PhoneNumber
	m.NationalID = req.NationalID
	if req.Status != "" {
		m.Status = req.Status
	}

	encrypted, err := s.vault.Encrypt(req.BankAccountNumber)
	if err != nil {
		return model.Member{}, fmt.Errorf("failed to encrypt bank account: %w", err)
	}
	m.BankAccountNumber = encrypted

	if err := s.members.UpdateMember(ctx, &m); err != nil {
		return model.Member{}, err
	}

	m.BankAccountNumber = req.BankAccountNumber
	return m, nil
}

// DeactivateMember flips a member to Inactive, removing them from future
// dividend eligibility without touching their history.
func (s *MemberService) DeactivateMember(ctx context.Context, id string) error {
	return s.members.SetMemberStatus(ctx, id, model.MemberStatusInactive)
}

func (s *MemberService) decryptBankAccount(m *model.Member) error {
	plain, err := s.vault.Decrypt(m.BankAccountNumber)
	if err != nil {
		return fmt.Errorf("failed to decrypt bank account for member %s: %w", m.ID, err)
	}
	m.BankAccountNumber = plain
	return nil
}
