package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/model"
)

// MemberRepository provides data access methods for the member table.
type MemberRepository struct {
	db *sql.DB
}

// NewMemberRepository creates a new MemberRepository with the provided database connection.
func NewMemberRepository(db *sql.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

const memberColumns = `
	id, member_no, first_name, last_name, email, phone_number,
	national_id, bank_account_number, join_date, status, created_at
`

func scanMember(row interface{ Scan(...any) error }) (model.Member, error) {
	var m model.Member
	var nationalID, bankAccount, joinDateStr sql.NullString
	var createdAtStr string

	err := row.Scan(
		&m.ID,
		&m.MemberNo,
		&m.FirstName,
		&m.LastName,
		&m.Email,
		&m.PhoneNumber,
		&nationalID,
		&bankAccount,
		&joinDateStr,
		&m.Status,
		&createdAtStr,
	)
	if err != nil {
		return model.Member{}, err
	}

	m.NationalID = nationalID.String
	m.BankAccountNumber = bankAccount.String

	if joinDateStr.Valid {
		joinDate, err := ParseTime(joinDateStr.String)
		if err != nil {
			return model.Member{}, err
		}
		m.JoinDate = &joinDate
	}

	m.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Member{}, err
	}

	return m, nil
}

// GetMembers retrieves all members ordered by member number.
func (r *MemberRepository) GetMembers(ctx context.Context) ([]model.Member, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+memberColumns+` FROM member ORDER BY member_no`)
	if err != nil {
		return nil, fmt.Errorf("failed to query member table: %w", err)
	}
	defer rows.Close()

	members := []model.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member table results: %w", err)
		}
		members = append(members, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member table: %w", err)
	}

	return members, nil
}

// GetMember retrieves a single member by ID.
func (r *MemberRepository) GetMember(ctx context.Context, id string) (model.Member, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM member WHERE id = ?`, id)

	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Member{}, apperrors.ErrMemberNotFound
	}
	if err != nil {
		return model.Member{}, fmt.Errorf("failed to scan member table results: %w", err)
	}

	return m, nil
}

// MemberExists reports whether a member row exists.
func (r *MemberRepository) MemberExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM member WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check member existence: %w", err)
	}
	return true, nil
}

// InsertMember creates a member row.
func (r *MemberRepository) InsertMember(ctx context.Context, m *model.Member) error {
	var joinDate any
	if m.JoinDate != nil {
		joinDate = FormatDate(*m.JoinDate)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO member
			(id, member_no, first_name, last_name, email, phone_number,
			 national_id, bank_account_number, join_date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.MemberNo, m.FirstName, m.LastName, m.Email, m.PhoneNumber,
		nullable(m.NationalID), nullable(m.BankAccountNumber), joinDate,
		m.Status, FormatDateTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// UpdateMember updates the mutable member fields. Returns
// apperrors.ErrMemberNotFound when no row matches.
func (r *MemberRepository) UpdateMember(ctx context.Context, m *model.Member) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE member SET
			first_name = ?, last_name = ?, email = ?, phone_number = ?,
			national_id = ?, bank_account_number = ?, status = ?
		WHERE id = ?`,
		m.FirstName, m.LastName, m.Email, m.PhoneNumber,
		nullable(m.NationalID), nullable(m.BankAccountNumber), m.Status, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrMemberNotFound
	}
	return nil
}

// SetMemberStatus flips a member between Active and Inactive.
func (r *MemberRepository) SetMemberStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE member SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update member status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrMemberNotFound
	}
	return nil
}

// GetPaymentDetails loads the fields needed to resolve a payment number.
// The bank account number is returned still encrypted.
func (r *MemberRepository) GetPaymentDetails(ctx context.Context, memberID string) (model.PaymentDetails, error) {
	var d model.PaymentDetails
	var bankAccount sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT id, bank_account_number, phone_number FROM member WHERE id = ?`,
		memberID,
	).Scan(&d.MemberID, &bankAccount, &d.PhoneNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PaymentDetails{}, apperrors.ErrMemberNotFound
	}
	if err != nil {
		return model.PaymentDetails{}, fmt.Errorf("failed to query member payment details: %w", err)
	}

	d.BankAccountNumber = bankAccount.String
	return d, nil
}

// nullable maps empty strings to NULL for optional columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
