package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/model"
)

// GuarantorRepository provides data access methods for the guarantor table.
type GuarantorRepository struct {
	db *sql.DB
}

// NewGuarantorRepository creates a new GuarantorRepository with the provided database connection.
func NewGuarantorRepository(db *sql.DB) *GuarantorRepository {
	return &GuarantorRepository{db: db}
}

const guarantorColumns = `
	id, first_name, last_name, phone_number, email, date_of_birth,
	id_number, physical_address, is_active, remarks, created_at
`

func scanGuarantor(row interface{ Scan(...any) error }) (model.Guarantor, error) {
	var g model.Guarantor
	var phone, email, dobStr, address, remarks sql.NullString
	var createdAtStr string

	err := row.Scan(
		&g.ID,
		&g.FirstName,
		&g.LastName,
		&phone,
		&email,
		&dobStr,
		&g.IDNumber,
		&address,
		&g.IsActive,
		&remarks,
		&createdAtStr,
	)
	if err != nil {
		return model.Guarantor{}, err
	}

	g.PhoneNumber = phone.String
	g.Email = email.String
	g.PhysicalAddress = address.String
	g.Remarks = remarks.String

	if dobStr.Valid {
		dob, err := ParseTime(dobStr.String)
		if err != nil {
			return model.Guarantor{}, err
		}
		g.DateOfBirth = &dob
	}

	g.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Guarantor{}, err
	}

	return g, nil
}

// GetGuarantors retrieves all guarantors ordered by name.
func (r *GuarantorRepository) GetGuarantors(ctx context.Context) ([]model.Guarantor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+guarantorColumns+` FROM guarantor ORDER BY last_name, first_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query guarantor table: %w", err)
	}
	defer rows.Close()

	guarantors := []model.Guarantor{}
	for rows.Next() {
		g, err := scanGuarantor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guarantor table results: %w", err)
		}
		guarantors = append(guarantors, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guarantor table: %w", err)
	}

	return guarantors, nil
}

// GetGuarantor retrieves a single guarantor by ID.
func (r *GuarantorRepository) GetGuarantor(ctx context.Context, id string) (model.Guarantor, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+guarantorColumns+` FROM guarantor WHERE id = ?`, id)

	g, err := scanGuarantor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Guarantor{}, apperrors.ErrGuarantorNotFound
	}
	if err != nil {
		return model.Guarantor{}, fmt.Errorf("failed to scan guarantor table results: %w", err)
	}

	return g, nil
}

// GuarantorExists reports whether a guarantor row exists.
func (r *GuarantorRepository) GuarantorExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM guarantor WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check guarantor existence: %w", err)
	}
	return true, nil
}

// GuarantorInUse reports whether any loan references the guarantor.
func (r *GuarantorRepository) GuarantorInUse(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM loan WHERE guarantor1_id = ? OR guarantor2_id = ? LIMIT 1`,
		id, id,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check guarantor loans: %w", err)
	}
	return true, nil
}

// InsertGuarantor creates a guarantor row.
func (r *GuarantorRepository) InsertGuarantor(ctx context.Context, g *model.Guarantor) error {
	var dob any
	if g.DateOfBirth != nil {
		dob = FormatDate(*g.DateOfBirth)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO guarantor
			(id, first_name, last_name, phone_number, email, date_of_birth,
			 id_number, physical_address, is_active, remarks, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.FirstName, g.LastName, nullable(g.PhoneNumber), nullable(g.Email), dob,
		g.IDNumber, nullable(g.PhysicalAddress), g.IsActive, nullable(g.Remarks),
		FormatDateTime(g.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert guarantor: %w", err)
	}
	return nil
}

// UpdateGuarantor updates the mutable guarantor fields.
func (r *GuarantorRepository) UpdateGuarantor(ctx context.Context, g *model.Guarantor) error {
	var dob any
	if g.DateOfBirth != nil {
		dob = FormatDate(*g.DateOfBirth)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE guarantor SET
			first_name = ?, last_name = ?, phone_number = ?, email = ?,
			date_of_birth = ?, id_number = ?, physical_address = ?,
			is_active = ?, remarks = ?
		WHERE id = ?`,
		g.FirstName, g.LastName, nullable(g.PhoneNumber), nullable(g.Email),
		dob, g.IDNumber, nullable(g.PhysicalAddress), g.IsActive,
		nullable(g.Remarks), g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update guarantor: %w", err)
	}
	return requireOneRow(res, apperrors.ErrGuarantorNotFound)
}

// DeleteGuarantor removes a guarantor row.
func (r *GuarantorRepository) DeleteGuarantor(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM guarantor WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete guarantor: %w", err)
	}
	return requireOneRow(res, apperrors.ErrGuarantorNotFound)
}

// SearchGuarantors matches on name, ID number, or phone number.
func (r *GuarantorRepository) SearchGuarantors(ctx context.Context, query string) ([]model.Guarantor, error) {
	like := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+guarantorColumns+`
		FROM guarantor
		WHERE first_name LIKE ? OR last_name LIKE ? OR id_number LIKE ? OR phone_number LIKE ?
		ORDER BY last_name, first_name
		LIMIT 20`,
		like, like, like, like,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search guarantor table: %w", err)
	}
	defer rows.Close()

	guarantors := []model.Guarantor{}
	for rows.Next() {
		g, err := scanGuarantor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guarantor table results: %w", err)
		}
		guarantors = append(guarantors, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guarantor table: %w", err)
	}

	return guarantors, nil
}

// GetPotentialGuarantors lists active members whose active share holding
// meets the minimum units required to stand as guarantor.
func (r *GuarantorRepository) GetPotentialGuarantors(ctx context.Context, minUnits int) ([]model.PotentialGuarantor, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.member_no, m.first_name, m.last_name, m.email, SUM(s.units) AS active_units
		FROM member m
		JOIN share s ON s.member_id = m.id AND s.status = 'Active'
		WHERE m.status = 'Active'
		GROUP BY m.id
		HAVING SUM(s.units) >= ?
		ORDER BY m.last_name, m.first_name`,
		minUnits,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query potential guarantors: %w", err)
	}
	defer rows.Close()

	potentials := []model.PotentialGuarantor{}
	for rows.Next() {
		var p model.PotentialGuarantor
		if err := rows.Scan(&p.MemberID, &p.MemberNo, &p.FirstName, &p.LastName, &p.Email, &p.ActiveUnits); err != nil {
			return nil, fmt.Errorf("failed to scan potential guarantors: %w", err)
		}
		potentials = append(potentials, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating potential guarantors: %w", err)
	}

	return potentials, nil
}
