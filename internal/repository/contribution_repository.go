package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/saccokit/sacco-backoffice/internal/model"
)

// ContributionRepository provides data access methods for the
// contribution table.
type ContributionRepository struct {
	db *sql.DB
}

// NewContributionRepository creates a new ContributionRepository with the provided database connection.
func NewContributionRepository(db *sql.DB) *ContributionRepository {
	return &ContributionRepository{db: db}
}

// GetContributions retrieves contributions with member details, newest
// first. An empty memberID returns all contributions.
func (r *ContributionRepository) GetContributions(ctx context.Context, memberID string) ([]model.ContributionView, error) {
	query := `
		SELECT
			c.id, c.member_id, c.amount, c.method, c.reference,
			c.contribution_date, c.created_at,
			m.first_name || ' ' || m.last_name AS member_name,
			m.member_no
		FROM contribution c
		JOIN member m ON c.member_id = m.id
	`
	var args []any
	if memberID != "" {
		query += ` WHERE c.member_id = ?`
		args = append(args, memberID)
	}
	query += ` ORDER BY c.contribution_date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contribution table: %w", err)
	}
	defer rows.Close()

	contributions := []model.ContributionView{}
	for rows.Next() {
		var v model.ContributionView
		var amountStr, dateStr, createdAtStr string
		var reference sql.NullString

		err := rows.Scan(
			&v.ID,
			&v.MemberID,
			&amountStr,
			&v.Method,
			&reference,
			&dateStr,
			&createdAtStr,
			&v.MemberName,
			&v.MemberNumber,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution results: %w", err)
		}

		v.Reference = reference.String
		if v.Amount, err = ParseDecimal(amountStr); err != nil {
			return nil, err
		}
		if v.ContributionDate, err = ParseTime(dateStr); err != nil {
			return nil, err
		}
		if v.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}

		contributions = append(contributions, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contribution table: %w", err)
	}

	return contributions, nil
}

// InsertContribution records a member deposit.
func (r *ContributionRepository) InsertContribution(ctx context.Context, c *model.Contribution) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contribution
			(id, member_id, amount, method, reference, contribution_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.MemberID, c.Amount.String(), c.Method, nullable(c.Reference),
		FormatDate(c.ContributionDate), FormatDateTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert contribution: %w", err)
	}
	return nil
}

// GetContributionsTotal sums all recorded contributions.
func (r *ContributionRepository) GetContributionsTotal(ctx context.Context) (decimal.Decimal, error) {
	var total sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(CAST(amount AS REAL)) FROM contribution`,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum contributions: %w", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return ParseDecimal(total.String)
}
