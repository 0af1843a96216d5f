package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/model"
)

// ShareRepository provides data access methods for the share table.
// Transfer mutations take a Querier so the service can scope them to a
// single transaction.
type ShareRepository struct {
	db *sql.DB
}

// NewShareRepository creates a new ShareRepository with the provided database connection.
func NewShareRepository(db *sql.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

const shareViewQuery = `
	SELECT
		s.id, s.member_id, s.units, s.unit_price, s.purchase_date,
		s.status, s.share_type, s.remarks, s.created_at,
		m.first_name || ' ' || m.last_name AS member_name,
		m.member_no
	FROM share s
	JOIN member m ON s.member_id = m.id
`

func scanShareView(row interface{ Scan(...any) error }) (model.ShareView, error) {
	var v model.ShareView
	var unitPriceStr, purchaseDateStr, createdAtStr string
	var remarks sql.NullString

	err := row.Scan(
		&v.ID,
		&v.MemberID,
		&v.Units,
		&unitPriceStr,
		&purchaseDateStr,
		&v.Status,
		&v.ShareType,
		&remarks,
		&createdAtStr,
		&v.MemberName,
		&v.MemberNumber,
	)
	if err != nil {
		return model.ShareView{}, err
	}

	v.Remarks = remarks.String
	if v.UnitPrice, err = ParseDecimal(unitPriceStr); err != nil {
		return model.ShareView{}, err
	}
	if v.PurchaseDate, err = ParseTime(purchaseDateStr); err != nil {
		return model.ShareView{}, err
	}
	if v.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.ShareView{}, err
	}

	return v, nil
}

// GetShares retrieves all share lots with owning member details,
// newest purchases first.
func (r *ShareRepository) GetShares(ctx context.Context) ([]model.ShareView, error) {
	rows, err := r.db.QueryContext(ctx, shareViewQuery+` ORDER BY s.purchase_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query share table: %w", err)
	}
	defer rows.Close()

	shares := []model.ShareView{}
	for rows.Next() {
		v, err := scanShareView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan share table results: %w", err)
		}
		shares = append(shares, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating share table: %w", err)
	}

	return shares, nil
}

// GetMemberShares retrieves all lots owned by one member, newest first.
func (r *ShareRepository) GetMemberShares(ctx context.Context, memberID string) ([]model.ShareView, error) {
	rows, err := r.db.QueryContext(ctx, shareViewQuery+` WHERE s.member_id = ? ORDER BY s.purchase_date DESC`, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to query share table: %w", err)
	}
	defer rows.Close()

	shares := []model.ShareView{}
	for rows.Next() {
		v, err := scanShareView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan share table results: %w", err)
		}
		shares = append(shares, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating share table: %w", err)
	}

	return shares, nil
}

// GetShare retrieves a single lot by ID.
func (r *ShareRepository) GetShare(ctx context.Context, id string) (model.ShareView, error) {
	row := r.db.QueryRowContext(ctx, shareViewQuery+` WHERE s.id = ?`, id)

	v, err := scanShareView(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ShareView{}, apperrors.ErrShareNotFound
	}
	if err != nil {
		return model.ShareView{}, fmt.Errorf("failed to scan share table results: %w", err)
	}

	return v, nil
}

// GetActiveUnits sums the active units of one member. Takes a Querier
// so transfers can run the insufficiency check inside their transaction.
func (r *ShareRepository) GetActiveUnits(ctx context.Context, q Querier, memberID string) (int, error) {
	var units sql.NullInt64
	err := q.QueryRowContext(ctx,
		`SELECT SUM(units) FROM share WHERE member_id = ? AND status = 'Active'`,
		memberID,
	).Scan(&units)
	if err != nil {
		return 0, fmt.Errorf("failed to sum active units: %w", err)
	}
	return int(units.Int64), nil
}

// GetActiveLotsFIFO loads a member's active lots oldest-purchase-first,
// the consumption order for transfers.
func (r *ShareRepository) GetActiveLotsFIFO(ctx context.Context, q Querier, memberID string) ([]model.Share, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, member_id, units, unit_price, purchase_date, status, share_type
		FROM share
		WHERE member_id = ? AND status = 'Active'
		ORDER BY purchase_date ASC, created_at ASC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query active lots: %w", err)
	}
	defer rows.Close()

	lots := []model.Share{}
	for rows.Next() {
		var s model.Share
		var unitPriceStr, purchaseDateStr string
		if err := rows.Scan(&s.ID, &s.MemberID, &s.Units, &unitPriceStr, &purchaseDateStr, &s.Status, &s.ShareType); err != nil {
			return nil, fmt.Errorf("failed to scan active lots: %w", err)
		}
		if s.UnitPrice, err = ParseDecimal(unitPriceStr); err != nil {
			return nil, err
		}
		if s.PurchaseDate, err = ParseTime(purchaseDateStr); err != nil {
			return nil, err
		}
		lots = append(lots, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active lots: %w", err)
	}

	return lots, nil
}

// InsertShare creates a lot row. Runs on the given Querier so transfers
// can insert recipient lots inside their transaction.
func (r *ShareRepository) InsertShare(ctx context.Context, q Querier, s *model.Share) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO share
			(id, member_id, units, unit_price, purchase_date, status, share_type, remarks, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.MemberID, s.Units, s.UnitPrice.String(), FormatDate(s.PurchaseDate),
		s.Status, s.ShareType, nullable(s.Remarks), FormatDateTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert share: %w", err)
	}
	return nil
}

// MarkTransferred closes a fully consumed lot. Guarded on Active status
// so a concurrent transfer cannot consume the same lot twice.
func (r *ShareRepository) MarkTransferred(ctx context.Context, q Querier, shareID, remarks string) error {
	res, err := q.ExecContext(ctx,
		`UPDATE share SET status = 'Transferred', remarks = ? WHERE id = ? AND status = 'Active'`,
		remarks, shareID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark share transferred: %w", err)
	}
	return requireOneRow(res, apperrors.ErrShareNotFound)
}

// DecrementUnits shrinks a partially consumed lot in place. The units
// guard keeps the decrement from driving the lot negative under races.
func (r *ShareRepository) DecrementUnits(ctx context.Context, q Querier, shareID string, take int, remarks string) error {
	res, err := q.ExecContext(ctx,
		`UPDATE share SET units = units - ?, remarks = ? WHERE id = ? AND status = 'Active' AND units > ?`,
		take, remarks, shareID, take,
	)
	if err != nil {
		return fmt.Errorf("failed to decrement share units: %w", err)
	}
	return requireOneRow(res, apperrors.ErrShareNotFound)
}

// UpdateShare updates the mutable lot fields.
func (r *ShareRepository) UpdateShare(ctx context.Context, s *model.Share) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE share SET
			units = ?, unit_price = ?, purchase_date = ?, status = ?, share_type = ?, remarks = ?
		WHERE id = ?`,
		s.Units, s.UnitPrice.String(), FormatDate(s.PurchaseDate), s.Status, s.ShareType,
		nullable(s.Remarks), s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update share: %w", err)
	}
	return requireOneRow(res, apperrors.ErrShareNotFound)
}

// CancelShare soft-deletes an active lot. Cancelling a non-active lot
// reports not-found, matching the status guard.
func (r *ShareRepository) CancelShare(ctx context.Context, shareID, remarks string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE share SET status = 'Cancelled', remarks = ? WHERE id = ? AND status = 'Active'`,
		remarks, shareID,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel share: %w", err)
	}
	return requireOneRow(res, apperrors.ErrShareNotFound)
}

// GetShareSummary aggregates the active register.
func (r *ShareRepository) GetShareSummary(ctx context.Context) (model.ShareSummary, error) {
	var s model.ShareSummary
	var totalShares sql.NullInt64
	var totalValue, currentPrice sql.NullString
	var holders sql.NullInt64

	err := r.db.QueryRowContext(ctx, `
		SELECT
			SUM(units),
			SUM(CAST(unit_price AS REAL) * units),
			COUNT(DISTINCT member_id),
			(SELECT unit_price FROM share WHERE status = 'Active' ORDER BY purchase_date DESC LIMIT 1)
		FROM share
		WHERE status = 'Active'`,
	).Scan(&totalShares, &totalValue, &holders, &currentPrice)
	if err != nil {
		return model.ShareSummary{}, fmt.Errorf("failed to query share summary: %w", err)
	}

	s.TotalShares = int(totalShares.Int64)
	s.ShareholdersCount = int(holders.Int64)
	s.TotalValue = decimal.Zero
	s.CurrentSharePrice = decimal.Zero

	if totalValue.Valid {
		if s.TotalValue, err = ParseDecimal(totalValue.String); err != nil {
			return model.ShareSummary{}, err
		}
	}
	if currentPrice.Valid {
		if s.CurrentSharePrice, err = ParseDecimal(currentPrice.String); err != nil {
			return model.ShareSummary{}, err
		}
	}

	return s, nil
}

// RefreshMemberShareSummary rebuilds the materialized per-member register.
func (r *ShareRepository) RefreshMemberShareSummary(ctx context.Context, refreshedAt string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin summary refresh: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, `DELETE FROM member_share_summary`); err != nil {
		return fmt.Errorf("failed to clear share summary: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO member_share_summary (member_id, active_units, total_value, refreshed_at)
		SELECT
			member_id,
			SUM(units),
			CAST(SUM(CAST(unit_price AS REAL) * units) AS TEXT),
			?
		FROM share
		WHERE status = 'Active'
		GROUP BY member_id`,
		refreshedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to rebuild share summary: %w", err)
	}

	return tx.Commit()
}

// GetMemberShareSummaries reads the materialized register.
func (r *ShareRepository) GetMemberShareSummaries(ctx context.Context) ([]model.MemberShareSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT member_id, active_units, total_value, refreshed_at
		FROM member_share_summary
		ORDER BY active_units DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query member share summary: %w", err)
	}
	defer rows.Close()

	summaries := []model.MemberShareSummary{}
	for rows.Next() {
		var s model.MemberShareSummary
		var totalValueStr, refreshedAtStr string
		if err := rows.Scan(&s.MemberID, &s.ActiveUnits, &totalValueStr, &refreshedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan member share summary: %w", err)
		}
		if s.TotalValue, err = ParseDecimal(totalValueStr); err != nil {
			return nil, err
		}
		if s.RefreshedAt, err = ParseTime(refreshedAtStr); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member share summary: %w", err)
	}

	return summaries, nil
}

// requireOneRow converts a zero-rows-affected result into notFound.
func requireOneRow(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
