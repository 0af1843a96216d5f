package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saccokit/sacco-backoffice/internal/apperrors"
)

// ValidateUUID checks that the provided string is a well-formed UUID.
func ValidateUUID(id string) error {
	if id == "" {
		return apperrors.ErrEmptyID
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.ErrInvalidUUID
	}
	return nil
}

// ValidateDate checks a required "2006-01-02" date string.
func ValidateDate(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return fmt.Errorf("%s must be a valid date in YYYY-MM-DD format", field)
	}
	return nil
}

// ValidateOptionalDate checks a "2006-01-02" date string when present.
func ValidateOptionalDate(field, value string) error {
	if value == "" {
		return nil
	}
	return ValidateDate(field, value)
}

// ValidateRate checks that a dividend rate is in (0, 1].
func ValidateRate(rate decimal.Decimal) error {
	if rate.LessThanOrEqual(decimal.Zero) || rate.GreaterThan(decimal.NewFromInt(1)) {
		return apperrors.ErrInvalidRate
	}
	return nil
}

// ValidateFinancialYear checks the "YYYY/YYYY" (or "YYYY-YYYY") form.
func ValidateFinancialYear(year string) error {
	if strings.TrimSpace(year) == "" {
		return fmt.Errorf("financial year is required")
	}
	return nil
}
