package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations.
//
//nolint:funlen // Database schema DDL
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Member register
		CREATE TABLE member (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			member_no VARCHAR(20) NOT NULL UNIQUE,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL,
			phone_number VARCHAR(20) NOT NULL,
			national_id VARCHAR(20),
			bank_account_number TEXT,
			join_date DATE,
			status VARCHAR(10) NOT NULL DEFAULT 'Active',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Share lots
		CREATE TABLE share (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			member_id VARCHAR(36) NOT NULL,
			units INTEGER NOT NULL CHECK (units >= 1),
			unit_price TEXT NOT NULL,
			purchase_date DATE NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'Active',
			share_type VARCHAR(50) NOT NULL DEFAULT 'Ordinary',
			remarks VARCHAR(255),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(member_id) REFERENCES member(id)
		);

		-- Dividend declarations, one per financial year
		CREATE TABLE dividend_declaration (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			declaration_number VARCHAR(20) NOT NULL,
			financial_year VARCHAR(10) NOT NULL COLLATE NOCASE UNIQUE,
			rate TEXT NOT NULL,
			total_amount TEXT NOT NULL DEFAULT '0',
			declaration_date DATE NOT NULL,
			record_date DATE NOT NULL,
			payment_date DATE,
			status VARCHAR(10) NOT NULL DEFAULT 'Pending',
			notes VARCHAR(500),
			approved_by VARCHAR(36),
			approved_at DATETIME,
			processed_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Dividend payments, generated in bulk at approval
		CREATE TABLE dividend_payment (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			member_id VARCHAR(36) NOT NULL,
			declaration_id VARCHAR(36) NOT NULL,
			financial_year VARCHAR(10) NOT NULL,
			amount TEXT NOT NULL,
			shares INTEGER NOT NULL,
			payment_date DATE,
			payment_method VARCHAR(50),
			payment_number VARCHAR(50),
			transaction_reference VARCHAR(100),
			status VARCHAR(10) NOT NULL DEFAULT 'Pending',
			remarks VARCHAR(500),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(member_id) REFERENCES member(id),
			FOREIGN KEY(declaration_id) REFERENCES dividend_declaration(id) ON DELETE CASCADE
		);

		-- Member contributions
		CREATE TABLE contribution (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			member_id VARCHAR(36) NOT NULL,
			amount TEXT NOT NULL,
			method VARCHAR(50) NOT NULL,
			reference VARCHAR(100),
			contribution_date DATE NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(member_id) REFERENCES member(id)
		);

		-- Organization settings
		CREATE TABLE sacco_setting (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			"key" VARCHAR(50) NOT NULL UNIQUE,
			value VARCHAR(255) NOT NULL,
			updated_at DATETIME
		);

		-- Guarantor register
		CREATE TABLE guarantor (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			phone_number VARCHAR(20),
			email VARCHAR(255),
			date_of_birth DATE,
			id_number VARCHAR(50) NOT NULL,
			physical_address VARCHAR(200),
			is_active INTEGER NOT NULL DEFAULT 1,
			remarks VARCHAR(500),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Loans
		CREATE TABLE loan (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			loan_number VARCHAR(20) NOT NULL UNIQUE,
			member_id VARCHAR(36) NOT NULL,
			loan_type VARCHAR(50) NOT NULL,
			principal_amount TEXT NOT NULL,
			interest_rate TEXT NOT NULL,
			term_months INTEGER NOT NULL CHECK (term_months >= 1),
			purpose VARCHAR(255),
			application_date DATE NOT NULL,
			approval_date DATE,
			start_date DATE,
			end_date DATE,
			status VARCHAR(10) NOT NULL DEFAULT 'Pending',
			monthly_installment TEXT,
			total_payable TEXT,
			outstanding_balance TEXT,
			guarantor1_id VARCHAR(36),
			guarantor2_id VARCHAR(36),
			remarks VARCHAR(500),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(member_id) REFERENCES member(id),
			FOREIGN KEY(guarantor1_id) REFERENCES guarantor(id),
			FOREIGN KEY(guarantor2_id) REFERENCES guarantor(id)
		);

		-- Amortization schedule
		CREATE TABLE loan_installment (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			loan_id VARCHAR(36) NOT NULL,
			installment_number INTEGER NOT NULL,
			due_date DATE NOT NULL,
			principal_amount TEXT NOT NULL,
			interest_amount TEXT NOT NULL,
			total_amount TEXT NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'Pending',
			payment_date DATE,
			FOREIGN KEY(loan_id) REFERENCES loan(id) ON DELETE CASCADE
		);

		-- Materialized per-member share register
		CREATE TABLE member_share_summary (
			member_id VARCHAR(36) NOT NULL PRIMARY KEY,
			active_units INTEGER NOT NULL,
			total_value TEXT NOT NULL,
			refreshed_at DATETIME NOT NULL,
			FOREIGN KEY(member_id) REFERENCES member(id) ON DELETE CASCADE
		);

		CREATE INDEX ix_share_member_id ON share(member_id);
		CREATE INDEX ix_share_status ON share(status);
		CREATE INDEX ix_share_purchase_date ON share(purchase_date);
		CREATE INDEX ix_dividend_payment_member_id ON dividend_payment(member_id);
		CREATE INDEX ix_dividend_payment_declaration_id ON dividend_payment(declaration_id);
		CREATE INDEX ix_dividend_payment_status ON dividend_payment(status);
		CREATE INDEX ix_contribution_member_id ON contribution(member_id);
		CREATE INDEX ix_contribution_date ON contribution(contribution_date);
		CREATE INDEX ix_loan_member_id ON loan(member_id);
		CREATE INDEX ix_loan_status ON loan(status);
		CREATE INDEX ix_loan_installment_loan_id ON loan_installment(loan_id);
		CREATE INDEX ix_loan_installment_status ON loan_installment(status);
	`

	_, err := db.Exec(schema)
	return err
}
