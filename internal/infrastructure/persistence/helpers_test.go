package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testSchema = []string{
	`CREATE TABLE providers (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		cuit TEXT NOT NULL UNIQUE,
		business_name TEXT NOT NULL,
		search_name TEXT NOT NULL,
		sap_account TEXT NOT NULL,
		email TEXT,
		active BOOLEAN NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE societies (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		code TEXT NOT NULL UNIQUE,
		external_id TEXT NOT NULL UNIQUE,
		cuit TEXT NOT NULL,
		name TEXT NOT NULL,
		sap_account TEXT,
		active BOOLEAN NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE user_societies (
		user_id TEXT NOT NULL,
		society_id TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (user_id, society_id)
	)`,
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		username TEXT NOT NULL UNIQUE,
		email TEXT,
		password_hash TEXT NOT NULL,
		display_name TEXT,
		role TEXT NOT NULL,
		cuit TEXT,
		active BOOLEAN NOT NULL DEFAULT 1,
		last_login_at DATETIME,
		failed_attempts INTEGER NOT NULL DEFAULT 0,
		locked_until DATETIME
	)`,
	`CREATE TABLE document_types (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL,
		letter TEXT,
		credit_debit_note BOOLEAN NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE documents (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		provider_id TEXT NOT NULL,
		society_id TEXT NOT NULL,
		document_type_id TEXT,
		number TEXT NOT NULL,
		issue_date DATETIME NOT NULL,
		due_date DATETIME,
		currency TEXT NOT NULL DEFAULT 'ARS',
		net_amount NUMERIC NOT NULL,
		total_amount NUMERIC NOT NULL,
		cae TEXT,
		cae_expiration DATETIME,
		attachment_storage_key TEXT,
		attachment_file_name TEXT,
		attachment_content_type TEXT,
		attachment_size INTEGER NOT NULL DEFAULT 0,
		attachment_pages INTEGER NOT NULL DEFAULT 0,
		attachment_uploaded_at DATETIME,
		status TEXT NOT NULL,
		observation TEXT,
		rejection_reason TEXT,
		paid_at DATETIME,
		created_by TEXT
	)`,
	`CREATE TABLE document_tax_lines (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL,
		code TEXT NOT NULL,
		base NUMERIC NOT NULL,
		amount NUMERIC NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE document_order_references (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL,
		purchase_order_number TEXT NOT NULL,
		position INTEGER NOT NULL,
		reception_code TEXT,
		quantity_to_invoice NUMERIC
	)`,
	`CREATE TABLE document_history (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL,
		from_status TEXT,
		to_status TEXT NOT NULL,
		reason TEXT,
		occurred_at DATETIME NOT NULL
	)`,
	`CREATE TABLE sap_purchase_order_lines (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL,
		document_number TEXT NOT NULL,
		position INTEGER NOT NULL,
		product_description TEXT,
		unit_of_measure TEXT,
		emission_date DATETIME,
		quantity_ordered NUMERIC NOT NULL DEFAULT 0,
		quantity_received NUMERIC NOT NULL DEFAULT 0,
		quantity_invoiced NUMERIC NOT NULL DEFAULT 0,
		original_amount NUMERIC NOT NULL DEFAULT 0,
		society_code TEXT NOT NULL,
		provider_account TEXT NOT NULL,
		contact TEXT,
		advance_payment_net_amount NUMERIC NOT NULL DEFAULT 0,
		synced_at DATETIME NOT NULL,
		UNIQUE (document_number, position)
	)`,
}

// setupTestDB creates an in-memory SQLite database with the preload schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	for _, stmt := range testSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}
