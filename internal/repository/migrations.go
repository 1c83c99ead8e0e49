package repository

import "github.com/inkwell-apps/invoicer/pkg/database"

// Migrations is the invoice store schema, applied at startup.
var Migrations = []database.Migration{
	{
		Version: 1,
		Name:    "create_invoices",
		SQL: `
			CREATE TABLE IF NOT EXISTS invoices (
				id TEXT PRIMARY KEY,
				invoice_number TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT 'draft',
				currency TEXT NOT NULL DEFAULT '',
				sender_name TEXT NOT NULL DEFAULT '',
				receiver_name TEXT NOT NULL DEFAULT '',
				total_amount REAL NOT NULL DEFAULT 0,
				invoice_date DATETIME,
				due_date DATETIME,
				document TEXT NOT NULL,
				created_at DATETIME,
				updated_at DATETIME
			);
			CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices(status);
			CREATE INDEX IF NOT EXISTS idx_invoices_invoice_number ON invoices(invoice_number);
			CREATE INDEX IF NOT EXISTS idx_invoices_created_at ON invoices(created_at);
		`,
	},
}
