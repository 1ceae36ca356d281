package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
//
// Transactions deliberately carry no foreign key to contacts: deleting a
// contact leaves its transactions in place, and they resolve to
// "Unknown Contact" at read time. Payment columns are nullable so documents
// written before repayment tracking remain readable.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS contacts (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    phone TEXT NOT NULL,
    email TEXT,
    notes TEXT,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    contact_id TEXT NOT NULL,
    amount REAL NOT NULL,
    type TEXT NOT NULL,
    purpose TEXT NOT NULL DEFAULT '',
    date INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    status TEXT,
    paid_amount REAL,
    remaining_amount REAL,
    parent_transaction_id TEXT,
    payment_history TEXT,
    version INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS totals (
    user_id TEXT PRIMARY KEY,
    total_lent REAL NOT NULL DEFAULT 0,
    total_received REAL NOT NULL DEFAULT 0,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    order_ref TEXT NOT NULL,
    vendor TEXT NOT NULL,
    amount REAL NOT NULL,
    date INTEGER NOT NULL,
    delivery_status TEXT NOT NULL,
    return_status TEXT NOT NULL,
    refund_status TEXT NOT NULL,
    notes TEXT,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contacts_user_name ON contacts(user_id, name);
CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions(user_id, date DESC);
CREATE INDEX IF NOT EXISTS idx_transactions_contact ON transactions(contact_id);
CREATE INDEX IF NOT EXISTS idx_transactions_parent ON transactions(parent_transaction_id);
CREATE INDEX IF NOT EXISTS idx_orders_user_date ON orders(user_id, date DESC);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
