package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Bill-number uniqueness is enforced here rather than in application code,
// so concurrent requests submitting the same explicit number cannot both
// succeed.
const schema = `
CREATE TABLE IF NOT EXISTS stores (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bills (
    id TEXT PRIMARY KEY,
    bill_number INTEGER NOT NULL UNIQUE,
    store_id TEXT NOT NULL,
    grand_total REAL NOT NULL,
    paid_amount REAL NOT NULL DEFAULT 0,
    pending_amount REAL NOT NULL,
    date INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (store_id) REFERENCES stores(id)
);

CREATE TABLE IF NOT EXISTS bill_products (
    id TEXT PRIMARY KEY,
    bill_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    product_name TEXT NOT NULL,
    product_code TEXT,
    quantity REAL,
    subtotal REAL NOT NULL,
    final_price REAL NOT NULL,
    FOREIGN KEY (bill_id) REFERENCES bills(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS payments (
    id TEXT PRIMARY KEY,
    bill_id TEXT NOT NULL,
    store_id TEXT NOT NULL,
    amount REAL NOT NULL,
    previous_paid REAL NOT NULL,
    new_paid REAL NOT NULL,
    date INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (bill_id) REFERENCES bills(id),
    FOREIGN KEY (store_id) REFERENCES stores(id)
);

CREATE TABLE IF NOT EXISTS counters (
    name TEXT PRIMARY KEY,
    seq INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bill_products_bill_id ON bill_products(bill_id);
CREATE INDEX IF NOT EXISTS idx_bills_store_id ON bills(store_id);
CREATE INDEX IF NOT EXISTS idx_payments_bill_id ON payments(bill_id);
CREATE INDEX IF NOT EXISTS idx_payments_date ON payments(date);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
