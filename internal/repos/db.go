package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// OpenDB opens the site's own database: admin users, sessions, the local
// cache table and the checkout log.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if dsn == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Local cache (key -> JSON)
CREATE TABLE IF NOT EXISTS kv(
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT
);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Checkouts handed to the payment gateway
CREATE TABLE IF NOT EXISTS checkouts(
  id TEXT PRIMARY KEY,
  session_id TEXT,
  membership TEXT NOT NULL DEFAULT 'none',
  total NUMERIC NOT NULL,
  redirect_url TEXT,
  status TEXT NOT NULL DEFAULT 'STARTED',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_checkouts_created_at ON checkouts(created_at);

CREATE TABLE IF NOT EXISTS checkout_items(
  checkout_id TEXT NOT NULL REFERENCES checkouts(id) ON DELETE CASCADE,
  cart_id TEXT NOT NULL,
  title TEXT NOT NULL,
  size TEXT NOT NULL,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  price NUMERIC NOT NULL,
  PRIMARY KEY (checkout_id, cart_id)
);
`
	_, err := db.Exec(schema)
	return err
}

const demoPassword = "Passw0rd!"

// SeedAdmin makes sure the CMS admin account exists (idempotent). An empty
// password falls back to the demo password.
func SeedAdmin(db *sqlx.DB, email, password string) error {
	if password == "" {
		log.Printf("[seed] ADMIN_PASSWORD not set, using demo password for %s", email)
		password = demoPassword
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO users(id,email,name,password_hash,role)
		VALUES('u-admin',?,'Admin',?,'ADMIN')
		ON CONFLICT(email) DO NOTHING
	`, email, string(h))
	return err
}
