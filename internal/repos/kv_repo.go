package repos

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"gymsite/internal/cache"
)

// KVRepo is the SQLite backend of the local cache.
type KVRepo struct{ db *sqlx.DB }

func NewKVRepo(db *sqlx.DB) *KVRepo { return &KVRepo{db: db} }

var _ cache.Backend = (*KVRepo)(nil)

func (r *KVRepo) Read(key string) ([]byte, error) {
	var v string
	err := r.db.Get(&v, `SELECT value FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cache.ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

func (r *KVRepo) Write(key string, val []byte) error {
	_, err := r.db.Exec(`
		INSERT INTO kv(key, value, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(val), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (r *KVRepo) Delete(key string) error {
	_, err := r.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}
