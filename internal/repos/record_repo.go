package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"gymsite/internal/remote"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var recordTables = map[string]bool{
	remote.TableSettings:     true,
	remote.TableHomeContent:  true,
	remote.TableProducts:     true,
	remote.TableTestimonials: true,
}

// RecordRepo is a remote.Store over plain SQL: one table per entity holding
// the JSON body keyed by id. Works with sqlite and pgx.
type RecordRepo struct{ db *sqlx.DB }

func NewRecordRepo(db *sqlx.DB) *RecordRepo { return &RecordRepo{db: db} }

var _ remote.Store = (*RecordRepo)(nil)

// OpenRecordDB connects to the record store and creates its tables.
func OpenRecordDB(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" && dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	for t := range recordTables {
		if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + t + `(
  id TEXT PRIMARY KEY,
  position INTEGER NOT NULL DEFAULT 0,
  body TEXT NOT NULL,
  updated_at TEXT
)`); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

type recordRow struct {
	ID   string `db:"id"`
	Body string `db:"body"`
}

func checkTable(table string) error {
	if !recordTables[table] {
		return fmt.Errorf("unknown table %q", table)
	}
	return nil
}

// onlyID returns the id when the filter is exactly {"id": <string>}.
func onlyID(f remote.Filter) (string, bool) {
	if len(f) != 1 {
		return "", false
	}
	id, ok := f["id"].(string)
	return id, ok
}

func (r *RecordRepo) Select(ctx context.Context, table string, f remote.Filter) ([]remote.Record, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	var rows []recordRow
	var err error
	if id, ok := onlyID(f); ok {
		err = r.db.SelectContext(ctx, &rows, r.db.Rebind(`SELECT id, body FROM `+table+` WHERE id = ?`), id)
	} else {
		err = r.db.SelectContext(ctx, &rows, `SELECT id, body FROM `+table+` ORDER BY position, id`)
	}
	if err != nil {
		return nil, err
	}
	out := make([]remote.Record, 0, len(rows))
	for _, row := range rows {
		var rec remote.Record
		if err := json.Unmarshal([]byte(row.Body), &rec); err != nil {
			return nil, fmt.Errorf("%s %s: %w", table, row.ID, err)
		}
		if rec == nil {
			rec = remote.Record{}
		}
		rec["id"] = row.ID
		if f.Match(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *RecordRepo) Insert(ctx context.Context, table string, rec remote.Record) (remote.Record, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	out := remote.Record{}
	for k, v := range rec {
		out[k] = v
	}
	id, _ := out["id"].(string)
	if id == "" {
		id = uuid.NewString()
		out["id"] = id
	}
	body, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO `+table+`(id, position, body, updated_at)
		VALUES(?, (SELECT COALESCE(MAX(position),0)+1 FROM `+table+`), ?, ?)
	`), id, string(body), now())
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RecordRepo) Update(ctx context.Context, table string, f remote.Filter, patch remote.Record) error {
	rows, err := r.Select(ctx, table, f)
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, rec := range rows {
		id := rec["id"].(string)
		for k, v := range patch {
			if k != "id" {
				rec[k] = v
			}
		}
		body, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE `+table+` SET body = ?, updated_at = ? WHERE id = ?`), string(body), now(), id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *RecordRepo) Upsert(ctx context.Context, table string, rec remote.Record, conflictKey string) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if conflictKey != "" && conflictKey != "id" {
		return fmt.Errorf("%s: upsert only supports conflicts on id, got %q", table, conflictKey)
	}
	id, _ := rec["id"].(string)
	if id == "" {
		return errors.New(table + ": upsert needs an id")
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO `+table+`(id, position, body, updated_at)
		VALUES(?, (SELECT COALESCE(MAX(position),0)+1 FROM `+table+`), ?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`), id, string(body), now())
	return err
}

func (r *RecordRepo) Delete(ctx context.Context, table string, f remote.Filter) error {
	if err := checkTable(table); err != nil {
		return err
	}
	if len(f) == 0 {
		return errors.New(table + ": refusing unfiltered delete")
	}
	if id, ok := onlyID(f); ok {
		_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM `+table+` WHERE id = ?`), id)
		return err
	}
	rows, err := r.Select(ctx, table, f)
	if err != nil {
		return err
	}
	for _, rec := range rows {
		if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM `+table+` WHERE id = ?`), rec["id"]); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
	}
	return nil
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }
