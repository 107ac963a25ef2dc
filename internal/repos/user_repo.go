package repos

import (
	"fmt"
	"time"

	"gymsite/internal/domain"

	"github.com/jmoiron/sqlx"
)

// UserRepo holds the CMS accounts and the sessions bound to them. Shoppers
// never sign in; their carts hang off the sid cookie alone.
type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `u.id,u.email,u.name,u.password_hash,u.role`

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users u WHERE LOWER(u.email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

// sinceNow renders a sqlite datetime modifier for idle ago.
func sinceNow(idle time.Duration) string {
	return fmt.Sprintf("-%d seconds", int64(idle/time.Second))
}

// SessionUser returns the account bound to sid if the session was seen within
// idle (zero means no limit), and refreshes its last_seen.
func (r *UserRepo) SessionUser(sid string, idle time.Duration) (*domain.User, error) {
	q := `SELECT ` + userCols + ` FROM sessions s JOIN users u ON u.id=s.user_id WHERE s.id=?`
	args := []any{sid}
	if idle > 0 {
		q += ` AND s.last_seen >= datetime('now', ?)`
		args = append(args, sinceNow(idle))
	}
	var u domain.User
	if err := r.DB.Get(&u, q, args...); err != nil {
		return nil, err
	}
	if _, err := r.DB.Exec(`UPDATE sessions SET last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

// PruneSessions deletes sessions idle for longer than idle and reports how
// many went.
func (r *UserRepo) PruneSessions(idle time.Duration) (int64, error) {
	if idle <= 0 {
		return 0, nil
	}
	res, err := r.DB.Exec(`DELETE FROM sessions WHERE last_seen IS NULL OR last_seen < datetime('now', ?)`, sinceNow(idle))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
