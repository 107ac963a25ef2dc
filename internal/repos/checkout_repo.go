package repos

import "github.com/jmoiron/sqlx"

// CheckoutRepo records every checkout handed to the payment gateway so the
// admin can reconcile redirects against payments.
type CheckoutRepo struct{ db *sqlx.DB }

func NewCheckoutRepo(db *sqlx.DB) *CheckoutRepo { return &CheckoutRepo{db: db} }

type CheckoutSummary struct {
	ID          string  `db:"id" json:"id"`
	SessionID   string  `db:"session_id" json:"-"`
	Membership  string  `db:"membership" json:"membership"`
	Total       float64 `db:"total" json:"total"`
	RedirectURL string  `db:"redirect_url" json:"redirect_url"`
	Status      string  `db:"status" json:"status"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
}

type CheckoutItemRow struct {
	CartID string  `db:"cart_id" json:"cartId"`
	Title  string  `db:"title" json:"title"`
	Size   string  `db:"size" json:"size"`
	Qty    int     `db:"qty" json:"qty"`
	Price  float64 `db:"price" json:"price"`
}

// Create inserts a new checkout header.
func (r *CheckoutRepo) Create(id, sessionID, membership string, total float64) error {
	_, err := r.db.Exec(`
	  INSERT INTO checkouts(id, session_id, membership, total, status, created_at)
	  VALUES(?, ?, ?, ?, 'STARTED', CURRENT_TIMESTAMP)
	`, id, sessionID, membership, total)
	return err
}

// InsertItem inserts a single line item.
func (r *CheckoutRepo) InsertItem(checkoutID string, it CheckoutItemRow) error {
	_, err := r.db.Exec(`
	  INSERT INTO checkout_items(checkout_id, cart_id, title, size, qty, price)
	  VALUES(?, ?, ?, ?, ?, ?)
	`, checkoutID, it.CartID, it.Title, it.Size, it.Qty, it.Price)
	return err
}

// Finish stores the gateway outcome: REDIRECTED with a url, or FAILED.
func (r *CheckoutRepo) Finish(id, status, redirectURL string) error {
	_, err := r.db.Exec(`UPDATE checkouts SET status = ?, redirect_url = ? WHERE id = ?`, status, redirectURL, id)
	return err
}

func (r *CheckoutRepo) Get(id string) (CheckoutSummary, []CheckoutItemRow, error) {
	var c CheckoutSummary
	if err := r.db.Get(&c, `
		SELECT id, COALESCE(session_id,'') AS session_id, membership, total,
		       COALESCE(redirect_url,'') AS redirect_url, status, created_at
		FROM checkouts WHERE id = ?
	`, id); err != nil {
		return CheckoutSummary{}, nil, err
	}
	var items []CheckoutItemRow
	if err := r.db.Select(&items, `
		SELECT cart_id, title, size, qty, price
		FROM checkout_items WHERE checkout_id = ?
		ORDER BY title, size
	`, id); err != nil {
		return CheckoutSummary{}, nil, err
	}
	return c, items, nil
}

func (r *CheckoutRepo) ListLatest(limit int) ([]CheckoutSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []CheckoutSummary
	err := r.db.Select(&out, `
		SELECT id, COALESCE(session_id,'') AS session_id, membership, total,
		       COALESCE(redirect_url,'') AS redirect_url, status, created_at
		FROM checkouts
		ORDER BY datetime(created_at) DESC, id
		LIMIT ?
	`, limit)
	return out, err
}
