package domain

type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"`
}

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// CanWrite reports whether the user may change site content.
func (u *User) CanWrite() bool { return u != nil && u.Role == RoleAdmin }

func (u *User) GetID() string { return u.ID }
