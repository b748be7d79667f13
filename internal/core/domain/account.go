package domain

import "time"

// Role is the coarse permission tier attached to an account.
type Role string

const (
	RoleClient   Role = "client"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleEmployee, RoleAdmin:
		return true
	}
	return false
}

// Staff reports whether r may manage inventory. This is the single
// permitted-roles check; call sites must not compare role strings directly.
func (r Role) Staff() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// Account models a registered user of the site.
type Account struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the password-free snapshot of an Account that travels inside
// the bearer token and the per-request context.
type Identity struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// Identity strips the password hash from an Account.
func (a *Account) Identity() Identity {
	return Identity{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Role:      a.Role,
	}
}

// Visitor is the per-request identity. It is constructed exactly once by the
// session middleware and is always one of anonymous or authenticated,
// never partially populated.
type Visitor struct {
	identity *Identity
}

// Anonymous returns the unauthenticated visitor.
func Anonymous() Visitor {
	return Visitor{}
}

// Authenticated returns a visitor carrying the given identity snapshot.
func Authenticated(id Identity) Visitor {
	return Visitor{identity: &id}
}

// LoggedIn reports whether the visitor carries an authenticated identity.
func (v Visitor) LoggedIn() bool {
	return v.identity != nil
}

// Identity returns the identity snapshot. ok is false for anonymous visitors.
func (v Visitor) Identity() (Identity, bool) {
	if v.identity == nil {
		return Identity{}, false
	}
	return *v.identity, true
}

// Snapshot returns the identity, zero-valued for anonymous visitors. View
// templates use this; code paths that must distinguish anonymous call
// Identity instead.
func (v Visitor) Snapshot() Identity {
	if v.identity == nil {
		return Identity{}
	}
	return *v.identity
}
