package model

import "time"

// User roles
const (
	RoleEmployee    = "employee"
	RoleAdmin       = "admin"
	RoleMasterAdmin = "master_admin"
)

// SuperAdminEmail is the fixed address that is always forced to the
// master_admin role on login, regardless of the stored record.
const SuperAdminEmail = "yajuvendra.sinh@getfive.in"

// User is a directory identity. Roles is normalized to a set at the
// boundary; legacy records stored a single scalar role.
type User struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Roles        []string  `json:"roles"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasRole reports whether the user holds the given role
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdminClass reports admin or master_admin privileges
func (u *User) IsAdminClass() bool {
	return u.HasRole(RoleAdmin) || u.HasRole(RoleMasterAdmin)
}

// IsRMClass reports relationship-manager-level visibility, which
// admin-class users also have.
func (u *User) IsRMClass() bool {
	return u.HasRole(RoleRM) || u.IsAdminClass()
}

// Normalize forces the super-admin role for the fixed address and
// guarantees a non-empty role set.
func (u *User) Normalize() {
	if u.Email == SuperAdminEmail && !u.HasRole(RoleMasterAdmin) {
		u.Roles = append(u.Roles, RoleMasterAdmin)
	}
	if len(u.Roles) == 0 {
		u.Roles = []string{RoleEmployee}
	}
}

// Viewer carries the identity and privileges the core computations need.
// It is passed explicitly; the core holds no session state.
type Viewer struct {
	Email        string
	IsAdminClass bool
	IsRMClass    bool
}

// ViewerFor builds a Viewer from a directory user
func ViewerFor(u *User) Viewer {
	return Viewer{
		Email:        u.Email,
		IsAdminClass: u.IsAdminClass(),
		IsRMClass:    u.IsRMClass(),
	}
}

// Session is an active login token
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
