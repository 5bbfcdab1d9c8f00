// Package access holds the role-based permission rules of the API.
//
// Rules take the acting Identity explicitly; the HTTP layer resolves the
// identity from the bearer token and passes it down.
package access

import (
	"net/http"

	"yamdb/internal/apperror"
	"yamdb/internal/models"
)

// Identity is the actor behind a request. The zero value is anonymous.
type Identity struct {
	UserID      uint
	Username    string
	Role        models.Role
	IsSuperuser bool
}

// Anonymous returns the identity of an unauthenticated request.
func Anonymous() Identity {
	return Identity{}
}

// NewIdentity builds the identity of an authenticated user.
func NewIdentity(u *models.User) Identity {
	role := u.Role
	if role == "" {
		role = models.RoleUser
	}
	return Identity{
		UserID:      u.ID,
		Username:    u.Username,
		Role:        role,
		IsSuperuser: u.IsSuperuser,
	}
}

func (i Identity) IsAuthenticated() bool {
	return i.UserID != 0
}

// IsAdmin is true for superusers and for the admin role.
func (i Identity) IsAdmin() bool {
	return i.IsAuthenticated() && (i.IsSuperuser || i.Role == models.RoleAdmin)
}

func (i Identity) IsModerator() bool {
	return i.IsAuthenticated() && i.Role == models.RoleModerator
}

// Rule decides whether an identity may perform a request with the given method.
type Rule func(method string, id Identity) error

// SafeMethod reports whether method never mutates state.
func SafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

var (
	errAuthRequired = apperror.Unauthenticated("authentication credentials were not provided")
	errAdminOnly    = apperror.Forbidden("administrator rights required")
	errNotAuthor    = apperror.Forbidden("only the author, a moderator or an administrator may change this")
)

// Authenticated permits any logged-in user.
func Authenticated(_ string, id Identity) error {
	if !id.IsAuthenticated() {
		return errAuthRequired
	}
	return nil
}

// AdminOnly permits superusers and admins regardless of method.
func AdminOnly(_ string, id Identity) error {
	if !id.IsAuthenticated() {
		return errAuthRequired
	}
	if !id.IsAdmin() {
		return errAdminOnly
	}
	return nil
}

// AdminOrReadOnly permits safe methods to everyone and the rest to admins.
func AdminOrReadOnly(method string, id Identity) error {
	if SafeMethod(method) {
		return nil
	}
	return AdminOnly(method, id)
}

// AuthenticatedOrReadOnly permits safe methods to everyone and the rest to any
// logged-in user. Object ownership is checked separately by AuthorOrStaff.
func AuthenticatedOrReadOnly(method string, id Identity) error {
	if SafeMethod(method) {
		return nil
	}
	return Authenticated(method, id)
}

// AuthorOrStaff is the object-level rule for reviews and comments.
func AuthorOrStaff(method string, id Identity, authorID uint) error {
	if SafeMethod(method) {
		return nil
	}
	if !id.IsAuthenticated() {
		return errAuthRequired
	}
	if id.UserID == authorID || id.IsAdmin() || id.IsModerator() {
		return nil
	}
	return errNotAuthor
}

// CanChangeRole reports whether id may set the role field of a user record.
func CanChangeRole(id Identity) bool {
	return id.IsAdmin()
}
