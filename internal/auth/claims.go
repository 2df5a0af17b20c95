package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"infinite-experiment/calllist/internal/constants"
)

// UserClaims is the identity a request acts as.
type UserClaims interface {
	UserID() string
	Name() string
	Role() constants.Role
	CanEdit() bool
	IsAdmin() bool
}

// SessionClaims is the payload of a session token. Tokens are issued by the
// login service; this package only verifies them.
type SessionClaims struct {
	UserName  string         `json:"name"`
	RoleValue constants.Role `json:"role"`
	jwt.RegisteredClaims
}

var _ UserClaims = (*SessionClaims)(nil)

func (c *SessionClaims) UserID() string       { return c.Subject }
func (c *SessionClaims) Name() string         { return c.UserName }
func (c *SessionClaims) Role() constants.Role { return c.RoleValue }
func (c *SessionClaims) CanEdit() bool        { return c.RoleValue.CanEdit() }
func (c *SessionClaims) IsAdmin() bool        { return c.RoleValue == constants.RoleAdmin }
