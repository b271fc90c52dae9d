package users

import (
	"github.com/oceandatatools/sealog-relay/pkg/cmp"
)

// User is an account on the Sealog server.
//
// Password is write-only: the server never returns it.
type User struct {
	ID       string   `json:"id,omitempty"`
	Username string   `json:"username"`
	FullName string   `json:"fullname"`
	Email    string   `json:"email"`
	Password string   `json:"password,omitempty"`
	Roles    []string `json:"roles"`
	Disabled bool     `json:"disabled,omitempty"`
}

func (u User) Equal(other User) bool {
	return u.ID == other.ID &&
		u.Username == other.Username &&
		u.FullName == other.FullName &&
		u.Email == other.Email &&
		cmp.SliceEq(u.Roles, other.Roles) &&
		u.Disabled == other.Disabled
}
