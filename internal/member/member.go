// Package member manages library members: the borrower profile attached to a USER account.
package member

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound            = errors.New("member not found")
	ErrDuplicateEntry      = errors.New("email already registered")
	ErrHasActiveBorrowings = errors.New("member has active borrowings")
)

type Member struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Registration is everything needed to open an account and its member profile together.
type Registration struct {
	Username string
	Password string
	FullName string
	Email    string
}

func (r Registration) normalized() Registration {
	r.Username = strings.TrimSpace(r.Username)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return r
}

// Update carries the editable member fields. Empty fields are left unchanged.
type Update struct {
	FullName string
	Email    string
}
