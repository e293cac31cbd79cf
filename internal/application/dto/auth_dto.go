// Package dto provides data transfer objects for the application layer.
package dto

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// MaxIdentifierLength bounds the identifier accepted by the login endpoint.
const MaxIdentifierLength = 64

// LoginRequest is the body of POST /auth/login. Mobile and Password are accepted as aliases
// of Identifier and Secret for older clients.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
	Mobile     string `json:"mobile,omitempty"`
	Password   string `json:"password,omitempty"`
}

// Normalize folds the alias fields into Identifier and Secret.
func (r *LoginRequest) Normalize() {
	if r.Identifier == "" {
		r.Identifier = r.Mobile
	}
	if r.Secret == "" {
		r.Secret = r.Password
	}
	r.Mobile, r.Password = "", ""
}

// Validate checks the identifier. The secret is not validated here so that an empty secret
// fails like any other wrong secret.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Identifier,
			validation.By(notBlank),
			validation.Length(1, MaxIdentifierLength),
		),
	)
}

var errBlank = errors.New("cannot be blank")

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errBlank
	}
	return nil
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Token      string `json:"token"`
	Identifier string `json:"identifier"`
	TokenType  string `json:"token_type"`
	ExpiresIn  int64  `json:"expires_in"` // seconds
}

// MeResponse describes the authenticated identity of the current request.
type MeResponse struct {
	Identifier  string    `json:"identifier"`
	Authorities []string  `json:"authorities"`
	ExpiresAt   time.Time `json:"expires_at"`
}
