// Package identity carries the authenticated caller explicitly through service calls.
package identity

import (
	"github.com/google/uuid"

	"anoa.com/qaforum/pkg/apperror"
)

// Identity is the session-derived caller. The zero value is anonymous.
type Identity struct {
	UserID uuid.UUID
}

func New(userID uuid.UUID) Identity {
	return Identity{UserID: userID}
}

func Anonymous() Identity {
	return Identity{}
}

func (i Identity) Authenticated() bool {
	return i.UserID != uuid.Nil
}

// Require returns apperror.ErrUnauthorized for an anonymous identity.
func (i Identity) Require() error {
	if !i.Authenticated() {
		return apperror.ErrUnauthorized
	}
	return nil
}
