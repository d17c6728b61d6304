package database

import (
	"database/sql"
	"errors"
	"fmt"
)

const erDupEntry = 1062

// ErrKeyNotFound is returned when no SSH key record matches the public
// key bytes presented at auth time.
type ErrKeyNotFound struct{}

func (e *ErrKeyNotFound) Error() string {
	return "ssh key not found"
}

// IsErrKeyNotFound reports whether err is an *ErrKeyNotFound.
func IsErrKeyNotFound(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*ErrKeyNotFound)
	return ok
}

// ErrOrganisationNotFound is returned when the organisation named in
// the git-upload-pack exec path doesn't exist.
type ErrOrganisationNotFound struct {
	Name string
}

func (e *ErrOrganisationNotFound) Error() string {
	return fmt.Sprintf("organisation %q not found", e.Name)
}

// IsErrOrganisationNotFound reports whether err is an
// *ErrOrganisationNotFound.
func IsErrOrganisationNotFound(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*ErrOrganisationNotFound)
	return ok
}

// IsNotFound reports whether err represents any "no such row" outcome,
// whether from a typed not-found error or a bare sql.ErrNoRows that
// slipped through a helper that didn't wrap it.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if IsErrKeyNotFound(err) || IsErrOrganisationNotFound(err) {
		return true
	}
	return errors.Is(err, sql.ErrNoRows)
}
