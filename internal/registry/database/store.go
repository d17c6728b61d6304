// Package database defines the data the registry needs from its
// backing store — users, SSH keys, sessions, organisations, and
// published crate versions — behind a Store interface, with one
// concrete implementation over MySQL via database/sql.
package database

import "context"

// Store is everything the SSH server and repository synthesizer need
// from persistent storage.
type Store interface {
	// FindUserBySSHPublicKey looks up the user and key record owning
	// the raw public key bytes presented during auth. Returns
	// *ErrKeyNotFound if no key matches.
	FindUserBySSHPublicKey(ctx context.Context, publicKey []byte) (*User, *SSHKeyRecord, error)

	// TouchSSHKeyLastUsed updates a key's last_used_at timestamp. Auth
	// callers treat failure here as non-fatal.
	TouchSSHKeyLastUsed(ctx context.Context, keyID int64) error

	// GetOrCreateSession returns the existing session for keyID,
	// minting a fresh opaque session key if none exists yet.
	GetOrCreateSession(ctx context.Context, keyID int64, remoteAddr string) (*Session, error)

	// FindOrganisationByName looks up an organisation by its exec-path
	// name. Returns *ErrOrganisationNotFound if absent.
	FindOrganisationByName(ctx context.Context, name string) (*Organisation, error)

	// CrateVersionsFor returns every crate published under org that
	// the given user may fetch, each with its versions in ascending
	// order.
	CrateVersionsFor(ctx context.Context, org *Organisation, uid int64) ([]CrateFeed, error)

	// Close releases the store's underlying connections.
	Close() error
}
