package database

import "time"

// User is the account a public key was registered against.
type User struct {
	ID       int64     `json:"id"`
	UserName string    `json:"username"`
	Email    string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SSHKeyRecord is the stored record of one user's SSH public key.
type SSHKeyRecord struct {
	ID         int64     `json:"id"`
	UID        int64     `json:"uid"`
	Fingerprint string   `json:"fingerprint"`
	LastUsedAt time.Time `json:"last_used_at"`
}

// Session is an opaque bearer credential minted for one authenticated
// SSH key, embedded into the generated config.json as the HTTP API's
// auth token.
type Session struct {
	ID         int64     `json:"id"`
	KeyID      int64     `json:"key_id"`
	SessionKey string    `json:"session_key"`
	RemoteAddr string    `json:"remote_addr"`
	CreatedAt  time.Time `json:"created_at"`
}

// Organisation groups the crates published under one index.
type Organisation struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PermissionVisible is the user_organisation_permissions bit a member
// must hold to see an organisation's crates at all; finer-grained bits
// (publish/yank/manage-users/create-crate) gate write paths this
// registry doesn't expose.
const PermissionVisible = 1 << 0

// CrateFeatures is the optional-feature table of one crate version:
// feature name to the list of other features/deps it turns on.
type CrateFeatures map[string][]string

// CrateDependency is one entry of a CrateVersion's deps list, shaped to
// match Cargo's sparse index line exactly.
type CrateDependency struct {
	Name            string   `json:"name"`
	VersionReq      string   `json:"version_req"`
	Features        []string `json:"features"`
	Optional        bool     `json:"optional"`
	DefaultFeatures  bool    `json:"default_features"`
	Target          *string  `json:"target,omitempty"`
	Kind            string   `json:"kind"`
	Registry        *string  `json:"registry,omitempty"`
	Package         *string  `json:"package,omitempty"`
}

// CrateVersion is one line of a crate's index file.
type CrateVersion struct {
	Name     string            `json:"name"`
	Vers     string            `json:"vers"`
	Deps     []CrateDependency `json:"deps"`
	Features CrateFeatures     `json:"features"`
	Links    *string           `json:"links,omitempty"`
	Cksum    string            `json:"cksum"`
	Yanked   bool              `json:"yanked"`
}

// CrateFeed is every published version of one crate, in ascending
// version order as returned by the store.
type CrateFeed struct {
	Name     string
	Versions []CrateVersion
}
