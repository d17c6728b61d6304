package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// mysqlStore is the one concrete Store implementation: a thin wrapper
// over *sql.DB with the connection pool tuned the way the teacher's
// own database.NewDB tunes its MySQL pool.
type mysqlStore struct {
	*sql.DB
}

var _ Store = (*mysqlStore)(nil)

// NewMySQLStore opens a pooled connection to the registry's MySQL
// database.
func NewMySQLStore(cfg *mysql.Config) (Store, error) {
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: new connector: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxIdleConns(25)
	db.SetMaxOpenConns(50)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &mysqlStore{DB: db}, nil
}

const sqlFindUserBySSHKey = `SELECT u.id, u.username, u.email, u.created_at,
       k.id, k.uid, k.fingerprint, k.last_used_at
FROM   ssh_keys AS k
INNER  JOIN users AS u ON u.id = k.uid
WHERE  k.public_key = ?`

func (d *mysqlStore) FindUserBySSHPublicKey(ctx context.Context, publicKey []byte) (*User, *SSHKeyRecord, error) {
	var u User
	var k SSHKeyRecord
	var lastUsedAt sql.NullTime

	err := d.QueryRowContext(ctx, sqlFindUserBySSHKey, publicKey).Scan(
		&u.ID, &u.UserName, &u.Email, &u.CreatedAt,
		&k.ID, &k.UID, &k.Fingerprint, &lastUsedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, &ErrKeyNotFound{}
	}
	if err != nil {
		return nil, nil, err
	}
	k.LastUsedAt = lastUsedAt.Time
	return &u, &k, nil
}

func (d *mysqlStore) TouchSSHKeyLastUsed(ctx context.Context, keyID int64) error {
	_, err := d.ExecContext(ctx, "UPDATE ssh_keys SET last_used_at = ? WHERE id = ?", time.Now(), keyID)
	return err
}

const sqlFindSessionByKey = `SELECT id, key_id, session_key, remote_addr, created_at
FROM   sessions
WHERE  key_id = ?
ORDER  BY created_at DESC
LIMIT  1`

func (d *mysqlStore) GetOrCreateSession(ctx context.Context, keyID int64, remoteAddr string) (*Session, error) {
	var s Session
	err := d.QueryRowContext(ctx, sqlFindSessionByKey, keyID).Scan(
		&s.ID, &s.KeyID, &s.SessionKey, &s.RemoteAddr, &s.CreatedAt)
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	now := time.Now()
	sessionKey := uuid.NewString()
	result, err := d.ExecContext(ctx,
		"INSERT INTO sessions(key_id, session_key, remote_addr, created_at) VALUES (?,?,?,?)",
		keyID, sessionKey, remoteAddr, now)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &Session{ID: id, KeyID: keyID, SessionKey: sessionKey, RemoteAddr: remoteAddr, CreatedAt: now}, nil
}

func (d *mysqlStore) FindOrganisationByName(ctx context.Context, name string) (*Organisation, error) {
	var org Organisation
	err := d.QueryRowContext(ctx, "SELECT id, name FROM organisations WHERE name = ?", name).Scan(&org.ID, &org.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &ErrOrganisationNotFound{Name: name}
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}

const sqlCrateVersionsForOrg = `SELECT c.name, v.vers, v.deps, v.features, v.links, v.cksum, v.yanked
FROM   crate_versions AS v
INNER  JOIN crates AS c ON c.id = v.crate_id
INNER  JOIN user_organisation_permissions AS p
       ON p.organisation_id = c.org_id AND p.user_id = ?
WHERE  c.org_id = ? AND (p.permissions & ?) <> 0
ORDER  BY c.name, v.id ASC`

// CrateVersionsFor lists every published version of every crate in org
// that uid is permitted to see. A caller with no
// user_organisation_permissions row for org, or whose row lacks the
// VISIBLE bit, gets zero feeds back rather than an error: the same
// minimal result a nonexistent organisation produces, so a session
// can't distinguish "not a member" from "doesn't exist".
func (d *mysqlStore) CrateVersionsFor(ctx context.Context, org *Organisation, uid int64) ([]CrateFeed, error) {
	rows, err := d.QueryContext(ctx, sqlCrateVersionsForOrg, uid, org.ID, PermissionVisible)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feeds := make(map[string]*CrateFeed)
	var order []string

	for rows.Next() {
		var (
			name, vers, depsJSON, featuresJSON, cksum string
			links                                     sql.NullString
			yanked                                    bool
		)
		if err := rows.Scan(&name, &vers, &depsJSON, &featuresJSON, &links, &cksum, &yanked); err != nil {
			return nil, err
		}

		var deps []CrateDependency
		if err := json.Unmarshal([]byte(depsJSON), &deps); err != nil {
			return nil, fmt.Errorf("database: decode deps for %s %s: %w", name, vers, err)
		}
		features := make(CrateFeatures)
		if err := json.Unmarshal([]byte(featuresJSON), &features); err != nil {
			return nil, fmt.Errorf("database: decode features for %s %s: %w", name, vers, err)
		}

		var linksPtr *string
		if links.Valid {
			linksPtr = &links.String
		}

		feed, ok := feeds[name]
		if !ok {
			feed = &CrateFeed{Name: name}
			feeds[name] = feed
			order = append(order, name)
		}
		feed.Versions = append(feed.Versions, CrateVersion{
			Name:     name,
			Vers:     vers,
			Deps:     deps,
			Features: features,
			Links:    linksPtr,
			Cksum:    cksum,
			Yanked:   yanked,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]CrateFeed, 0, len(order))
	for _, name := range order {
		out = append(out, *feeds[name])
	}
	return out, nil
}

func (d *mysqlStore) Close() error {
	return d.DB.Close()
}
