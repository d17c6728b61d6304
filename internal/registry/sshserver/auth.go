package sshserver

import (
	"context"

	"github.com/gliderlabs/ssh"
	"github.com/sirupsen/logrus"

	"github.com/privcrate/registry/internal/registry/database"
	"github.com/privcrate/registry/internal/workerpool"
)

const connMetadataKey = "X-Conn-Metadata"

// authResult is stashed on the SSH context by OnKey and picked back up
// by newSession once the channel opens.
type authResult struct {
	UID         int64
	KID         int64
	Fingerprint string
	AuthKey     string
}

// OnKey looks up the presented public key's owning user, mints or
// reuses that key's session, and accepts the connection only if both
// succeed. Any database failure rejects just this one auth attempt;
// the listener keeps running.
func (s *Server) OnKey(ctx ssh.Context, key ssh.PublicKey) bool {
	publicKey := key.Marshal()

	type lookup struct {
		user *database.User
		key  *database.SSHKeyRecord
	}
	found, err := workerpool.Submit(ctx, s.pool, func(ctx context.Context) (lookup, error) {
		u, k, err := s.store.FindUserBySSHPublicKey(ctx, publicKey)
		return lookup{user: u, key: k}, err
	})
	if err != nil {
		if !database.IsErrKeyNotFound(err) {
			logrus.Errorf("auth: key lookup failed: %v", err)
		}
		return false
	}

	if _, err := workerpool.Submit(ctx, s.pool, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.store.TouchSSHKeyLastUsed(ctx, found.key.ID)
	}); err != nil {
		logrus.Warnf("auth: failed to touch last_used_at for key %d: %v", found.key.ID, err)
	}

	remoteAddr := ctx.RemoteAddr().String()
	session, err := workerpool.Submit(ctx, s.pool, func(ctx context.Context) (*database.Session, error) {
		return s.store.GetOrCreateSession(ctx, found.key.ID, remoteAddr)
	})
	if err != nil {
		logrus.Errorf("auth: session mint failed: %v", err)
		return false
	}

	ctx.SetValue(connMetadataKey, &authResult{
		UID:         found.user.ID,
		KID:         found.key.ID,
		Fingerprint: found.key.Fingerprint,
		AuthKey:     session.SessionKey,
	})
	return true
}
