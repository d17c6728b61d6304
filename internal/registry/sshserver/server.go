// Package sshserver runs the registry's front door: an SSH server that
// authenticates by public key and answers git-upload-pack requests
// with a synthesized crate index repository.
package sshserver

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gliderlabs/ssh"
	"github.com/sirupsen/logrus"
	gossh "golang.org/x/crypto/ssh"

	"github.com/privcrate/registry/internal/gitpack/object"
	"github.com/privcrate/registry/internal/registry/config"
	"github.com/privcrate/registry/internal/registry/database"
	"github.com/privcrate/registry/internal/workerpool"
	"github.com/privcrate/registry/pkg/version"
)

const UploadPackCommand = "git-upload-pack"

// commitTimestamp is fixed rather than read from time.Now(): the
// synthesized commit hash must be a pure function of the database
// snapshot plus the configured identities and message, so two
// concurrent clients seeing the same snapshot observe the same hash.
var commitTimestamp = time.Unix(0, 0)

// Server is the registry's SSH front end.
type Server struct {
	*config.ServerConfig
	srv   *ssh.Server
	store database.Store
	pool  *workerpool.Pool
}

// NewServer builds a Server from sc around the already-open store,
// loading every configured host private key.
func NewServer(sc *config.ServerConfig, store database.Store) (*Server, error) {
	s := &Server{
		ServerConfig: sc,
		store:        store,
		pool:         workerpool.New(sc.WorkerPoolSize),
	}

	srv := &ssh.Server{
		Addr:             sc.Listen,
		MaxTimeout:       sc.MaxTimeout.Duration,
		IdleTimeout:      sc.IdleTimeout.Duration,
		Version:          version.GetServerBannerVersion(),
		PublicKeyHandler: s.OnKey,
		Handler:          s.OnSession,
	}
	for _, path := range sc.HostPrivateKeys {
		if err := addHostKey(srv, path); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	s.srv = srv
	return s, nil
}

func addHostKey(srv *ssh.Server, path string) error {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("sshserver: read host key %s: %w", path, err)
	}
	key, err := gossh.ParsePrivateKey(pemBytes)
	if err != nil {
		return fmt.Errorf("sshserver: parse host key %s: %w", path, err)
	}
	srv.AddHostKey(key)
	logrus.Infof("loaded host key %s fingerprint %s", key.PublicKey().Type(), gossh.FingerprintSHA256(key.PublicKey()))
	return nil
}

// ListenAndServe runs the SSH server until it is shut down.
func (s *Server) ListenAndServe() error {
	logrus.Infof("registry sshd listening on %s", s.Listen)
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the listener, waiting for in-flight
// sessions until ctx is done, and closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		if err := s.srv.Shutdown(ctx); err != nil {
			logrus.Errorf("shutdown ssh server: %v", err)
		}
	}
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func (s *Server) authorIdentity() *object.Signature {
	return &object.Signature{
		Name:  s.CommitAuthor.Name,
		Email: s.CommitAuthor.Email,
		When:  commitTimestamp,
	}
}

func (s *Server) committerIdentity() *object.Signature {
	return &object.Signature{
		Name:  s.CommitCommitter.Name,
		Email: s.CommitCommitter.Email,
		When:  commitTimestamp,
	}
}
