package sshserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gliderlabs/ssh"
	"github.com/sirupsen/logrus"

	"github.com/privcrate/registry/internal/gitpack/object"
	"github.com/privcrate/registry/internal/gitpack/repo"
	"github.com/privcrate/registry/internal/gitproto"
	"github.com/privcrate/registry/internal/registry/database"
	"github.com/privcrate/registry/internal/registry/synth"
	"github.com/privcrate/registry/internal/workerpool"
)

const agentString = "chartered-gitd"

var (
	errShellNotSupported   = errors.New("only 'git-upload-pack <organisation>' is supported over exec; shell access is not available")
	errMissingOrganisation = errors.New("missing organisation argument")
)

// OnSession is gliderlabs/ssh's session handler: every exec, shell, or
// (unregistered, so auto-rejected) subsystem request on an
// authenticated connection arrives here.
func (s *Server) OnSession(sess ssh.Session) {
	e, err := newSession(sess)
	if err != nil {
		_, _ = sess.Stderr().Write([]byte("internal error: session opened without authentication\n"))
		_ = sess.Exit(1)
		return
	}

	exitCode := s.handle(e)
	_ = e.Exit(exitCode)
}

func (s *Server) handle(e *Session) int {
	org, err := parseUploadPackArgs(e.Command())
	if err != nil {
		e.WriteError("%s", err)
		return 1
	}

	logrus.Infof("git-upload-pack org=%s user=%d agent=%s", org, e.UID, e.Context().ClientVersion())

	session := gitproto.NewSession(e, agentString, s.Greeting, s.makeBuilder(e, org))
	if _, err := session.Run(e.Context()); err != nil {
		e.WriteError("internal server error: %v", err)
		return 1
	}
	return 0
}

// parseUploadPackArgs validates an exec command's argv and extracts the
// organisation name, optionally enclosed in slashes. "shell" access (no
// exec argv at all) and a missing or empty organisation each return
// their own sentinel error; any other command is an "unsupported
// command" error.
func parseUploadPackArgs(args []string) (string, error) {
	if len(args) == 0 {
		return "", errShellNotSupported
	}
	if args[0] != UploadPackCommand {
		return "", fmt.Errorf("unsupported command %q", args[0])
	}
	if len(args) < 2 {
		return "", errMissingOrganisation
	}
	org := strings.Trim(args[1], "/")
	if org == "" {
		return "", errMissingOrganisation
	}
	return org, nil
}

type buildResult struct {
	commitID [20]byte
	entries  []object.Encoded
}

// makeBuilder returns the gitproto.Builder for one fetch of
// organisation org by the authenticated user on e. Database access is
// bridged through the worker pool so it never blocks the session's own
// goroutine directly against an unbounded number of other sessions.
//
// An unknown organisation is treated exactly like one the user has no
// crates in: both produce the minimal (config.json-only) tree rather
// than a distinguishable error, so a probing client cannot learn
// whether an organisation exists.
func (s *Server) makeBuilder(e *Session, org string) gitproto.Builder {
	return func(ctx context.Context) ([20]byte, []object.Encoded, error) {
		result, err := workerpool.Submit(ctx, s.pool, func(ctx context.Context) (buildResult, error) {
			var feeds []database.CrateFeed

			organisation, err := s.store.FindOrganisationByName(ctx, org)
			switch {
			case err == nil:
				feeds, err = s.store.CrateVersionsFor(ctx, organisation, e.UID)
				if err != nil {
					return buildResult{}, err
				}
			case database.IsErrOrganisationNotFound(err):
				// fall through with feeds == nil: minimal tree.
			default:
				return buildResult{}, err
			}

			cfg := synth.NewCargoConfig(s.WebBase, e.AuthKey, org)
			commitID, entries, err := synth.Build(repo.NewBuilder(), cfg, feeds, s.authorIdentity(), s.committerIdentity(), s.CommitMessage)
			if err != nil {
				return buildResult{}, err
			}
			return buildResult{commitID: commitID, entries: entries}, nil
		})
		if err != nil {
			return [20]byte{}, nil, err
		}
		return result.commitID, result.entries, nil
	}
}
