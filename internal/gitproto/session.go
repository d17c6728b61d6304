// Package gitproto drives the Git smart protocol version 2 command loop
// over an already-authenticated SSH channel: capability advertisement,
// ls-refs, and fetch, each built on top of internal/gitpack/pktline.
// There is no negotiation, no partial clone, and no protocol v0/v1
// fallback — every synthesized repository is fetched whole, once, per
// connection.
package gitproto

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/privcrate/registry/internal/gitpack/object"
	"github.com/privcrate/registry/internal/gitpack/packfile"
	"github.com/privcrate/registry/internal/gitpack/pktline"
)

// Builder materializes the commit and objects to serve for this
// connection. It is called at most once per Session: the first command
// that needs a commit hash (ls-refs or fetch) triggers the build, and
// the result is memoized for the rest of the connection, guaranteeing
// ls-refs and the following fetch agree on the same commit.
type Builder func(ctx context.Context) (commitID [20]byte, entries []object.Encoded, err error)

// Session runs the protocol v2 state machine for one git-upload-pack
// invocation.
type Session struct {
	rw       io.ReadWriter
	agent    string
	greeting string
	build    Builder

	built    bool
	commitID [20]byte
	entries  []object.Encoded
}

// NewSession constructs a Session that reads client frames from and
// writes server frames to rw, advertising agent as its agent string and
// greeting as the sideband message sent before packfile data.
func NewSession(rw io.ReadWriter, agent, greeting string, build Builder) *Session {
	return &Session{rw: rw, agent: agent, greeting: greeting, build: build}
}

// Run advertises capabilities and then services command groups until
// either the client disconnects cleanly (a Flush with no command) or a
// fetch completes — which always ends the connection, since there is
// nothing left to negotiate once the one packfile has been sent. It
// returns the exit status to report on the underlying SSH channel.
func (s *Session) Run(ctx context.Context) (exitStatus int, err error) {
	enc := pktline.NewEncoder(s.rw)
	if err := s.advertiseCapabilities(enc); err != nil {
		return 1, err
	}

	var reader pktline.CommandReader
	buf := make([]byte, 4096)
	for {
		res, ok, decodeErr := reader.Next()
		if decodeErr != nil {
			return 1, decodeErr
		}
		if !ok {
			n, readErr := s.rw.Read(buf)
			if n > 0 {
				reader.Feed(buf[:n])
			}
			if readErr != nil {
				if readErr == io.EOF {
					return 0, nil
				}
				return 1, readErr
			}
			continue
		}

		if res.Empty {
			// A flush with nothing queued ahead of it: the client hung up
			// without issuing a command.
			return 0, nil
		}

		switch res.Command.Name {
		case "command=ls-refs":
			if err := s.handleLsRefs(ctx, enc); err != nil {
				return 1, err
			}
		case "command=fetch":
			return s.handleFetch(ctx, enc, res.Command)
		default:
			// Clients probe for capabilities with commands this server
			// doesn't list; per protocol v2, an unrecognized command is
			// simply not answered, not a fault.
			continue
		}
	}
}

func (s *Session) advertiseCapabilities(enc *pktline.Encoder) error {
	lines := [...]string{
		"version 2\n",
		fmt.Sprintf("agent=%s\n", s.agent),
		"ls-refs=unborn\n",
		"fetch=shallow wait-for-done\n",
		"server-option\n",
		"object-info\n",
	}
	for _, line := range lines {
		if err := enc.Data([]byte(line)); err != nil {
			return err
		}
	}
	return enc.Flush()
}

func (s *Session) handleLsRefs(ctx context.Context, enc *pktline.Encoder) error {
	commitID, _, err := s.ensureBuilt(ctx)
	if err != nil {
		return err
	}
	if err := enc.Dataf("%s HEAD symref-target:refs/heads/master\n", hex.EncodeToString(commitID[:])); err != nil {
		return err
	}
	return enc.Flush()
}

func (s *Session) handleFetch(ctx context.Context, enc *pktline.Encoder, cmd pktline.Command) (int, error) {
	_, entries, err := s.ensureBuilt(ctx)
	if err != nil {
		return 1, err
	}

	if !hasDoneToken(cmd) {
		if err := enc.Data([]byte("acknowledgments\n")); err != nil {
			return 1, err
		}
		if err := enc.Data([]byte("ready\n")); err != nil {
			return 1, err
		}
		if err := enc.Delimiter(); err != nil {
			return 1, err
		}
	}

	if err := enc.Data([]byte("packfile\n")); err != nil {
		return 1, err
	}
	if err := enc.SidebandMsg([]byte(s.greeting)); err != nil {
		return 1, err
	}

	packed, err := packfile.Write(entries)
	if err != nil {
		return 1, err
	}
	if err := enc.SidebandData(packed); err != nil {
		return 1, err
	}
	if err := enc.Flush(); err != nil {
		return 1, err
	}

	return 0, nil
}

func (s *Session) ensureBuilt(ctx context.Context) ([20]byte, []object.Encoded, error) {
	if s.built {
		return s.commitID, s.entries, nil
	}
	commitID, entries, err := s.build(ctx)
	if err != nil {
		return [20]byte{}, nil, err
	}
	s.commitID, s.entries, s.built = commitID, entries, true
	return commitID, entries, nil
}

// hasDoneToken reports whether cmd's metadata contains the literal
// "done" line that ends ls-refs/negotiation.
func hasDoneToken(cmd pktline.Command) bool {
	for _, m := range cmd.Metadata {
		if m == "done" {
			return true
		}
	}
	return false
}
