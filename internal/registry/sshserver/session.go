package sshserver

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gliderlabs/ssh"
)

var errRequiredContext = fmt.Errorf("sshserver: session opened without an authenticated context")

// Session wraps one gliderlabs/ssh.Session with the auth metadata OnKey
// stashed on the connection context.
type Session struct {
	ssh.Session
	*authResult
}

func newSession(sess ssh.Session) (*Session, error) {
	v := sess.Context().Value(connMetadataKey)
	if v == nil {
		return nil, errRequiredContext
	}
	meta, ok := v.(*authResult)
	if !ok {
		return nil, errRequiredContext
	}
	return &Session{Session: sess, authResult: meta}, nil
}

// WriteError writes a formatted diagnostic to the session's stderr
// sideband, trimming trailing whitespace the way a human-typed message
// would.
func (e *Session) WriteError(format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(e.Stderr(), strings.TrimRightFunc(message, unicode.IsSpace))
}
