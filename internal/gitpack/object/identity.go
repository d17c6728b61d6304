package object

import (
	"fmt"
	"time"
)

// Signature is a name/email/timestamp triple as it appears on the author
// and committer lines of a commit object.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// String renders the signature in the wire form Git expects:
// "Name <email> <unix-seconds> <offset>". Offsets are always written as
// +0000 since synthesized commits carry no local timezone of their own.
func (s *Signature) String() string {
	return fmt.Sprintf("%s <%s> %d +0000", s.Name, s.Email, s.When.Unix())
}
