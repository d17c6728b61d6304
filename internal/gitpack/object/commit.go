package object

import (
	"encoding/hex"
	"fmt"
	"io"
)

// Commit is a single, parentless commit object: synthesized repositories
// have no history, so there is never a parent line to write.
type Commit struct {
	TreeID    [20]byte
	Author    string
	Committer string
	Message   string
}

// Type implements Object.
func (c *Commit) Type() ObjectType {
	return CommitObjectType
}

// Encode implements Object, writing the commit in Git's canonical header
// order: tree, author, committer, a blank line, then the message.
func (c *Commit) Encode(w io.Writer) (int, error) {
	return fmt.Fprintf(w, "tree %s\nauthor %s\ncommitter %s\n\n%s",
		hex.EncodeToString(c.TreeID[:]), c.Author, c.Committer, c.Message)
}
