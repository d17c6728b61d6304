// Package object implements the subset of the Git object model needed to
// synthesize a repository in memory: blobs, trees, and commits, each
// capable of encoding itself to its canonical loose-object body and of
// being addressed by the SHA-1 of that body's envelope.
package object

import "io"

// ObjectType names one of the three object kinds this package produces.
type ObjectType string

const (
	BlobObjectType   ObjectType = "blob"
	TreeObjectType   ObjectType = "tree"
	CommitObjectType ObjectType = "commit"
)

func (t ObjectType) String() string {
	return string(t)
}

// Object is anything that can serialize itself to the body that follows
// the "<type> <size>\0" envelope header in a loose object or pack entry.
type Object interface {
	// Type returns the object's kind.
	Type() ObjectType

	// Encode writes the object's uncompressed body (everything after the
	// envelope header) to w and returns the number of bytes written.
	Encode(w io.Writer) (int, error)
}
