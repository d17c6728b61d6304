package object

import (
	"fmt"
	"io"
	"sort"
)

// TreeEntryMode is the octal mode string Git writes for a tree entry.
// Only the two kinds a synthesized repository ever produces are needed:
// a plain file and a subdirectory.
type TreeEntryMode string

const (
	ModeBlob TreeEntryMode = "100644"
	ModeTree TreeEntryMode = "40000"
)

// TreeEntry is one line of a tree object: a name, the mode and id of the
// object it names, and that object's kind.
type TreeEntry struct {
	Name string
	Mode TreeEntryMode
	Type ObjectType
	ID   [20]byte
}

// sortKey returns the byte sequence Git actually sorts tree entries by:
// the entry name, with a trailing "/" appended for subtrees. This is what
// makes "foo.go" sort before the subtree "foo" (which compares as "foo/").
func (e TreeEntry) sortKey() string {
	if e.Type == TreeObjectType {
		return e.Name + "/"
	}
	return e.Name
}

// Tree is an ordered set of entries naming the files and subdirectories
// of one directory level.
type Tree struct {
	Entries []TreeEntry
}

// Type implements Object.
func (t *Tree) Type() ObjectType {
	return TreeObjectType
}

// Encode implements Object, writing entries in Git's canonical tree sort
// order: ascending byte order over each entry's sortKey.
func (t *Tree) Encode(w io.Writer) (int, error) {
	entries := make([]TreeEntry, len(t.Entries))
	copy(entries, t.Entries)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].sortKey() < entries[j].sortKey()
	})

	total := 0
	for _, e := range entries {
		n, err := fmt.Fprintf(w, "%s %s\x00", e.Mode, e.Name)
		if err != nil {
			return total, err
		}
		total += n

		m, err := w.Write(e.ID[:])
		if err != nil {
			return total, err
		}
		total += m
	}
	return total, nil
}
