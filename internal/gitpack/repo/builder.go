// Package repo synthesizes a single Git commit's worth of repository
// state in memory: an index crate page and its config are inserted as
// files at computed shard paths, then committed once into a tree and
// commit object with no parent and no on-disk storage at any point.
package repo

import (
	"sort"

	"github.com/privcrate/registry/internal/gitpack/object"
)

type node struct {
	isDir bool
	dir   *directory
	blob  [20]byte
}

type directory struct {
	entries map[string]*node
}

func newDirectory() *directory {
	return &directory{entries: make(map[string]*node)}
}

// Builder accumulates files and directories in memory and, on Commit,
// materializes the Git tree/commit objects needed to pack them.
//
// Builder is not safe for concurrent use; callers synthesize one
// repository per fetch and discard the Builder afterward.
type Builder struct {
	root    *directory
	objects map[[20]byte]object.Encoded
	order   []object.Encoded
}

// NewBuilder returns an empty Builder ready to accept Insert calls.
func NewBuilder() *Builder {
	return &Builder{
		root:    newDirectory(),
		objects: make(map[[20]byte]object.Encoded),
	}
}

// Insert hashes content as a blob and places it under name inside the
// directory named by path, creating any missing intermediate
// directories. Inserting the same (path, name) twice overwrites the
// leaf entry with the new content; inserting through a path segment
// that already names a file returns *ErrNotADirectory.
func (b *Builder) Insert(path []string, name string, content []byte) error {
	dir := b.root
	for _, segment := range path {
		n, ok := dir.entries[segment]
		if !ok {
			n = &node{isDir: true, dir: newDirectory()}
			dir.entries[segment] = n
		} else if !n.isDir {
			return &ErrNotADirectory{Segment: segment}
		}
		dir = n.dir
	}

	enc, err := object.HashObject(&object.Blob{Contents: content})
	if err != nil {
		return err
	}
	b.remember(enc)

	dir.entries[name] = &node{blob: enc.ID}
	return nil
}

// remember adds enc to the object set if its fingerprint hasn't been
// seen before, preserving first-seen order so identical blobs or trees
// referenced from multiple places are only packed once.
func (b *Builder) remember(enc object.Encoded) {
	if _, ok := b.objects[enc.ID]; ok {
		return
	}
	b.objects[enc.ID] = enc
	b.order = append(b.order, enc)
}

// Commit walks the accumulated tree bottom-up, materializing one Tree
// object per directory and a single parentless Commit referencing the
// root. It returns the commit's id and every object that must be
// packed, in an order the packfile writer can stream without forward
// references: blobs and subtrees before the trees that name them, the
// commit last.
func (b *Builder) Commit(author, committer *object.Signature, message string) ([20]byte, []object.Encoded, error) {
	rootID, err := b.materialize(b.root)
	if err != nil {
		return [20]byte{}, nil, err
	}

	commit := &object.Commit{
		TreeID:    rootID,
		Author:    author.String(),
		Committer: committer.String(),
		Message:   message,
	}
	enc, err := object.HashObject(commit)
	if err != nil {
		return [20]byte{}, nil, err
	}
	b.remember(enc)

	// A blob an overwritten leaf used to hold is named by no directory
	// any more; only blobs still reachable from the root are packed.
	live := make(map[[20]byte]bool)
	var mark func(d *directory)
	mark = func(d *directory) {
		for _, n := range d.entries {
			if n.isDir {
				mark(n.dir)
			}
			live[n.blob] = true
		}
	}
	mark(b.root)
	packed := make([]object.Encoded, 0, len(b.order))
	for _, o := range b.order {
		if o.Type != object.BlobObjectType || live[o.ID] {
			packed = append(packed, o)
		}
	}
	return enc.ID, packed, nil
}

// materialize recursively builds Tree objects for dir and everything
// beneath it, remembering each one, and returns the id of dir's tree.
func (b *Builder) materialize(dir *directory) ([20]byte, error) {
	names := make([]string, 0, len(dir.entries))
	for name := range dir.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]object.TreeEntry, 0, len(names))
	for _, name := range names {
		n := dir.entries[name]
		if n.isDir {
			childID, err := b.materialize(n.dir)
			if err != nil {
				return [20]byte{}, err
			}
			entries = append(entries, object.TreeEntry{
				Name: name,
				Mode: object.ModeTree,
				Type: object.TreeObjectType,
				ID:   childID,
			})
			continue
		}
		entries = append(entries, object.TreeEntry{
			Name: name,
			Mode: object.ModeBlob,
			Type: object.BlobObjectType,
			ID:   n.blob,
		})
	}

	enc, err := object.HashObject(&object.Tree{Entries: entries})
	if err != nil {
		return [20]byte{}, err
	}
	b.remember(enc)
	return enc.ID, nil
}
