// Package packfile writes version-2 Git packfiles: a "PACK" magic, a
// version and entry count, a zlib-compressed entry per object, and a
// trailing SHA-1 checksum over everything that came before it. Only
// whole-object entries are ever produced — no deltas, since every
// synthesized repository is written once and never diffed against a
// prior state.
package packfile

import (
	"bytes"
	"crypto/sha1"
	"fmt"

	"github.com/privcrate/registry/internal/gitpack/object"
)

const (
	magic   = "PACK"
	version = 2
)

// typeBits is the 3-bit object type tag packed into the high bits of an
// entry's first header byte, per Git's pack entry format.
func typeBits(t object.ObjectType) (byte, error) {
	switch t {
	case object.CommitObjectType:
		return 0b001, nil
	case object.TreeObjectType:
		return 0b010, nil
	case object.BlobObjectType:
		return 0b011, nil
	default:
		return 0, fmt.Errorf("packfile: unsupported object type %q", t)
	}
}

// Write encodes entries, in the order given, into a complete packfile.
// Callers are expected to order entries Git's way: blobs and subtrees
// before the trees that reference them, and the commit last, so that an
// index-free streaming unpacker never needs a forward reference.
func Write(entries []object.Encoded) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(magic)
	writeUint32(&buf, version)
	writeUint32(&buf, uint32(len(entries)))

	for _, e := range entries {
		if err := writeEntry(&buf, e); err != nil {
			return nil, err
		}
	}

	sum := sha1.Sum(buf.Bytes())
	buf.Write(sum[:])

	return buf.Bytes(), nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	buf.WriteByte(byte(v >> 24))
	buf.WriteByte(byte(v >> 16))
	buf.WriteByte(byte(v >> 8))
	buf.WriteByte(byte(v))
}

// writeEntry appends one pack entry: the variable-length type+size
// header, followed by the zlib-compressed object body.
func writeEntry(buf *bytes.Buffer, e object.Encoded) error {
	tb, err := typeBits(e.Type)
	if err != nil {
		return err
	}
	writeEntryHeader(buf, tb, len(e.Body))

	z := getZlibWriter(buf)
	defer putZlibWriter(z)

	if _, err := z.Write(e.Body); err != nil {
		return err
	}
	return z.Close()
}

// writeEntryHeader packs the object type into bits 4-6 of the first byte
// and the low 4 bits of size into bits 0-3; every following byte carries
// 7 more size bits, continuing while a high "more bytes" bit is set.
func writeEntryHeader(buf *bytes.Buffer, typeBits byte, size int) {
	first := byte(0b1000_0000) | (typeBits << 4) | byte(size&0b1111)
	size >>= 4

	if size == 0 {
		buf.WriteByte(first &^ 0b1000_0000)
		return
	}
	buf.WriteByte(first)

	for {
		b := byte(size & 0b0111_1111)
		size >>= 7
		if size != 0 {
			b |= 0b1000_0000
		}
		buf.WriteByte(b)
		if size == 0 {
			break
		}
	}
}
