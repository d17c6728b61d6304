package object

import "io"

// Blob is a file's raw content, stored verbatim with no further structure.
type Blob struct {
	Contents []byte
}

// Type implements Object.
func (b *Blob) Type() ObjectType {
	return BlobObjectType
}

// Encode implements Object by writing the blob's contents unmodified.
func (b *Blob) Encode(w io.Writer) (int, error) {
	n, err := w.Write(b.Contents)
	return n, err
}
