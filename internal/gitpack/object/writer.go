package object

import (
	"bytes"
	"crypto/sha1"
	"fmt"
)

// Encoded is an object's serialized body together with the object id Git
// derives from it: the SHA-1 of "<type> <size>\0" followed by the body.
type Encoded struct {
	ID   [20]byte
	Type ObjectType
	Body []byte
}

// HashObject serializes o and computes the id it would be addressed by
// once written into a pack. The body is buffered once here rather than
// re-encoded by every caller that needs either the id or the bytes.
func HashObject(o Object) (Encoded, error) {
	var buf bytes.Buffer
	if _, err := o.Encode(&buf); err != nil {
		return Encoded{}, fmt.Errorf("object: encode %s: %w", o.Type(), err)
	}
	body := buf.Bytes()

	h := sha1.New()
	fmt.Fprintf(h, "%s %d\x00", o.Type(), len(body))
	h.Write(body)

	var enc Encoded
	enc.Type = o.Type()
	enc.Body = body
	copy(enc.ID[:], h.Sum(nil))
	return enc, nil
}
