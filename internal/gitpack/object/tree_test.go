package object

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeSortsFileBeforeSameNamedSubtree(t *testing.T) {
	// "foo.go" must sort before the directory "foo" because directories
	// compare as if they carried a trailing slash: "foo/" > "foo.go".
	tr := &Tree{Entries: []TreeEntry{
		{Name: "foo", Mode: ModeTree, Type: TreeObjectType},
		{Name: "foo.go", Mode: ModeBlob, Type: BlobObjectType},
	}}

	var buf bytes.Buffer
	_, err := tr.Encode(&buf)
	require.NoError(t, err)

	out := buf.String()
	idxFile := bytes.Index(buf.Bytes(), []byte("foo.go"))
	idxDir := bytes.Index([]byte(out), []byte("40000 foo\x00"))
	require.NotEqual(t, -1, idxFile)
	require.NotEqual(t, -1, idxDir)
	assert.Less(t, idxFile, idxDir)
}

func TestTreeEncodeEntryShape(t *testing.T) {
	var id [20]byte
	id[0] = 0xab

	tr := &Tree{Entries: []TreeEntry{
		{Name: "Cargo.toml", Mode: ModeBlob, Type: BlobObjectType, ID: id},
	}}

	var buf bytes.Buffer
	n, err := tr.Encode(&buf)
	require.NoError(t, err)
	assert.Equal(t, n, buf.Len())

	prefix := "100644 Cargo.toml\x00"
	assert.Equal(t, prefix, buf.String()[:len(prefix)])
	assert.Equal(t, id[:], []byte(buf.String()[len(prefix):]))
}
