package pktline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoderBasicCommand(t *testing.T) {
	var r CommandReader
	r.Feed([]byte("0015agent=git/2.32.0\n0000"))

	res, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, res.Flush)
	assert.False(t, res.Empty)
	assert.Equal(t, "agent=git/2.32.0", res.Command.Name)
	assert.Empty(t, res.Command.Metadata)
}

func TestDecoderEmptyFlush(t *testing.T) {
	var r CommandReader
	r.Feed([]byte("0000"))

	res, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, res.Flush)
	assert.True(t, res.Empty)
}

func TestDecoderCommandWithMetadataAndControlTokens(t *testing.T) {
	var r CommandReader
	// "a" is the command, delimiter in the middle is ignored, "b" is metadata.
	r.Feed([]byte("0005a00010005b0000"))

	res, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", res.Command.Name)
	assert.Equal(t, []string{"b"}, res.Command.Metadata)
}

func TestDecoderPartialFrameWaits(t *testing.T) {
	var r CommandReader
	r.Feed([]byte("0015agent=git/2.32.0"))

	_, ok, err := r.Next()
	require.NoError(t, err)
	assert.False(t, ok)

	r.Feed([]byte("\n0000"))
	res, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "agent=git/2.32.0", res.Command.Name)
}

func TestDecoderLengthBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"too-short-0003", "0003", true},
		{"minimum-empty-0004", "0004", false},
		{"max-allowed-fff0", "fff0" + string(make([]byte, 0xfff0-4)), false},
		{"over-max-fff1", "fff1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Decoder
			d.Feed([]byte(tt.input))
			_, _, err := d.Next()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsProtocolViolation(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDecoderResponseEndToken(t *testing.T) {
	var d Decoder
	d.Feed([]byte("0002"))
	frame, ok, err := d.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, KindResponseEnd, frame.Kind)
}
