package packfile

import (
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// zlibWriter is pooled the same way modules/streamio pools its zstd
// encoders: reset against a fresh io.Writer on Get and returned on Put
// (the caller closes it first), so a busy server doesn't allocate a new
// compressor per entry.
var zlibWriterPool = sync.Pool{
	New: func() any {
		return zlib.NewWriter(io.Discard)
	},
}

func getZlibWriter(w io.Writer) *zlib.Writer {
	z := zlibWriterPool.Get().(*zlib.Writer)
	z.Reset(w)
	return z
}

func putZlibWriter(z *zlib.Writer) {
	zlibWriterPool.Put(z)
}
