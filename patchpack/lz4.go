package patchpack

import (
	"bytes"
	"io"

	lz4pkg "github.com/pierrec/lz4/v4"
)

// CompressLZ4 compresses data in the LZ4 frame format, using
// github.com/pierrec/lz4/v4's own writer. As with CompressSnappy, this
// drives the real upstream encoder rather than the teacher's own
// self-contained LZ77 matcher, since DecompressLZ4 already needs the
// upstream reader.
func CompressLZ4(data []byte) []byte {
	var buf bytes.Buffer
	w := lz4pkg.NewWriter(&buf)
	_, _ = w.Write(data)
	_ = w.Close()
	return buf.Bytes()
}

// DecompressLZ4 decompresses the LZ4 frame format produced by CompressLZ4.
func DecompressLZ4(compressed []byte) ([]byte, error) {
	r := lz4pkg.NewReader(bytes.NewReader(compressed))
	return io.ReadAll(r)
}
