package patchpack

import (
	"bytes"
	"io"

	"github.com/golang/snappy"
)

// CompressSnappy compresses data in the standard snappy streaming format,
// using github.com/golang/snappy's own writer. The teacher repository's
// snappy subpackage encoded this same framing format, but by driving its
// own internal LZ77 matcher rather than the upstream library; since
// golang/snappy is already a real dependency here (DecompressSnappy below
// needs its reader), encoding goes through it too instead of resurrecting
// the teacher's matcher.
func CompressSnappy(data []byte) []byte {
	var buf bytes.Buffer
	w := snappy.NewBufferedWriter(&buf)
	_, _ = w.Write(data)
	_ = w.Close()
	return buf.Bytes()
}

// DecompressSnappy decompresses the snappy streaming format produced by
// CompressSnappy.
func DecompressSnappy(compressed []byte) ([]byte, error) {
	r := snappy.NewReader(bytes.NewReader(compressed))
	return io.ReadAll(r)
}
