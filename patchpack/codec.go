package patchpack

import (
	"fmt"
	"io"
)

// Codec identifies which compressor, if any, wraps a serialized patch.
type Codec byte

const (
	CodecNone   Codec = 0
	CodecSnappy Codec = 1
	CodecLZ4    Codec = 2
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecSnappy:
		return "snappy"
	case CodecLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", byte(c))
	}
}

// ParseCodec maps a CLI-facing name to a Codec.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "", "none":
		return CodecNone, nil
	case "snappy":
		return CodecSnappy, nil
	case "lz4":
		return CodecLZ4, nil
	default:
		return 0, fmt.Errorf("patchpack: unknown codec %q", name)
	}
}

// WriteCompressed writes one id byte identifying codec, followed by
// codec's compressed form of patchBytes — the exact §6.1 byte stream
// produced by arpatcher.WritePatch. It never alters that byte stream; the
// wrapper lives entirely outside the patch codec.
func WriteCompressed(w io.Writer, codec Codec, patchBytes []byte) error {
	var compressed []byte
	switch codec {
	case CodecNone:
		compressed = patchBytes
	case CodecSnappy:
		compressed = CompressSnappy(patchBytes)
	case CodecLZ4:
		compressed = CompressLZ4(patchBytes)
	default:
		return fmt.Errorf("patchpack: unknown codec %d", codec)
	}

	if _, err := w.Write([]byte{byte(codec)}); err != nil {
		return err
	}
	_, err := w.Write(compressed)
	return err
}

// ReadCompressed reads the id byte written by WriteCompressed and returns
// the recovered §6.1 patch byte stream, ready for arpatcher.ReadPatch.
func ReadCompressed(r io.Reader) ([]byte, error) {
	var idByte [1]byte
	if _, err := io.ReadFull(r, idByte[:]); err != nil {
		return nil, fmt.Errorf("patchpack: reading codec id: %w", err)
	}
	codec := Codec(idByte[0])

	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	switch codec {
	case CodecNone:
		return rest, nil
	case CodecSnappy:
		return DecompressSnappy(rest)
	case CodecLZ4:
		return DecompressLZ4(rest)
	default:
		return nil, fmt.Errorf("patchpack: unknown codec id %d", codec)
	}
}
