package arpatcher

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
)

// patchFileHeader is the literal magic string every patch file begins with.
const patchFileHeader = "红警3吧装甲冲击更新描述文件"

// delimiter terminates every textual field in the header.
const delimiter = "\r\n"

// WritePatch serializes p to w in the version-1000 wire format described by
// the external interfaces section: a magic string, an ASCII-decimal textual
// header with CRLF delimiters, followed by the chunk array as raw
// little-endian binary records.
func WritePatch(w io.Writer, p PatchData) error {
	if p.Version != SupportedVersion {
		return fmt.Errorf("version %d: %w", p.Version, ErrUnsupportedVersion)
	}

	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(patchFileHeader); err != nil {
		return err
	}
	if err := writeDecimal(bw, p.Version); err != nil {
		return err
	}

	oldName := []byte(p.OldFileName)
	if err := writeDecimal(bw, len(oldName)); err != nil {
		return err
	}
	if err := writeRawField(bw, oldName); err != nil {
		return err
	}

	newName := []byte(p.NewFileName)
	if err := writeDecimal(bw, len(newName)); err != nil {
		return err
	}
	if err := writeRawField(bw, newName); err != nil {
		return err
	}

	for _, b := range []byte{p.Escape.ToBeEscaped, p.Escape.SubstituteCharacter, p.Escape.Escape, p.Escape.Escape2} {
		if err := writeDecimal(bw, int(b)); err != nil {
			return err
		}
	}

	if err := writeDecimal(bw, len(p.Chunks)); err != nil {
		return err
	}

	var recordHeader [8]byte
	for _, chunk := range p.Chunks {
		binary.LittleEndian.PutUint32(recordHeader[0:4], chunk.Length)
		binary.LittleEndian.PutUint32(recordHeader[4:8], chunk.SourcePosition)
		if _, err := bw.Write(recordHeader[:]); err != nil {
			return err
		}
		if chunk.IsLiteral() {
			if uint32(len(chunk.InlineBytes)) != chunk.Length {
				return fmt.Errorf("literal chunk has %d inline bytes, length field says %d", len(chunk.InlineBytes), chunk.Length)
			}
			if _, err := bw.Write(chunk.InlineBytes); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// writeDecimal writes n in ASCII decimal followed by a CRLF delimiter.
func writeDecimal(w io.Writer, n int) error {
	if _, err := io.WriteString(w, strconv.Itoa(n)); err != nil {
		return err
	}
	_, err := io.WriteString(w, delimiter)
	return err
}

// writeRawField writes raw bytes followed by a CRLF delimiter.
func writeRawField(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := io.WriteString(w, delimiter)
	return err
}

// byteReader is the minimal read surface the decoder needs: exact reads
// that report io.ErrUnexpectedEOF (wrapped as ErrTruncatedInput) on a short
// final read, the way bufio.Reader.Read does not by itself.
type byteReader struct {
	r *bufio.Reader
}

func newByteReader(r io.Reader) byteReader {
	return byteReader{r: bufio.NewReader(r)}
}

func (b byteReader) readExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(b.r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedInput, err)
	}
	return buf, nil
}

func (b byteReader) expectDelimiter() error {
	got, err := b.readExact(len(delimiter))
	if err != nil {
		return err
	}
	if string(got) != delimiter {
		return fmt.Errorf("expected CRLF delimiter, got %q: %w", got, ErrMalformedHeader)
	}
	return nil
}

func (b byteReader) expectLiteral(literal string) error {
	got, err := b.readExact(len(literal))
	if err != nil {
		return err
	}
	if string(got) != literal {
		return fmt.Errorf("expected %q: %w", literal, ErrMalformedHeader)
	}
	return nil
}

// readDecimalField reads ASCII-decimal digits up to (and consuming) the
// following CRLF. It does not skip leading whitespace and does not accept a
// sign, so that readPatch(writePatch(p)) is bit-exact.
func (b byteReader) readDecimalField() (int, error) {
	var digits []byte
	for {
		next, err := b.r.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrTruncatedInput, err)
		}
		if next == '\r' {
			nl, err := b.r.ReadByte()
			if err != nil {
				return 0, fmt.Errorf("%w: %v", ErrTruncatedInput, err)
			}
			if nl != '\n' {
				return 0, fmt.Errorf("expected CRLF after decimal field: %w", ErrMalformedHeader)
			}
			break
		}
		if next < '0' || next > '9' {
			return 0, fmt.Errorf("non-digit byte 0x%02x in decimal field: %w", next, ErrMalformedHeader)
		}
		digits = append(digits, next)
	}
	if len(digits) == 0 {
		return 0, fmt.Errorf("empty decimal field: %w", ErrMalformedHeader)
	}
	n, err := strconv.Atoi(string(digits))
	if err != nil {
		return 0, fmt.Errorf("decimal field %q: %w", digits, ErrMalformedHeader)
	}
	return n, nil
}

func (b byteReader) readUnsignedByteField() (byte, error) {
	n, err := b.readDecimalField()
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 0xFF {
		return 0, fmt.Errorf("value %d exceeds a byte: %w", n, ErrDomainError)
	}
	return byte(n), nil
}

// ReadPatch deserializes a patch file from r, validating the magic string,
// version, and every delimiter along the way.
func ReadPatch(r io.Reader) (PatchData, error) {
	br := newByteReader(r)

	if err := br.expectLiteral(patchFileHeader); err != nil {
		return PatchData{}, err
	}

	version, err := br.readDecimalField()
	if err != nil {
		return PatchData{}, err
	}
	if version != SupportedVersion {
		return PatchData{}, fmt.Errorf("version %d: %w", version, ErrUnsupportedVersion)
	}

	oldNameLen, err := br.readDecimalField()
	if err != nil {
		return PatchData{}, err
	}
	oldNameBytes, err := br.readExact(oldNameLen)
	if err != nil {
		return PatchData{}, err
	}
	if err := br.expectDelimiter(); err != nil {
		return PatchData{}, err
	}

	newNameLen, err := br.readDecimalField()
	if err != nil {
		return PatchData{}, err
	}
	newNameBytes, err := br.readExact(newNameLen)
	if err != nil {
		return PatchData{}, err
	}
	if err := br.expectDelimiter(); err != nil {
		return PatchData{}, err
	}

	var esc EscapeParams
	if esc.ToBeEscaped, err = br.readUnsignedByteField(); err != nil {
		return PatchData{}, err
	}
	if esc.SubstituteCharacter, err = br.readUnsignedByteField(); err != nil {
		return PatchData{}, err
	}
	if esc.Escape, err = br.readUnsignedByteField(); err != nil {
		return PatchData{}, err
	}
	if esc.Escape2, err = br.readUnsignedByteField(); err != nil {
		return PatchData{}, err
	}

	chunkCount, err := br.readDecimalField()
	if err != nil {
		return PatchData{}, err
	}
	if chunkCount < 0 {
		return PatchData{}, fmt.Errorf("negative chunk count: %w", ErrMalformedHeader)
	}

	chunks := make([]DataChunk, chunkCount)
	for i := range chunks {
		header, err := br.readExact(8)
		if err != nil {
			return PatchData{}, err
		}
		length := binary.LittleEndian.Uint32(header[0:4])
		sourcePosition := binary.LittleEndian.Uint32(header[4:8])
		if length == 0 {
			return PatchData{}, fmt.Errorf("zero-length chunk at index %d: %w", i, ErrMalformedHeader)
		}
		chunk := DataChunk{Length: length, SourcePosition: sourcePosition}
		if chunk.IsLiteral() {
			data, err := br.readExact(int(length))
			if err != nil {
				return PatchData{}, err
			}
			chunk.InlineBytes = data
		}
		chunks[i] = chunk
	}

	if extra, err := br.r.ReadByte(); err == nil {
		return PatchData{}, fmt.Errorf("trailing byte 0x%02x after last chunk: %w", extra, ErrMalformedHeader)
	} else if err != io.EOF {
		return PatchData{}, err
	}

	return PatchData{
		Version:     version,
		OldFileName: string(oldNameBytes),
		NewFileName: string(newNameBytes),
		Escape:      esc,
		Chunks:      chunks,
	}, nil
}
