package resp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"unicode/utf8"
)

// Protocol limits.
const (
	// MaxFrameSize limits the payload of a single frame (512 MiB), the same
	// ceiling Redis applies to bulk strings.
	MaxFrameSize = 512 * 1024 * 1024

	// MaxArrayLen limits the number of elements in a single array.
	MaxArrayLen = 1024 * 1024

	// MaxInlineLen limits an inline command line (64 KiB).
	MaxInlineLen = 64 * 1024

	// MaxNestingDepth limits how deep arrays may nest.
	MaxNestingDepth = 32

	// maxHeaderLen bounds "$<n>", "*<n>" and ":<n>" lines.
	maxHeaderLen = 32

	// bulkChunk is the largest single read into a bulk payload.
	bulkChunk = 64 * 1024

	// arrayPrealloc caps the capacity reserved from an array header.
	arrayPrealloc = 1024
)

// ErrInvalidInput is returned (wrapped) for every malformed frame.
//
// A clean end of stream at a frame boundary is reported as io.EOF and a
// stream that ends inside a frame as io.ErrUnexpectedEOF.
var ErrInvalidInput = errors.New("resp: invalid input")

var crlf = []byte("\r\n")

// Reader decodes RESP values from a buffered byte stream.
type Reader struct {
	br *bufio.Reader
}

// NewReader returns a Reader reading from r. If r is already a
// *bufio.Reader it is used directly.
func NewReader(r io.Reader) *Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return &Reader{br: br}
	}
	return &Reader{br: bufio.NewReader(r)}
}

// Buffered returns the number of bytes that can be read without blocking.
func (r *Reader) Buffered() int {
	return r.br.Buffered()
}

// ReadValue reads exactly one value from the stream.
func (r *Reader) ReadValue() (Value, error) {
	return r.readValue(0)
}

func (r *Reader) readValue(depth int) (Value, error) {
	b, err := r.br.Peek(1)
	if err != nil {
		if errors.Is(err, io.EOF) && depth > 0 {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	limit := MaxFrameSize
	switch b[0] {
	case TagBulkString, TagArray, TagInteger:
		limit = maxHeaderLen
	case TagSimpleString, TagError:
	default:
		if depth > 0 {
			return nil, fmt.Errorf("%w: unknown type tag %q inside array", ErrInvalidInput, b[0])
		}
		limit = MaxInlineLen
	}

	line, err := r.readLine(limit)
	if err != nil {
		if errors.Is(err, io.EOF) && depth > 0 {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	tag, payload := line[0], line[1:]
	switch tag {
	case TagSimpleString:
		if !utf8.Valid(payload) {
			return nil, fmt.Errorf("%w: simple string is not valid UTF-8", ErrInvalidInput)
		}
		return SimpleString(payload), nil
	case TagError:
		if !utf8.Valid(payload) {
			return nil, fmt.Errorf("%w: error is not valid UTF-8", ErrInvalidInput)
		}
		return Error(payload), nil
	case TagInteger:
		n, err := strconv.ParseInt(string(payload), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid integer %q", ErrInvalidInput, payload)
		}
		return Integer(n), nil
	case TagBulkString:
		return r.readBulk(payload)
	case TagArray:
		return r.readArray(payload, depth)
	default:
		return inlineCommand(line), nil
	}
}

func (r *Reader) readBulk(header []byte) (Value, error) {
	n, err := parseLength(header, MaxFrameSize)
	if err != nil {
		return nil, fmt.Errorf("%w: bulk length: %v", ErrInvalidInput, err)
	}
	if n == -1 {
		return Null{}, nil
	}

	// Grow with the bytes that arrive, not with the declared length.
	buf := make([]byte, 0, min(n, bulkChunk))
	for len(buf) < n {
		step := min(n-len(buf), bulkChunk)
		buf = slices.Grow(buf, step)
		got, err := io.ReadFull(r.br, buf[len(buf):len(buf)+step])
		buf = buf[:len(buf)+got]
		if err != nil {
			return nil, unexpectedEOF(err)
		}
	}
	var term [2]byte
	if _, err := io.ReadFull(r.br, term[:]); err != nil {
		return nil, unexpectedEOF(err)
	}
	if !bytes.Equal(term[:], crlf) {
		return nil, fmt.Errorf("%w: bulk string not terminated by CRLF", ErrInvalidInput)
	}
	if utf8.Valid(buf) {
		return BulkString(buf), nil
	}
	return BinaryBulkString(buf), nil
}

func (r *Reader) readArray(header []byte, depth int) (Value, error) {
	n, err := parseLength(header, MaxArrayLen)
	if err != nil {
		return nil, fmt.Errorf("%w: array length: %v", ErrInvalidInput, err)
	}
	if n == -1 {
		return NullArray{}, nil
	}
	if depth+1 > MaxNestingDepth {
		return nil, fmt.Errorf("%w: arrays nested deeper than %d", ErrInvalidInput, MaxNestingDepth)
	}

	out := make(Array, 0, min(n, arrayPrealloc))
	for i := 0; i < n; i++ {
		v, err := r.readValue(depth + 1)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// readLine reads one CRLF terminated line and returns it without the CRLF.
// The returned slice is owned by the caller.
func (r *Reader) readLine(maxPayload int) ([]byte, error) {
	var buf []byte
	for {
		frag, err := r.br.ReadSlice('\n')
		buf = append(buf, frag...)
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			if len(buf) > maxPayload+3 {
				return nil, fmt.Errorf("%w: frame exceeds %d bytes", ErrInvalidInput, maxPayload)
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			if len(buf) == 0 {
				return nil, io.EOF
			}
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	if len(buf) < 3 {
		return nil, fmt.Errorf("%w: frame too short", ErrInvalidInput)
	}
	if !bytes.HasSuffix(buf, crlf) {
		return nil, fmt.Errorf("%w: missing CRLF", ErrInvalidInput)
	}
	buf = buf[:len(buf)-2]
	if len(buf)-1 > maxPayload {
		return nil, fmt.Errorf("%w: frame exceeds %d bytes", ErrInvalidInput, maxPayload)
	}
	return buf, nil
}

// parseLength parses a declared bulk or array length. -1 is the null marker.
func parseLength(b []byte, max int) (int, error) {
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", b)
	}
	if n < -1 {
		return 0, fmt.Errorf("negative length %d", n)
	}
	if n > max {
		return 0, fmt.Errorf("length %d exceeds limit %d", n, max)
	}
	return n, nil
}

// inlineCommand splits a line such as "SET foo bar" into a request array.
func inlineCommand(line []byte) Array {
	fields := bytes.Fields(line)
	out := make(Array, len(fields))
	for i, f := range fields {
		out[i] = Bulk(f)
	}
	return out
}
