package resp

import (
	"bufio"
	"io"
	"strconv"
)

// Writer encodes RESP values onto a buffered stream.
type Writer struct {
	bw      *bufio.Writer
	scratch []byte
}

// NewWriter returns a Writer writing to w. If w is already a
// *bufio.Writer it is used directly.
func NewWriter(w io.Writer) *Writer {
	if bw, ok := w.(*bufio.Writer); ok {
		return &Writer{bw: bw}
	}
	return &Writer{bw: bufio.NewWriter(w)}
}

// WriteValue buffers the encoding of v. Call Flush to send it.
func (w *Writer) WriteValue(v Value) error {
	w.scratch = AppendValue(w.scratch[:0], v)
	_, err := w.bw.Write(w.scratch)
	return err
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

// Marshal returns the wire encoding of v.
func Marshal(v Value) []byte {
	return AppendValue(nil, v)
}

// AppendValue appends the wire encoding of v to dst.
//
// A nil Value is encoded as Null.
func AppendValue(dst []byte, v Value) []byte {
	switch t := v.(type) {
	case SimpleString:
		return appendLine(dst, TagSimpleString, string(t))
	case Error:
		return appendLine(dst, TagError, string(t))
	case Integer:
		dst = append(dst, TagInteger)
		dst = strconv.AppendInt(dst, int64(t), 10)
		return append(dst, '\r', '\n')
	case BulkString:
		dst = appendHeader(dst, TagBulkString, len(t))
		dst = append(dst, t...)
		return append(dst, '\r', '\n')
	case BinaryBulkString:
		dst = appendHeader(dst, TagBulkString, len(t))
		dst = append(dst, t...)
		return append(dst, '\r', '\n')
	case NullArray:
		return append(dst, "*-1\r\n"...)
	case Array:
		dst = appendHeader(dst, TagArray, len(t))
		for _, item := range t {
			dst = AppendValue(dst, item)
		}
		return dst
	default:
		return append(dst, "$-1\r\n"...)
	}
}

func appendLine(dst []byte, tag byte, s string) []byte {
	dst = append(dst, tag)
	dst = append(dst, s...)
	return append(dst, '\r', '\n')
}

func appendHeader(dst []byte, tag byte, n int) []byte {
	dst = append(dst, tag)
	dst = strconv.AppendInt(dst, int64(n), 10)
	return append(dst, '\r', '\n')
}
