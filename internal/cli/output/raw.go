package output

import (
	"io"
	"strconv"

	"github.com/yndnr/respkv/pkg/resp"
)

// RawFormatter writes reply payloads without type annotations, one per
// line. Arrays are flattened.
type RawFormatter struct{}

// Format writes reply.
func (f *RawFormatter) Format(w io.Writer, reply resp.Value) error {
	return writeRaw(w, reply)
}

func writeRaw(w io.Writer, v resp.Value) error {
	var line []byte
	switch t := v.(type) {
	case resp.SimpleString:
		line = []byte(t)
	case resp.Error:
		line = []byte(t)
	case resp.Integer:
		line = strconv.AppendInt(nil, int64(t), 10)
	case resp.BulkString:
		line = []byte(t)
	case resp.BinaryBulkString:
		line = t
	case resp.Array:
		for _, item := range t {
			if err := writeRaw(w, item); err != nil {
				return err
			}
		}
		return nil
	}
	line = append(line, '\n')
	_, err := w.Write(line)
	return err
}
