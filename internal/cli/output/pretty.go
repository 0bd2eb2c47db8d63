package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/respkv/pkg/resp"
)

// PrettyFormatter renders replies the way redis-cli does on a terminal.
type PrettyFormatter struct{}

// Format writes reply followed by a newline.
func (f *PrettyFormatter) Format(w io.Writer, reply resp.Value) error {
	var sb strings.Builder
	writePretty(&sb, reply, "")
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}

// writePretty renders v. indent is the column prefix used for the second
// and later lines of a nested array.
func writePretty(sb *strings.Builder, v resp.Value, indent string) {
	switch t := v.(type) {
	case resp.SimpleString:
		sb.WriteString(string(t))
	case resp.Error:
		sb.WriteString("(error) ")
		sb.WriteString(string(t))
	case resp.Integer:
		fmt.Fprintf(sb, "(integer) %d", int64(t))
	case resp.BulkString:
		sb.WriteString(Quote(string(t)))
	case resp.BinaryBulkString:
		sb.WriteString(Quote(string(t)))
	case resp.Array:
		if len(t) == 0 {
			sb.WriteString("(empty array)")
			return
		}
		width := len(strconv.Itoa(len(t)))
		for i, item := range t {
			if i > 0 {
				sb.WriteByte('\n')
				sb.WriteString(indent)
			}
			label := fmt.Sprintf("%*d) ", width, i+1)
			sb.WriteString(label)
			writePretty(sb, item, indent+strings.Repeat(" ", len(label)))
		}
	default:
		sb.WriteString("(nil)")
	}
}

// Quote returns s in double quotes with control and non-ASCII bytes escaped.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\', '"':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\a':
			sb.WriteString(`\a`)
		case '\b':
			sb.WriteString(`\b`)
		default:
			if c < 0x20 || c >= 0x7f {
				fmt.Fprintf(&sb, `\x%02x`, c)
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
