package connection

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnbalancedQuotes is returned by SplitArgs for malformed quoting.
var ErrUnbalancedQuotes = errors.New("invalid argument(s): unbalanced quotes")

// SplitArgs splits an input line into arguments the way redis-cli does.
//
// Arguments are separated by whitespace. Double-quoted arguments accept
// the escapes \n \r \t \b \a \\ \" and \xHH. Single-quoted arguments only
// accept \'. A closing quote must be followed by whitespace or the end of
// the line.
func SplitArgs(line string) ([]string, error) {
	var args []string
	i := 0
	for {
		for i < len(line) && isSpace(line[i]) {
			i++
		}
		if i == len(line) {
			return args, nil
		}

		var (
			cur      strings.Builder
			inDouble bool
			inSingle bool
			done     bool
		)
		for !done {
			if i == len(line) {
				if inDouble || inSingle {
					return nil, ErrUnbalancedQuotes
				}
				break
			}
			ch := line[i]
			switch {
			case inDouble:
				if ch == '\\' && i+3 < len(line) && line[i+1] == 'x' && isHex(line[i+2]) && isHex(line[i+3]) {
					b, _ := strconv.ParseUint(line[i+2:i+4], 16, 8)
					cur.WriteByte(byte(b))
					i += 3
				} else if ch == '\\' && i+1 < len(line) {
					i++
					cur.WriteByte(unescape(line[i]))
				} else if ch == '"' {
					if i+1 < len(line) && !isSpace(line[i+1]) {
						return nil, ErrUnbalancedQuotes
					}
					done = true
				} else {
					cur.WriteByte(ch)
				}
			case inSingle:
				if ch == '\\' && i+1 < len(line) && line[i+1] == '\'' {
					i++
					cur.WriteByte('\'')
				} else if ch == '\'' {
					if i+1 < len(line) && !isSpace(line[i+1]) {
						return nil, ErrUnbalancedQuotes
					}
					done = true
				} else {
					cur.WriteByte(ch)
				}
			default:
				switch {
				case isSpace(ch):
					done = true
				case ch == '"':
					inDouble = true
				case ch == '\'':
					inSingle = true
				default:
					cur.WriteByte(ch)
				}
			}
			if i < len(line) {
				i++
			}
		}
		args = append(args, cur.String())
	}
}

func unescape(ch byte) byte {
	switch ch {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'b':
		return '\b'
	case 'a':
		return '\a'
	default:
		return ch
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isHex(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
