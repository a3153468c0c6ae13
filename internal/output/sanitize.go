package output

import (
	"fmt"
	"io"
	"strings"
	"unicode"
)

// SanitizeTerminal makes tool output safe to print on a terminal. Control
// characters other than newline and tab are shown as escapes such as "\x1b",
// and CR is dropped so CRLF output does not rewrite lines.
func SanitizeTerminal(s string) string {
	if strings.IndexFunc(s, unsafeRune) < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch {
		case r == '\r':
		case !unsafeRune(r):
			b.WriteRune(r)
		case r <= 0xFF:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			fmt.Fprintf(&b, `\u%04x`, r)
		}
	}
	return b.String()
}

func unsafeRune(r rune) bool {
	if r == '\n' || r == '\t' {
		return false
	}
	return unicode.IsControl(r) || r == '\u2028' || r == '\u2029'
}

// SafeTerminalWriter sanitizes everything written through it. Use it for any
// text that comes from the diagnostic tool.
type SafeTerminalWriter struct {
	W io.Writer
}

func (w SafeTerminalWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if _, err := io.WriteString(w.W, SanitizeTerminal(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}

func NewSafeTerminalWriter(w io.Writer) io.Writer {
	return SafeTerminalWriter{W: w}
}
