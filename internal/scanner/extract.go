package scanner

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var devicePattern = regexp.MustCompile(`(?i)iDAQ-?974`)

const addressLabel = "IP:"

// Extract finds the first line naming an iDAQ-974 and returns the token that
// follows "IP:" on it. Only that first device line counts: if it carries no
// address, later device lines are not looked at and no match is returned.
func Extract(text string) (DeviceMatch, bool) {
	for _, line := range splitLines(text) {
		if !devicePattern.MatchString(line) {
			continue
		}
		addr, ok := addressAfterLabel(line)
		if !ok {
			return DeviceMatch{}, false
		}
		return DeviceMatch{Address: addr, SourceLine: line}, true
	}
	return DeviceMatch{}, false
}

// addressAfterLabel returns the run of characters after the first "IP:" that
// is followed, past any spaces, by at least one character other than a comma
// or a space.
func addressAfterLabel(line string) (string, bool) {
	for from := 0; ; {
		i := strings.Index(line[from:], addressLabel)
		if i < 0 {
			return "", false
		}
		start := from + i + len(addressLabel)
		rest := strings.TrimLeftFunc(line[start:], isSpace)
		if end := strings.IndexFunc(rest, endsAddress); end != 0 && rest != "" {
			if end < 0 {
				return rest, true
			}
			return rest[:end], true
		}
		from = start
	}
}

func endsAddress(r rune) bool {
	return r == ',' || isSpace(r)
}

// isSpace is unicode.IsSpace plus the ASCII information separators, which
// the console tools treat as whitespace too.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// isLineBreak covers every line boundary the tool output may use: LF, CR,
// VT, FF, the file/group/record separators, NEL and the Unicode line and
// paragraph separators.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

// splitLines splits text into lines, treating CRLF as one break. Empty lines
// are kept and a trailing break does not add an empty last line.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		lines = append(lines, text[start:i])
		i += size
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		start = i
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}
