package scanner

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// Encoding returns the text encoding dndev uses on the given platform. The
// Windows console tool writes code page 950, which is Big5.
func Encoding(mode OSMode) encoding.Encoding {
	if mode == Windows {
		return traditionalchinese.Big5
	}
	return unicode.UTF8
}

// Decode converts raw tool output to UTF-8. Bytes that are not valid in the
// mode's encoding become U+FFFD; it never fails.
func Decode(mode OSMode, raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	out, err := Encoding(mode).NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	}
	return string(out)
}
