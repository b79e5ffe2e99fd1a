package runeio

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// InvalidRuneError indicates a code point that cannot be encoded as UTF-8.
type InvalidRuneError int

func (code InvalidRuneError) Error() string {
	return fmt.Sprintf("invalid character code %v", int(code))
}

// WriteRune writes the UTF-8 encoding of the code point to w, returning an
// InvalidRuneError for negative codes, surrogates, or codes past utf8.MaxRune.
func WriteRune(w io.Writer, code int) (n int, err error) {
	if code < 0 || code > utf8.MaxRune || !utf8.ValidRune(rune(code)) {
		return 0, InvalidRuneError(code)
	}
	r := rune(code)
	if r < utf8.RuneSelf {
		if bw, ok := w.(io.ByteWriter); ok {
			return 1, bw.WriteByte(byte(r))
		}
		return w.Write([]byte{byte(r)})
	}
	type runeWriter interface {
		WriteRune(r rune) (n int, err error)
	}
	if rw, ok := w.(runeWriter); ok {
		return rw.WriteRune(r)
	}
	var buf [utf8.UTFMax]byte
	return w.Write(buf[:utf8.EncodeRune(buf[:], r)])
}
