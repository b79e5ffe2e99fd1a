package main

// Token is one of the three symbols of the program alphabet.
type Token uint8

// The only three bytes that mean anything in a program; every other byte is
// a comment.
const (
	TokenSpace Token = iota + 1
	TokenTab
	TokenLF
)

func (tok Token) String() string {
	switch tok {
	case TokenSpace:
		return "S"
	case TokenTab:
		return "T"
	case TokenLF:
		return "L"
	}
	return "?"
}

// Tokens is a lazy, restartable scanner over the tokens of program source.
type Tokens struct {
	src []byte
	off int
}

// Tokenize returns a token scanner over src; it never fails.
func Tokenize(src []byte) *Tokens {
	return &Tokens{src: src}
}

// Next returns the next token and its byte offset within the source,
// skipping over any comment bytes; ok is false once the source is exhausted.
func (ts *Tokens) Next() (tok Token, offset int, ok bool) {
	for ts.off < len(ts.src) {
		offset = ts.off
		ts.off++
		switch ts.src[offset] {
		case ' ':
			return TokenSpace, offset, true
		case '\t':
			return TokenTab, offset, true
		case '\n':
			return TokenLF, offset, true
		}
	}
	return 0, ts.off, false
}

// Reset restarts scanning from the beginning of the source.
func (ts *Tokens) Reset() { ts.off = 0 }

// Offset returns the byte offset of the next unscanned byte.
func (ts *Tokens) Offset() int { return ts.off }
