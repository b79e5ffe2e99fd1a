package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	ts := Tokenize([]byte("a \tb\nc"))

	type token struct {
		Token
		offset int
	}
	var tokens []token
	for {
		tok, off, ok := ts.Next()
		if !ok {
			break
		}
		tokens = append(tokens, token{tok, off})
	}
	assert.Equal(t, []token{
		{TokenSpace, 1},
		{TokenTab, 2},
		{TokenLF, 4},
	}, tokens)
	assert.Equal(t, 6, ts.Offset())

	ts.Reset()
	tok, off, ok := ts.Next()
	assert.True(t, ok)
	assert.Equal(t, TokenSpace, tok)
	assert.Equal(t, 1, off)
}

func TestDecode(t *testing.T) {
	for _, tc := range []struct {
		name     string
		notation string
		expected string
	}{
		{"empty", "", ""},
		{"only comments", "nothing_to_see_here", ""},

		{"push", "SSSTSTL", "push 5"},
		{"push negative", "SSTTTL", "push -3"},
		{"push bare line feed", "SSL", "push 0"},
		{"push empty magnitude", "SSSL", "push 0"},
		{"push negative zero", "SSTL", "push 0"},
		{"push leading zeros", "SSSSSSTL", "push 1"},
		{"push max", "SSS" + strings.Repeat("T", strconv.IntSize-1) + "L", "push " + fmt.Sprint(math.MaxInt)},
		{"push min", "SSTT" + strings.Repeat("S", strconv.IntSize-1) + "L", "push " + fmt.Sprint(math.MinInt)},

		{"stack", "SLSSTSSTSLSLTSLLSTLSTL", "dup; copy 2; swap; drop; slide 1"},
		{"arithmetic", "TSSSTSSTTSSLTSTSTSTT", "add; sub; mul; div; mod"},
		{"heap", "TTSTTT", "store; retrieve"},
		{"flow", "LSSSTLLSTLLSLTTLLTSSLLTTTLLTLLLL", `mark 01; call ""; jump 11; jz 0; jn 1; ret; end`},
		{"io", "TLSSTLSTTLTSTLTT", "outc; outn; readc; readn"},

		{"comments between tokens", "push[SS]five[STSTL]out[TLST]", "push 5; outn"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			prog, err := Decode(wsSource(tc.notation))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, prog.String())
		})
	}
}

func TestDecode_errors(t *testing.T) {
	for _, tc := range []struct {
		name     string
		notation string
		expected DecodeError
	}{
		{"truncated instruction", "T", DecodeError{0, "T", "truncated instruction"}},
		{"truncated after push", "SSSTL" + "TS", DecodeError{5, "TS", "truncated instruction"}},
		{"unknown stack op", "STT", DecodeError{0, "STT", "unknown opcode"}},
		{"unknown heap op", "TTL", DecodeError{0, "TTL", "unknown opcode"}},
		{"unknown arithmetic op", "TSL", DecodeError{0, "TSL", "unknown opcode"}},
		{"unknown flow op", "LLS", DecodeError{0, "LLS", "unknown opcode"}},
		{"unknown io op", "TLL", DecodeError{0, "TLL", "unknown opcode"}},
		{"offset past comments", "SSSTL" + "xx" + "TTL", DecodeError{7, "TTL", "unknown opcode"}},
		{"truncated number sign", "SS", DecodeError{0, "SS", "truncated number"}},
		{"truncated number bits", "SSST", DecodeError{0, "SSST", "truncated number"}},
		{"truncated label", "LSSST", DecodeError{0, "LSSST", "truncated label"}},
		{"number overflows", "SSST" + strings.Repeat("S", strconv.IntSize-1) + "L",
			DecodeError{0, "SSST" + strings.Repeat("S", strconv.IntSize-1), "number overflows"}},
		{"negative number overflows", "SSTT" + strings.Repeat("S", strconv.IntSize-2) + "TL",
			DecodeError{0, "SSTT" + strings.Repeat("S", strconv.IntSize-2) + "T", "number overflows"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(wsSource(tc.notation))
			assert.True(t, errors.Is(err, ErrMalformedInstruction), "expected a malformed instruction, got %v", err)
			var derr *DecodeError
			if assert.True(t, errors.As(err, &derr), "expected a *DecodeError, got %T", err) {
				assert.Equal(t, tc.expected, *derr)
			}
		})
	}
}

func TestDecode_errorMessage(t *testing.T) {
	_, err := Decode(wsSource("SSSTLxxTTL"))
	assert.EqualError(t, err, "malformed instruction at byte 7 (TTL): unknown opcode")
}

func TestDecode_offsets(t *testing.T) {
	prog, err := Decode(wsSource("SSSTL" + "x" + "LLL"))
	require.NoError(t, err)
	require.Len(t, prog, 2)
	assert.Equal(t, 0, prog[0].Offset)
	assert.Equal(t, 6, prog[1].Offset)
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "   \t \t\n", string(Encode(Program{insN(OpPush, 5)})))
	assert.Equal(t, "  \t\t\t\n", string(Encode(Program{insN(OpPush, -3)})))
	assert.Equal(t, "   \n", string(Encode(Program{insN(OpPush, 0)})))
	assert.Equal(t, "\n  \n", string(Encode(Program{insL(OpMark, "")})))
	assert.Equal(t, "\n\n\n", string(Encode(Program{ins(OpEnd)})))

	for _, prog := range []Program{
		{},
		{insN(OpPush, math.MaxInt), insN(OpPush, math.MinInt), insN(OpPush, -1)},
		{insN(OpCopy, 0), insN(OpSlide, 3), ins(OpDup), ins(OpSwap), ins(OpDrop)},
		{ins(OpAdd), ins(OpSub), ins(OpMul), ins(OpDiv), ins(OpMod), ins(OpStore), ins(OpRetrieve)},
		{insL(OpMark, ""), insL(OpMark, "0"), insL(OpMark, "00"), insL(OpCall, "1"),
			insL(OpJump, "010"), insL(OpJz, "0"), insL(OpJn, "1"), ins(OpRet), ins(OpEnd)},
		{ins(OpOutChar), ins(OpOutNum), ins(OpReadChar), ins(OpReadNum)},
	} {
		t.Run(prog.String(), func(t *testing.T) {
			back, err := Decode(Encode(prog))
			require.NoError(t, err)
			assert.Equal(t, prog.String(), back.String())
		})
	}
}

func TestLabels(t *testing.T) {
	labels, err := buildLabels(Program{
		insL(OpMark, ""),
		insL(OpJump, "0"),
		insL(OpMark, "0"),
		insL(OpMark, "00"),
		ins(OpEnd),
		insL(OpMark, "1"),
	})
	require.NoError(t, err)
	assert.Equal(t, map[Label]int{
		"":   0,
		"0":  2,
		"00": 3,
		"1":  5,
	}, labels)

	_, err = buildLabels(Program{
		insL(OpMark, "01"),
		ins(OpEnd),
		insL(OpMark, "01"),
	})
	assert.True(t, errors.Is(err, ErrDuplicateLabel))
	var lerr *LabelError
	if assert.True(t, errors.As(err, &lerr)) {
		assert.Equal(t, LabelError{Label: "01", First: 0, Second: 2}, *lerr)
	}
	assert.EqualError(t, err, "duplicate label 01 @2, first marked @0")
}
