package main

import (
	"math"
	"strings"
)

// Decode turns program source into a Program. Decoding is purely structural:
// labels are not resolved, and nothing is executed.
func Decode(src []byte) (Program, error) {
	return decodeTokens(Tokenize(src))
}

func decodeTokens(ts *Tokens) (prog Program, err error) {
	dec := decoder{Tokens: ts}
	for {
		inst, ok, err := dec.decode()
		if err != nil {
			return prog, err
		}
		if !ok {
			return prog, nil
		}
		prog = append(prog, inst)
	}
}

type decoder struct {
	*Tokens
	start int
	read  strings.Builder
}

func (dec *decoder) fail(reason string) *DecodeError {
	return &DecodeError{
		Offset: dec.start,
		Tokens: dec.read.String(),
		Reason: reason,
	}
}

func (dec *decoder) next() (Token, bool) {
	tok, off, ok := dec.Tokens.Next()
	if ok {
		if dec.read.Len() == 0 {
			dec.start = off
		}
		dec.read.WriteString(tok.String())
	}
	return tok, ok
}

func (dec *decoder) decode() (inst Instruction, ok bool, err error) {
	dec.read.Reset()
	for {
		if _, more := dec.next(); !more {
			if dec.read.Len() == 0 {
				return inst, false, nil
			}
			return inst, false, dec.fail("truncated instruction")
		}
		code := dec.read.String()
		if op, defined := opCodes[code]; defined {
			inst.Op = op
			break
		}
		if !opPrefixes[code] {
			return inst, false, dec.fail("unknown opcode")
		}
	}
	inst.Offset = dec.start

	switch opSpecs[inst.Op].arg {
	case argNumber:
		inst.Arg, err = dec.number()
	case argLabel:
		inst.Label, err = dec.label()
	}
	return inst, err == nil, err
}

// number decodes a sign token, then magnitude bits, most significant first,
// terminated by a line feed. An empty magnitude is zero; so is a bare line
// feed with no sign at all.
func (dec *decoder) number() (int, error) {
	sign, ok := dec.next()
	if !ok {
		return 0, dec.fail("truncated number")
	}
	if sign == TokenLF {
		return 0, nil
	}

	limit := uint64(math.MaxInt)
	if sign == TokenTab {
		limit++
	}

	var mag uint64
	for {
		tok, ok := dec.next()
		if !ok {
			return 0, dec.fail("truncated number")
		}
		var bit uint64
		switch tok {
		case TokenLF:
			if sign == TokenTab {
				return int(-mag), nil
			}
			return int(mag), nil
		case TokenTab:
			bit = 1
		}
		if mag > (limit-bit)/2 {
			return 0, dec.fail("number overflows")
		}
		mag = mag<<1 | bit
	}
}

// label decodes label bits terminated by a line feed.
func (dec *decoder) label() (Label, error) {
	var sb strings.Builder
	for {
		tok, ok := dec.next()
		if !ok {
			return "", dec.fail("truncated label")
		}
		switch tok {
		case TokenLF:
			return Label(sb.String()), nil
		case TokenSpace:
			sb.WriteByte('0')
		case TokenTab:
			sb.WriteByte('1')
		}
	}
}
