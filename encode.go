package main

import "bytes"

// Encode renders a Program as canonical source: tokens only, without any
// comment bytes. Decoding the result yields the same instructions.
func Encode(prog Program) []byte {
	var buf bytes.Buffer
	for _, inst := range prog {
		if !inst.Op.valid() {
			continue
		}
		writeTokens(&buf, opSpecs[inst.Op].code)
		switch opSpecs[inst.Op].arg {
		case argNumber:
			writeNumber(&buf, inst.Arg)
		case argLabel:
			writeLabel(&buf, inst.Label)
		}
	}
	return buf.Bytes()
}

func writeTokens(buf *bytes.Buffer, code string) {
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case 'S':
			buf.WriteByte(' ')
		case 'T':
			buf.WriteByte('\t')
		case 'L':
			buf.WriteByte('\n')
		}
	}
}

func writeNumber(buf *bytes.Buffer, n int) {
	mag := uint64(n)
	if n < 0 {
		buf.WriteByte('\t')
		mag = -mag
	} else {
		buf.WriteByte(' ')
	}
	if mag != 0 {
		var bits [64]byte
		i := len(bits)
		for ; mag != 0; mag >>= 1 {
			i--
			bits[i] = " \t"[mag&1]
		}
		buf.Write(bits[i:])
	}
	buf.WriteByte('\n')
}

func writeLabel(buf *bytes.Buffer, l Label) {
	for i := 0; i < len(l); i++ {
		if l[i] == '0' {
			buf.WriteByte(' ')
		} else {
			buf.WriteByte('\t')
		}
	}
	buf.WriteByte('\n')
}
