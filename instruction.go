package main

import (
	"strconv"
	"strings"
)

// Opcode identifies one instruction of the machine.
type Opcode uint8

// Instruction words are an IMP prefix, selecting a family, followed by an
// opcode selector; the token spellings are given by opSpecs below.
const (
	opInvalid Opcode = iota

	// stack manipulation, IMP [Space]
	OpPush  // push number onto the stack
	OpDup   // duplicate the top of the stack
	OpCopy  // copy the nth item (0 is the top) onto the top
	OpSwap  // swap the top two items
	OpDrop  // discard the top item
	OpSlide // discard n items below the top, keeping the top

	// arithmetic, IMP [Tab Space]
	OpAdd
	OpSub
	OpMul
	OpDiv // floored division
	OpMod // floored modulo, takes the sign of the divisor

	// heap access, IMP [Tab Tab]
	OpStore    // pop value and address; heap[address] = value
	OpRetrieve // pop address; push heap[address]

	// flow control, IMP [LF]
	OpMark // mark a location in the program with a label
	OpCall // call a subroutine
	OpJump // jump unconditionally
	OpJz   // pop; jump if zero
	OpJn   // pop; jump if negative
	OpRet  // return from a subroutine
	OpEnd  // end the program

	// i/o, IMP [Tab LF]
	OpOutChar  // pop; write as a character
	OpOutNum   // pop; write as a decimal number
	OpReadChar // read a character
	OpReadNum  // read a decimal number line

	opMax
)

type argKind uint8

const (
	argNone argKind = iota
	argNumber
	argLabel
)

type opSpec struct {
	code string // token spelling, IMP then opcode
	name string
	arg  argKind
}

var opSpecs = [opMax]opSpec{
	OpPush:  {"SS", "push", argNumber},
	OpDup:   {"SLS", "dup", argNone},
	OpCopy:  {"STS", "copy", argNumber},
	OpSwap:  {"SLT", "swap", argNone},
	OpDrop:  {"SLL", "drop", argNone},
	OpSlide: {"STL", "slide", argNumber},

	OpAdd: {"TSSS", "add", argNone},
	OpSub: {"TSST", "sub", argNone},
	OpMul: {"TSSL", "mul", argNone},
	OpDiv: {"TSTS", "div", argNone},
	OpMod: {"TSTT", "mod", argNone},

	OpStore:    {"TTS", "store", argNone},
	OpRetrieve: {"TTT", "retrieve", argNone},

	OpMark: {"LSS", "mark", argLabel},
	OpCall: {"LST", "call", argLabel},
	OpJump: {"LSL", "jump", argLabel},
	OpJz:   {"LTS", "jz", argLabel},
	OpJn:   {"LTT", "jn", argLabel},
	OpRet:  {"LTL", "ret", argNone},
	OpEnd:  {"LLL", "end", argNone},

	OpOutChar:  {"TLSS", "outc", argNone},
	OpOutNum:   {"TLST", "outn", argNone},
	OpReadChar: {"TLTS", "readc", argNone},
	OpReadNum:  {"TLTT", "readn", argNone},
}

var (
	opCodes    map[string]Opcode
	opPrefixes map[string]bool
)

func init() {
	opCodes = make(map[string]Opcode, len(opSpecs))
	opPrefixes = make(map[string]bool, 2*len(opSpecs))
	for op := OpPush; op < opMax; op++ {
		code := opSpecs[op].code
		opCodes[code] = op
		for i := 1; i < len(code); i++ {
			opPrefixes[code[:i]] = true
		}
	}
}

func (op Opcode) valid() bool { return opInvalid < op && op < opMax }

func (op Opcode) String() string {
	if op.valid() {
		return opSpecs[op].name
	}
	return "op" + strconv.Itoa(int(op))
}

// HasNumber returns true if the instruction takes a number operand.
func (op Opcode) HasNumber() bool { return op.valid() && opSpecs[op].arg == argNumber }

// HasLabel returns true if the instruction takes a label operand.
func (op Opcode) HasLabel() bool { return op.valid() && opSpecs[op].arg == argLabel }

// Label is an opaque jump target: the bits of its encoding, space as '0' and
// tab as '1'. Leading zeros are significant, and the empty label is valid.
type Label string

func (l Label) String() string {
	if l == "" {
		return `""`
	}
	return string(l)
}

// Instruction is one decoded instruction word.
type Instruction struct {
	Op     Opcode `cbor:"1,keyasint"`
	Arg    int    `cbor:"2,keyasint,omitempty"`
	Label  Label  `cbor:"3,keyasint,omitempty"`
	Offset int    `cbor:"4,keyasint,omitempty"` // byte offset within source
}

func (inst Instruction) String() string {
	switch {
	case inst.Op.HasNumber():
		return inst.Op.String() + " " + strconv.Itoa(inst.Arg)
	case inst.Op.HasLabel():
		return inst.Op.String() + " " + inst.Label.String()
	}
	return inst.Op.String()
}

// Program is a sequence of decoded instructions; it is never modified by
// execution.
type Program []Instruction

func (prog Program) String() string {
	var sb strings.Builder
	for i, inst := range prog {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(inst.String())
	}
	return sb.String()
}
