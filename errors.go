package main

import (
	"errors"
	"fmt"
)

// Load errors; a program failing with one of these never starts running.
var (
	ErrMalformedInstruction = errors.New("malformed instruction")
	ErrDuplicateLabel       = errors.New("duplicate label")
)

// Runtime errors; each stops the machine at the failing instruction, and is
// returned wrapped in a *RuntimeError.
var (
	ErrStackUnderflow   = errors.New("stack underflow")
	ErrDivisionByZero   = errors.New("division by zero")
	ErrUnsetHeapAddress = errors.New("unset heap address")
	ErrUnknownLabel     = errors.New("unknown label target")
	ErrEmptyCallStack   = errors.New("return with empty call stack")
	ErrProgramCounter   = errors.New("program counter out of bounds")
	ErrStepBudget       = errors.New("step budget exceeded")
	ErrIntegerOverflow  = errors.New("integer overflow")
	ErrHeapAddress      = errors.New("heap address out of range")
	ErrInvalidCharacter = errors.New("invalid character")
	ErrInputExhausted   = errors.New("input exhausted")
	ErrMalformedInput   = errors.New("malformed number input")
)

var errNotReady = errors.New("vm has already run")

// DecodeError locates a malformed instruction within program source.
type DecodeError struct {
	Offset int    // byte offset of the instruction's first token
	Tokens string // tokens consumed, like "TTL"
	Reason string
}

func (de *DecodeError) Error() string {
	return fmt.Sprintf("%v at byte %v (%v): %v", ErrMalformedInstruction, de.Offset, de.Tokens, de.Reason)
}

func (de *DecodeError) Unwrap() error { return ErrMalformedInstruction }

// LabelError reports a label marked more than once.
type LabelError struct {
	Label  Label
	First  int
	Second int
}

func (le *LabelError) Error() string {
	return fmt.Sprintf("%v %v @%v, first marked @%v", ErrDuplicateLabel, le.Label, le.Second, le.First)
}

func (le *LabelError) Unwrap() error { return ErrDuplicateLabel }

// RuntimeError records where a running machine failed.
type RuntimeError struct {
	PC    int          // index of the failing instruction
	Inst  *Instruction // nil if PC was out of bounds
	Steps uint         // steps executed before the failure
	Err   error
}

func (re *RuntimeError) Error() string {
	if re.Inst == nil {
		return fmt.Sprintf("@%v: %v", re.PC, re.Err)
	}
	return fmt.Sprintf("@%v %v: %v", re.PC, re.Inst, re.Err)
}

func (re *RuntimeError) Unwrap() error { return re.Err }

type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}

func (err haltError) Unwrap() error { return err.error }
