package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jcorbin/wsvm/internal/runeio"
)

var opTable [opMax]func(vm *VM, inst Instruction)

func init() {
	opTable = [opMax]func(vm *VM, inst Instruction){
		OpPush:  (*VM).pushNum,
		OpDup:   (*VM).dup,
		OpCopy:  (*VM).copyNth,
		OpSwap:  (*VM).swap,
		OpDrop:  (*VM).drop,
		OpSlide: (*VM).slide,

		OpAdd: (*VM).arith,
		OpSub: (*VM).arith,
		OpMul: (*VM).arith,
		OpDiv: (*VM).arith,
		OpMod: (*VM).arith,

		OpStore:    (*VM).store,
		OpRetrieve: (*VM).retrieve,

		OpMark: (*VM).mark,
		OpCall: (*VM).call,
		OpJump: (*VM).jumpTo,
		OpJz:   (*VM).jumpZero,
		OpJn:   (*VM).jumpNeg,
		OpRet:  (*VM).ret,
		OpEnd:  (*VM).end,

		OpOutChar:  (*VM).outChar,
		OpOutNum:   (*VM).outNum,
		OpReadChar: (*VM).readChar,
		OpReadNum:  (*VM).readNum,
	}
}

//// Stack

func (vm *VM) pushNum(inst Instruction) { vm.push(inst.Arg) }

func (vm *VM) dup(Instruction) {
	vm.need(1)
	vm.push(vm.stack[len(vm.stack)-1])
}

// copyNth copies the nth item, counting the top as 0.
func (vm *VM) copyNth(inst Instruction) {
	n := inst.Arg
	if n < 0 || n >= len(vm.stack) {
		vm.halt(fmt.Errorf("%w: copy %v of %v", ErrStackUnderflow, n, len(vm.stack)))
	}
	vm.push(vm.stack[len(vm.stack)-1-n])
}

func (vm *VM) swap(Instruction) {
	vm.need(2)
	i := len(vm.stack) - 1
	vm.stack[i], vm.stack[i-1] = vm.stack[i-1], vm.stack[i]
}

func (vm *VM) drop(Instruction) { vm.pop() }

// slide discards n items from under the top of the stack.
func (vm *VM) slide(inst Instruction) {
	n := inst.Arg
	if n < 0 || n >= len(vm.stack) {
		vm.need(1)
		vm.halt(fmt.Errorf("%w: slide %v under %v", ErrStackUnderflow, n, len(vm.stack)-1))
	}
	top := vm.pop()
	vm.stack = append(vm.stack[:len(vm.stack)-n], top)
}

//// Arithmetic

var arithFuncs = [opMax]func(a, b int) (int, error){
	OpAdd: addInt,
	OpSub: subInt,
	OpMul: mulInt,
	OpDiv: divInt,
	OpMod: modInt,
}

// arith pops b, then a, and pushes a OP b.
func (vm *VM) arith(inst Instruction) {
	vm.need(2)
	b, a := vm.pop(), vm.pop()
	c, err := arithFuncs[inst.Op](a, b)
	if err != nil {
		vm.halt(fmt.Errorf("%w: %v %v %v", err, a, inst.Op, b))
	}
	vm.push(c)
}

//// Heap

func (vm *VM) store(Instruction) {
	vm.need(2)
	val, addr := vm.pop(), vm.pop()
	vm.stor(addr, val)
}

func (vm *VM) retrieve(Instruction) { vm.push(vm.load(vm.pop())) }

//// Flow control

// Marks were collected into the label table at load time.
func (vm *VM) mark(Instruction) {}

func (vm *VM) call(inst Instruction) {
	vm.calls = append(vm.calls, vm.pc)
	vm.jump(inst.Label)
}

func (vm *VM) jumpTo(inst Instruction) { vm.jump(inst.Label) }

func (vm *VM) jumpZero(inst Instruction) {
	if vm.pop() == 0 {
		vm.jump(inst.Label)
	}
}

func (vm *VM) jumpNeg(inst Instruction) {
	if vm.pop() < 0 {
		vm.jump(inst.Label)
	}
}

func (vm *VM) ret(Instruction) {
	i := len(vm.calls) - 1
	if i < 0 {
		vm.halt(ErrEmptyCallStack)
	}
	vm.pc, vm.calls = vm.calls[i], vm.calls[:i]
}

func (vm *VM) end(Instruction) { vm.halt(nil) }

//// I/O

func (vm *VM) outChar(Instruction) {
	code := vm.pop()
	if vm.logfn != nil {
		vm.logf("outc %v", runeio.Name(code))
	}
	if _, err := runeio.WriteRune(vm.out, code); err != nil {
		var invalid runeio.InvalidRuneError
		if errors.As(err, &invalid) {
			err = fmt.Errorf("%w %v", ErrInvalidCharacter, code)
		}
		vm.halt(err)
	}
}

func (vm *VM) outNum(Instruction) {
	var buf [20]byte
	_, err := vm.out.Write(strconv.AppendInt(buf[:0], int64(vm.pop()), 10))
	vm.haltif(err)
}

func (vm *VM) readChar(Instruction) {
	addr := vm.readAddr()
	vm.haltif(vm.out.Flush())
	r, _, err := vm.in.ReadRune()
	if err == io.EOF {
		err = fmt.Errorf("%w: reading character", ErrInputExhausted)
	}
	vm.haltif(err)
	vm.deliver(addr, int(r))
}

// readNum reads one line of input, which must hold a decimal number;
// surrounding blanks are ignored.
func (vm *VM) readNum(Instruction) {
	addr := vm.readAddr()
	vm.haltif(vm.out.Flush())
	line, err := vm.in.ReadLine()
	if err == io.EOF {
		err = fmt.Errorf("%w: reading number", ErrInputExhausted)
	}
	vm.haltif(err)
	text := strings.TrimSpace(line)
	n, err := strconv.ParseInt(text, 10, strconv.IntSize)
	if err != nil {
		vm.halt(fmt.Errorf("%w %q at %v", ErrMalformedInput, text, vm.in.Last.Location))
	}
	vm.deliver(addr, int(n))
}

// readAddr pops the destination heap address for a read, if reads go to the heap.
func (vm *VM) readAddr() int {
	if vm.heapReads {
		return vm.pop()
	}
	return 0
}

func (vm *VM) deliver(addr, val int) {
	if vm.heapReads {
		vm.stor(addr, val)
	} else {
		vm.push(val)
	}
}
