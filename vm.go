package main

import (
	"context"
	"fmt"

	"github.com/jcorbin/wsvm/internal/fileinput"
	"github.com/jcorbin/wsvm/internal/flushio"
	"github.com/jcorbin/wsvm/internal/mem"
)

// State is the lifecycle state of a VM.
type State uint8

// A VM starts Ready, is Running only within Run, and ends either Halted or
// Failed; both end states are terminal.
const (
	StateReady State = iota
	StateRunning
	StateHalted
	StateFailed
)

func (st State) String() string {
	switch st {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state%d", uint8(st))
}

// VM executes one Program, once. Every VM owns its stacks, heap and i/o; none
// of it is shared, so separate VMs may run concurrently without locking.
type VM struct {
	logfn func(mess string, args ...interface{})

	prog   Program
	labels map[Label]int

	state State
	err   error

	pc     int  // next instruction
	at     int  // instruction being executed
	steps  uint // instructions executed so far
	budget uint

	// The operand stack holds the values that almost every instruction works
	// on; the call stack holds only return indices into prog.
	stack []int
	calls []int

	// The heap is a sparse mapping from non-negative addresses to values.
	heap           mem.Cells
	heapDefault    int
	hasHeapDefault bool

	implicitEnd bool
	heapReads   bool

	in  fileinput.Input
	out flushio.WriteFlusher
}

// checkInterval is how many steps run between context checks.
const checkInterval = 1024

func (vm *VM) logf(mess string, args ...interface{}) {
	if vm.logfn != nil {
		vm.logfn(mess, args...)
	}
}

// halt stops the machine by panicking; Run recovers it. A nil error is a
// normal halt, anything else is a failure of the current instruction.
func (vm *VM) halt(err error) {
	if vm.out != nil {
		if ferr := vm.out.Flush(); err == nil {
			err = ferr
		}
	}
	if err == nil {
		vm.logf("halt")
		panic(haltError{})
	}
	rerr := &RuntimeError{PC: vm.at, Steps: vm.steps, Err: err}
	if vm.at >= 0 && vm.at < len(vm.prog) {
		inst := vm.prog[vm.at]
		rerr.Inst = &inst
	}
	vm.logf("halt error: %v", rerr)
	panic(haltError{rerr})
}

func (vm *VM) haltif(err error) {
	if err != nil {
		vm.halt(err)
	}
}

func (vm *VM) need(n int) {
	if len(vm.stack) < n {
		vm.halt(fmt.Errorf("%w: need %v, have %v", ErrStackUnderflow, n, len(vm.stack)))
	}
}

func (vm *VM) push(val int) {
	vm.stack = append(vm.stack, val)
}

func (vm *VM) pop() (val int) {
	vm.need(1)
	i := len(vm.stack) - 1
	val, vm.stack = vm.stack[i], vm.stack[:i]
	return val
}

func (vm *VM) heapAddr(addr int) uint {
	if addr < 0 {
		vm.halt(fmt.Errorf("%w: %v", ErrHeapAddress, addr))
	}
	return uint(addr)
}

func (vm *VM) load(addr int) int {
	val, set, err := vm.heap.Load(vm.heapAddr(addr))
	if err != nil {
		vm.halt(fmt.Errorf("%w: %v", ErrHeapAddress, err))
	}
	if !set {
		if !vm.hasHeapDefault {
			vm.halt(fmt.Errorf("%w %v", ErrUnsetHeapAddress, addr))
		}
		val = vm.heapDefault
	}
	return val
}

func (vm *VM) stor(addr, val int) {
	if err := vm.heap.Stor(vm.heapAddr(addr), val); err != nil {
		vm.halt(fmt.Errorf("%w: %v", ErrHeapAddress, err))
	}
}

func (vm *VM) jump(label Label) {
	i, defined := vm.labels[label]
	if !defined {
		vm.halt(fmt.Errorf("%w %v", ErrUnknownLabel, label))
	}
	vm.pc = i
}

func (vm *VM) exec(ctx context.Context) {
	for {
		vm.step()
		if vm.steps%checkInterval == 0 {
			vm.haltif(ctx.Err())
		}
	}
}

func (vm *VM) step() {
	vm.at = vm.pc
	if vm.pc == len(vm.prog) && vm.implicitEnd {
		vm.halt(nil)
	}
	if vm.pc < 0 || vm.pc >= len(vm.prog) {
		vm.halt(fmt.Errorf("%w: %v not in [0, %v)", ErrProgramCounter, vm.pc, len(vm.prog)))
	}
	if vm.budget != 0 && vm.steps >= vm.budget {
		vm.halt(fmt.Errorf("%w after %v steps", ErrStepBudget, vm.steps))
	}
	inst := vm.prog[vm.pc]
	if vm.logfn != nil {
		vm.logf("exec @%v %v -- s:%v c:%v", vm.pc, inst, vm.stack, vm.calls)
	}
	vm.steps++
	vm.pc++
	vm.execute(inst)
}

func (vm *VM) execute(inst Instruction) {
	if !inst.Op.valid() {
		vm.halt(fmt.Errorf("%w: invalid opcode %v", ErrMalformedInstruction, inst.Op))
	}
	opTable[inst.Op](vm, inst)
}
