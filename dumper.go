package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// programDumper writes a listing of a program, one instruction per line,
// with marked labels set out on their own line.
type programDumper struct {
	prog Program
	out  io.Writer

	addrWidth int
	marked    bool
	mark      int // index to point at, when marked
}

func (dump programDumper) dump() {
	if dump.addrWidth == 0 {
		dump.addrWidth = len(strconv.Itoa(len(dump.prog)))
	}
	for i, inst := range dump.prog {
		dump.dumpInst(i, inst)
	}
}

func (dump programDumper) dumpInst(i int, inst Instruction) {
	var sb strings.Builder
	if inst.Op == OpMark {
		sb.WriteString(inst.Label.String())
		sb.WriteString(":\n")
	}
	if dump.marked && i == dump.mark {
		sb.WriteString("> ")
	} else {
		sb.WriteString("  ")
	}
	fmt.Fprintf(&sb, "@%-*v %v", dump.addrWidth, i, inst)
	sb.WriteByte('\n')
	io.WriteString(dump.out, sb.String())
}

// vmDumper writes the state of a VM, as after a failure.
type vmDumper struct {
	vm  *VM
	out io.Writer

	// context is how many instructions to list either side of the pc
	context int
}

func (dump vmDumper) dump() {
	vm := dump.vm
	fmt.Fprintf(dump.out, "# VM Dump\n")
	fmt.Fprintf(dump.out, "  state: %v\n", vm.state)
	if vm.err != nil {
		fmt.Fprintf(dump.out, "  error: %v\n", vm.err)
	}
	fmt.Fprintf(dump.out, "  pc: %v\n", vm.pc)
	fmt.Fprintf(dump.out, "  steps: %v\n", vm.steps)
	fmt.Fprintf(dump.out, "  stack: %v\n", vm.stack)
	fmt.Fprintf(dump.out, "  calls: %v\n", vm.calls)
	dump.dumpHeap()
	if dump.context > 0 {
		dump.dumpCode()
	}
}

func (dump vmDumper) dumpHeap() {
	heap := &dump.vm.heap
	fmt.Fprintf(dump.out, "# Heap cells: %v\n", heap.Len())
	heap.Each(func(addr uint, val int) bool {
		fmt.Fprintf(dump.out, "  @%v %v\n", addr, val)
		return true
	})
}

func (dump vmDumper) dumpCode() {
	prog := dump.vm.prog
	at := dump.vm.at
	lo, hi := at-dump.context, at+dump.context+1
	if lo < 0 {
		lo = 0
	}
	if hi > len(prog) {
		hi = len(prog)
	}
	fmt.Fprintf(dump.out, "# Code @%v\n", at)
	pd := programDumper{
		prog:      prog,
		out:       dump.out,
		addrWidth: len(strconv.Itoa(len(prog))),
		marked:    true,
		mark:      at,
	}
	for i := lo; i < hi; i++ {
		pd.dumpInst(i, prog[i])
	}
}
