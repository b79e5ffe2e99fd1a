package main

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/jcorbin/wsvm/internal/panicerr"
)

// LoadProgram decodes either program source or a compiled image.
func LoadProgram(data []byte) (Program, error) {
	if IsImage(data) {
		return DecodeImage(data)
	}
	return Decode(data)
}

// Load decodes src and returns a VM ready to run it.
func Load(src []byte, opts ...VMOption) (*VM, error) {
	prog, err := LoadProgram(src)
	if err != nil {
		return nil, err
	}
	return New(prog, opts...)
}

// New returns a VM ready to run prog; it fails if prog marks any label twice.
func New(prog Program, opts ...VMOption) (*VM, error) {
	labels, err := buildLabels(prog)
	if err != nil {
		return nil, err
	}
	vm := VM{prog: prog, labels: labels}
	options(defaults).apply(&vm)
	VMOptions(opts...).apply(&vm)
	return &vm, nil
}

// Run executes the program until it halts or fails. A VM runs only once;
// later calls return an error without doing anything.
func (vm *VM) Run(ctx context.Context) error {
	if vm.state != StateReady {
		return errNotReady
	}
	vm.state = StateRunning
	err := panicerr.Recover("VM", func() error {
		vm.exec(ctx)
		return nil
	})
	var halt haltError
	if errors.As(err, &halt) {
		err = halt.error
	}
	if err != nil {
		vm.state, vm.err = StateFailed, err
	} else {
		vm.state = StateHalted
	}
	return err
}

// State returns the VM's lifecycle state.
func (vm *VM) State() State { return vm.state }

// Err returns the error that failed the VM, if any.
func (vm *VM) Err() error { return vm.err }

// Steps returns how many instructions have executed.
func (vm *VM) Steps() uint { return vm.steps }

// Stack returns a copy of the operand stack, bottom first.
func (vm *VM) Stack() []int { return append([]int(nil), vm.stack...) }

// Result is what one execution produced.
type Result struct {
	Output []byte
	State  State
	Steps  uint
}

// Execute runs program source, or a compiled image, to completion against
// the given input. Output written before any runtime failure is returned
// alongside the error.
func Execute(ctx context.Context, program []byte, input io.Reader, opts ...VMOption) (Result, error) {
	var out bytes.Buffer
	vm, err := Load(program, WithInput(input), VMOptions(opts...), WithTee(&out))
	if err != nil {
		return Result{State: StateFailed}, err
	}
	err = vm.Run(ctx)
	return Result{
		Output: out.Bytes(),
		State:  vm.state,
		Steps:  vm.steps,
	}, err
}
