package main

import (
	"io"

	"github.com/jcorbin/wsvm/internal/flushio"
)

// VMOption configures a VM; see the With* functions.
type VMOption interface{ apply(vm *VM) }

var defaults = []VMOption{
	withOutput(io.Discard),
}

// VMOptions combines any number of options into one.
func VMOptions(opts ...VMOption) VMOption {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	if len(res) == 1 {
		return res[0]
	}
	return res
}

type options []VMOption

func (opts options) apply(vm *VM) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(vm)
		}
	}
}

// WithInput adds an input stream to be read after any prior ones.
func WithInput(r io.Reader) VMOption { return inputOption{r} }

// WithOutput sets the stream that output instructions write to.
func WithOutput(w io.Writer) VMOption { return withOutput(w) }

// WithTee copies all output into w, in addition to any prior output stream.
func WithTee(w io.Writer) VMOption { return teeOption{w} }

// WithLogf installs a tracing function, called for every executed step.
func WithLogf(logfn func(mess string, args ...interface{})) VMOption { return withLogfn(logfn) }

// WithStepBudget limits how many instructions may execute; 0 is unlimited.
func WithStepBudget(limit uint) VMOption { return stepBudgetOption(limit) }

// WithHeapLimit limits heap addresses to [0, limit); 0 is unlimited.
func WithHeapLimit(limit uint) VMOption { return heapLimitOption(limit) }

// WithHeapDefault makes reading a never written heap address produce val,
// rather than failing with ErrUnsetHeapAddress.
func WithHeapDefault(val int) VMOption { return heapDefaultOption(val) }

// WithImplicitEnd makes running past the last instruction a normal halt,
// rather than failing with ErrProgramCounter.
func WithImplicitEnd() VMOption { return implicitEndOption{} }

// WithHeapReads makes the read instructions pop a heap address and store
// what they read there, instead of pushing it onto the stack.
func WithHeapReads() VMOption { return heapReadsOption{} }

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(vm *VM) { vm.logfn = logfn }

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type stepBudgetOption uint
type heapLimitOption uint
type heapDefaultOption int
type implicitEndOption struct{}
type heapReadsOption struct{}

func withOutput(w io.Writer) outputOption { return outputOption{w} }

func (i inputOption) apply(vm *VM) {
	if i.Reader != nil {
		vm.in.Queue = append(vm.in.Queue, i.Reader)
	}
}

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		vm.out.Flush()
	}
	vm.out = flushio.NewWriteFlusher(o.Writer)
}

func (o teeOption) apply(vm *VM) {
	vm.out = flushio.WriteFlushers(vm.out, flushio.NewWriteFlusher(o.Writer))
}

func (lim stepBudgetOption) apply(vm *VM)  { vm.budget = uint(lim) }
func (lim heapLimitOption) apply(vm *VM)   { vm.heap.Limit = uint(lim) }
func (val heapDefaultOption) apply(vm *VM) { vm.hasHeapDefault, vm.heapDefault = true, int(val) }
func (implicitEndOption) apply(vm *VM)     { vm.implicitEnd = true }
func (heapReadsOption) apply(vm *VM)       { vm.heapReads = true }
