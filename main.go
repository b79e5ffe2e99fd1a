package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jcorbin/wsvm/internal/logio"
	"github.com/jcorbin/wsvm/internal/runeio"
	"github.com/tebeka/atexit"
)

// Exit codes.
const (
	exitHalted = 0
	exitFailed = 1
	exitUsage  = 2
	exitLoad   = 3
)

func main() {
	stdout := bufio.NewWriter(os.Stdout)
	atexit.Register(func() { stdout.Flush() })
	atexit.Exit(run(os.Args[1:], os.Stdin, stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	log := logio.NewLogger(stderr)

	flags := flag.NewFlagSet("wsvm", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: wsvm [flags] PROGRAM [INPUT...]\n")
		flags.PrintDefaults()
	}

	var (
		configPath  string
		trace       bool
		timeout     time.Duration
		steps       uint
		heapLimit   uint
		heapZero    bool
		implicitEnd bool
		heapReads   bool
		list        bool
		strip       bool
		dump        bool
		compileOut  string
	)
	flags.StringVar(&configPath, "config", "", "load settings from a TOML file")
	flags.BoolVar(&trace, "trace", false, "enable trace logging")
	flags.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flags.UintVar(&steps, "steps", 0, "limit how many instructions may execute")
	flags.UintVar(&heapLimit, "heap-limit", 0, "limit heap addresses to less than this")
	flags.BoolVar(&heapZero, "heap-zero", false, "read never written heap addresses as 0")
	flags.BoolVar(&implicitEnd, "implicit-end", false, "halt normally after the last instruction")
	flags.BoolVar(&heapReads, "heap-reads", false, "read instructions store into the heap")
	flags.BoolVar(&list, "list", false, "print a program listing instead of running")
	flags.BoolVar(&strip, "strip", false, "print canonical program source instead of running")
	flags.BoolVar(&dump, "dump", false, "dump machine state after a failure")
	flags.StringVar(&compileOut, "compile", "", "write a compiled image to this file instead of running")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitHalted
		}
		return exitUsage
	}
	if flags.NArg() < 1 {
		flags.Usage()
		return exitUsage
	}

	var cfg Config
	if configPath != "" {
		var err error
		if cfg, err = LoadConfig(configPath); err != nil {
			log.Fail(exitUsage, "%v", err)
			return log.ExitCode()
		}
	}
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "trace":
			cfg.Trace = trace
		case "timeout":
			cfg.Timeout.Duration = timeout
		case "steps":
			cfg.StepBudget = steps
		case "heap-limit":
			cfg.HeapLimit = heapLimit
		case "heap-zero":
			cfg.HeapDefault = nil
			if heapZero {
				zero := 0
				cfg.HeapDefault = &zero
			}
		case "implicit-end":
			cfg.ImplicitEnd = implicitEnd
		case "heap-reads":
			cfg.HeapReads = heapReads
		}
	})

	name := flags.Arg(0)
	data, err := os.ReadFile(name)
	if err != nil {
		log.Fail(exitLoad, "%v", err)
		return log.ExitCode()
	}
	prog, err := LoadProgram(data)
	if err != nil {
		log.Fail(exitLoad, "%v: %v", name, err)
		return log.ExitCode()
	}

	switch {
	case list:
		programDumper{prog: prog, out: stdout}.dump()
		return exitHalted
	case strip:
		if _, err := stdout.Write(Encode(prog)); err != nil {
			log.Fail(exitFailed, "%v", err)
		}
		return log.ExitCode()
	case compileOut != "":
		img, err := EncodeImage(prog)
		if err == nil {
			err = os.WriteFile(compileOut, img, 0o644)
		}
		if err != nil {
			log.Fail(exitFailed, "%v", err)
		}
		return log.ExitCode()
	}

	opts := append(cfg.options(), WithOutput(stdout))
	if cfg.Trace {
		opts = append(opts, WithLogf(log.Leveledf("TRACE")))
	}
	if inputs := flags.Args()[1:]; len(inputs) > 0 {
		for _, input := range inputs {
			f, err := os.Open(input)
			if err != nil {
				log.Fail(exitLoad, "%v", err)
				return log.ExitCode()
			}
			defer f.Close()
			opts = append(opts, WithInput(f))
		}
	} else if stdin != nil {
		opts = append(opts, WithInput(runeio.NamedReader("stdin", stdin)))
	}

	vm, err := New(prog, opts...)
	if err != nil {
		log.Fail(exitLoad, "%v: %v", name, err)
		return log.ExitCode()
	}

	ctx := context.Background()
	if cfg.Timeout.Duration != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout.Duration)
		defer cancel()
	}
	if err := vm.Run(ctx); err != nil {
		if dump {
			vmDumper{vm: vm, out: stderr, context: 3}.dump()
		}
		log.Fail(exitFailed, "%v: %v", name, err)
	}
	return log.ExitCode()
}
