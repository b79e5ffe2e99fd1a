package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runTest struct {
	args  []string
	stdin string

	code   int
	stdout string
	stderr []string // substrings
}

func (rt runTest) run(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(rt.args, strings.NewReader(rt.stdin), &stdout, &stderr)
	assert.Equal(t, rt.code, code, "expected exit code\nstderr: %s", stderr.Bytes())
	assert.Equal(t, rt.stdout, stdout.String(), "expected stdout")
	for _, part := range rt.stderr {
		assert.Contains(t, stderr.String(), part, "expected stderr")
	}
}

func Test_run(t *testing.T) {
	dir := t.TempDir()
	writeProgram := func(name, notation string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, wsSource(notation), 0o644))
		return path
	}
	writeFile := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	hello := writeProgram("hello.ws", ""+
		"push_H:SSSTSSTSSSL"+
		"outc:TLSS"+
		"push_i:SSSTTSTSSTL"+
		"outc:TLSS"+
		"end:LLL")
	echo := writeProgram("echo.ws", echoNumber)
	sum := writeProgram("sum.ws", "TLTT"+"TLTT"+"TSSS"+"TLST"+"LLL")
	divZero := writeProgram("div.ws", "SSSTSSSSSTL"+"TLSS"+"SSSTL"+"SSSL"+"TSTS"+"LLL")
	loop := writeProgram("loop.ws", "LSSL"+"LSLL")
	noEnd := writeProgram("noend.ws", "SSSTL"+"TLST")
	unset := writeProgram("unset.ws", "SSSTL"+"TTT"+"TLST"+"LLL")
	bad := writeProgram("bad.ws", "SSSTL"+"TTL")
	image := filepath.Join(dir, "hello.wsi")

	t.Run("hello", runTest{
		args:   []string{hello},
		stdout: "Hi",
	}.run)

	t.Run("stdin", runTest{
		args:   []string{echo},
		stdin:  "42\n",
		stdout: "42",
	}.run)

	t.Run("input files", runTest{
		args: []string{sum,
			writeFile("a.txt", "3\n"),
			writeFile("b.txt", "4\n"),
		},
		stdin:  "99\n",
		stdout: "7",
	}.run)

	t.Run("runtime failure", runTest{
		args:   []string{divZero},
		code:   exitFailed,
		stdout: "A",
		stderr: []string{"ERROR: ", "division by zero"},
	}.run)

	t.Run("runtime failure dump", runTest{
		args:   []string{"-dump", divZero},
		code:   exitFailed,
		stdout: "A",
		stderr: []string{"# VM Dump", "> @4 div", "division by zero"},
	}.run)

	t.Run("step limit", runTest{
		args:   []string{"-steps", "100", loop},
		code:   exitFailed,
		stderr: []string{"step budget exceeded"},
	}.run)

	t.Run("timeout", runTest{
		args:   []string{"-timeout", "10ms", loop},
		code:   exitFailed,
		stderr: []string{"deadline exceeded"},
	}.run)

	t.Run("config", runTest{
		args:   []string{"-config", writeFile("limits.toml", "step-budget = 10\n"), loop},
		code:   exitFailed,
		stderr: []string{"step budget exceeded after 10 steps"},
	}.run)

	t.Run("flag overrides config", runTest{
		args:   []string{"-config", writeFile("lax.toml", "implicit-end = true\n"), "-implicit-end=false", noEnd},
		code:   exitFailed,
		stdout: "1",
		stderr: []string{"program counter out of bounds"},
	}.run)

	t.Run("bad config", runTest{
		args:   []string{"-config", writeFile("bad.toml", "steps = 10\n"), hello},
		code:   exitUsage,
		stderr: []string{"unknown keys", "steps"},
	}.run)

	t.Run("fall off the end", runTest{
		args:   []string{noEnd},
		code:   exitFailed,
		stdout: "1",
		stderr: []string{"program counter out of bounds"},
	}.run)

	t.Run("implicit end", runTest{
		args:   []string{"-implicit-end", noEnd},
		stdout: "1",
	}.run)

	t.Run("unset heap", runTest{
		args:   []string{unset},
		code:   exitFailed,
		stderr: []string{"unset heap address"},
	}.run)

	t.Run("heap zero", runTest{
		args:   []string{"-heap-zero", unset},
		stdout: "0",
	}.run)

	t.Run("trace", runTest{
		args:   []string{"-trace", hello},
		stdout: "Hi",
		stderr: []string{"TRACE: exec @0 push 72", "TRACE: outc 'H'", "TRACE: halt"},
	}.run)

	t.Run("malformed", runTest{
		args:   []string{bad},
		code:   exitLoad,
		stderr: []string{"malformed instruction at byte 5 (TTL)"},
	}.run)

	t.Run("missing program", runTest{
		args:   []string{filepath.Join(dir, "nope.ws")},
		code:   exitLoad,
		stderr: []string{"nope.ws"},
	}.run)

	t.Run("no args", runTest{
		code:   exitUsage,
		stderr: []string{"usage: wsvm"},
	}.run)

	t.Run("bad flag", runTest{
		args: []string{"-nope", hello},
		code: exitUsage,
	}.run)

	t.Run("list", runTest{
		args: []string{"-list", hello},
		stdout: "" +
			"  @0 push 72\n" +
			"  @1 outc\n" +
			"  @2 push 105\n" +
			"  @3 outc\n" +
			"  @4 end\n",
	}.run)

	t.Run("strip", runTest{
		args:   []string{"-strip", echo},
		stdout: string(wsSource(echoNumber)),
	}.run)

	t.Run("compile", runTest{
		args: []string{"-compile", image, hello},
	}.run)

	t.Run("run image", runTest{
		args:   []string{image},
		stdout: "Hi",
	}.run)
}
