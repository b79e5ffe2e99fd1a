/* Package main: wsvm, a virtual machine for whitespace programs

A whitespace program is written using only three characters: space, tab, and
line feed. Every other byte of a program file is a comment, which is how
"invisible" programs carry readable text along with them.

Tokens group into instruction words. Each word starts with an Instruction
Modification Parameter (IMP) that picks a family of instructions:

	[Space]     stack manipulation
	[Tab Space] arithmetic
	[Tab Tab]   heap access
	[LF]        flow control
	[Tab LF]    i/o

followed by an opcode selecting one instruction from that family (see
opSpecs in instruction.go for every spelling). Some instructions then take an
operand:

Numbers are a sign (space for positive, tab for negative), then binary digits
(space 0, tab 1) most significant first, then a line feed. No digits at all
means zero.

Labels are any run of spaces and tabs, then a line feed. A label is only a
name: two labels are the same if and only if their bits are, so the labels
"0" and "00" are different.

The machine has an operand stack of integers, a heap addressed by
non-negative integers, a call stack of return positions, and a program
counter. Before running, every mark instruction is collected into a label
table, so a jump may go forward or backward; marking a label twice stops the
program from loading at all.

Execution is checked: popping an empty stack, dividing by zero, reading a heap
address that was never written, jumping to an unmarked label, returning with
no call to return from, and overflowing an integer all stop the machine with
an error. Division and modulo round toward negative infinity, so -7 / 2 is -4
and -7 % 2 is 1. Since programs may loop forever, a step budget may be given
to bound them.

Usage:

	wsvm [flags] PROGRAM [INPUT...]

Reads input from the INPUT files in order, or standard input if none are
given; see -help for flags.

*/
package main
