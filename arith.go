package main

import "math"

// Integer arithmetic is checked: results that do not fit an int are an
// ErrIntegerOverflow, never a silent wrap.

func addInt(a, b int) (int, error) {
	c := a + b
	if (c > a) != (b > 0) {
		return 0, ErrIntegerOverflow
	}
	return c, nil
}

func subInt(a, b int) (int, error) {
	c := a - b
	if (c < a) != (b > 0) {
		return 0, ErrIntegerOverflow
	}
	return c, nil
}

func mulInt(a, b int) (int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if (a == -1 && b == math.MinInt) ||
		(b == -1 && a == math.MinInt) ||
		c/b != a {
		return 0, ErrIntegerOverflow
	}
	return c, nil
}

// divInt divides, rounding toward negative infinity: -7 / 2 is -4.
func divInt(a, b int) (int, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	if a == math.MinInt && b == -1 {
		return 0, ErrIntegerOverflow
	}
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q, nil
}

// modInt is the remainder that goes with divInt; its sign follows b.
func modInt(a, b int) (int, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r, nil
}
