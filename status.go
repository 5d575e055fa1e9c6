package calc

import "errors"

// Status classifies the outcome of a calculation.
type Status int

const (
	// Success means the expression was evaluated.
	Success Status = iota
	// MathError means the expression was well-formed, but its value is
	// undefined, e.g. it divides by zero.
	MathError
	// SyntaxError means the expression was malformed.
	SyntaxError
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=Status

// StatusOf returns the status that corresponds to an error returned from
// Eval or EvalBig.
func StatusOf(err error) Status {
	if err == nil {
		return Success
	}
	var ae *ArithmeticError
	if errors.As(err, &ae) {
		return MathError
	}
	return SyntaxError
}
