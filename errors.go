package calc

import (
	"errors"
	"strconv"
)

var (
	// ErrDivideByZero is the cause of an ArithmeticError for a division whose
	// divisor is exactly zero.
	ErrDivideByZero = errors.New("division by zero")
	// ErrDomain is the cause of an ArithmeticError for an operation whose
	// result cannot be represented, e.g. a negative number to a fractional
	// power with math/big arithmetic.
	ErrDomain = errors.New("argument outside domain")
)

// TokenError is an error indicating a byte that cannot appear where it does.
// It implements InputError.
type TokenError struct {
	// Col is the position of the token.
	Col int
	// Text is the offending input, starting with the byte that was rejected.
	Text string
	// Expected names what the calculator was waiting for, either "number" or
	// "operator".
	Expected string
}

func (err *TokenError) Error() string {
	return errpos(err.Col, "unexpected "+strconv.Quote(err.Text)+", expected "+err.Expected)
}

func (err *TokenError) Pos() int {
	return err.Col
}

// BracketError is an error indicating unmatched parentheses in the input. It
// implements InputError.
type BracketError struct {
	// Col is the position of the close bracket, or of the end of the input
	// for an open bracket that is never closed.
	Col int
	// Left is the open bracket, if there is one.
	Left string
	// Right is the close bracket, if there is one.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating a missing operand, e.g. an
// empty input or an operator at the end of the input. It implements
// InputError.
type EmptyExpressionError struct {
	// Col is the position of the end of the input.
	Col int
}

func (err *EmptyExpressionError) Error() string {
	if err.Col <= 1 {
		return errpos(err.Col, "no expression")
	}
	return errpos(err.Col, "no expression at end")
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// OperatorError is an error indicating two operands with no operator between
// them, e.g. "2(3)". It implements InputError.
type OperatorError struct {
	// Col is the position of the end of the input, where the imbalance is
	// detected.
	Col int
	// Operands and Operators are the numbers of pending operands and
	// operators at that point.
	Operands, Operators int
}

func (err *OperatorError) Error() string {
	return errpos(err.Col, "missing operator: "+strconv.Itoa(err.Operands)+" operands for "+strconv.Itoa(err.Operators)+" operators")
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// ArithmeticError is an error from evaluating a well-formed expression whose
// value is undefined. It unwraps to ErrDivideByZero or ErrDomain. It
// implements InputError.
type ArithmeticError struct {
	// Col is the position in the input at which the operation was applied.
	// The calculator applies pending operators when a later operator, a close
	// bracket, or the end of the input makes them ready.
	Col int
	// Op is the operator that failed. It is empty if the failure is not due
	// to a single operator.
	Op string
	// Err is the cause.
	Err error
}

func (err *ArithmeticError) Error() string {
	if err.Op == "" {
		return errpos(err.Col, err.Err.Error())
	}
	return errpos(err.Col, err.Op+": "+err.Err.Error())
}

func (err *ArithmeticError) Unwrap() error {
	return err.Err
}

func (err *ArithmeticError) Pos() int {
	return err.Col
}

// CapacityError is an error indicating that an expression needs more room on
// one of the calculator's stacks than the calculator has. Use the Capacity
// option to evaluate such expressions. It implements InputError.
type CapacityError struct {
	// Col is the position of the token that overflowed the stack.
	Col int
	// Stack is "operand" or "operator".
	Stack string
	// Cap is the capacity of the stack.
	Cap int
}

func (err *CapacityError) Error() string {
	return errpos(err.Col, err.Stack+" stack full at capacity "+strconv.Itoa(err.Cap))
}

func (err *CapacityError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based byte position of the error in the expression.
	Pos() int
}

var (
	_ InputError = (*TokenError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*ArithmeticError)(nil)
	_ InputError = (*CapacityError)(nil)
)
