package calc

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/zephyrtronium/calc/stack"
)

type state uint8

const (
	// waitNumber expects a number or an open bracket.
	waitNumber state = iota
	// waitOperator expects an operator, a close bracket, or the end.
	waitOperator
	// stateError is the terminal failure state.
	stateError
	// stateDone is the terminal success state.
	stateDone
)

func (s state) String() string {
	switch s {
	case waitNumber:
		return "number"
	case waitOperator:
		return "operator"
	case stateError:
		return "error"
	case stateDone:
		return "done"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

// handler handles the input at i and returns the next state and the position
// of the next unhandled byte.
type handler func(c *Calculator, i int) (state, int)

// dispatch maps each working state and input event to its handler. Anything
// not listed is an error.
var dispatch = func() (t [stateError][numEvents]handler) {
	for s := range t {
		for ev := range t[s] {
			t[s][ev] = onError
		}
	}
	t[waitNumber][evDigit] = onNumber
	t[waitNumber][evSign] = onNumber
	t[waitNumber][evOpen] = onOpen
	t[waitNumber][evSpace] = onSpace
	t[waitNumber][evEnd] = onEnd

	t[waitOperator][evSign] = onOperator
	t[waitOperator][evOperator] = onOperator
	t[waitOperator][evOpen] = onOpen
	t[waitOperator][evClose] = onClose
	t[waitOperator][evSpace] = onSpace
	t[waitOperator][evEnd] = onEnd
	return t
}()

func (c *Calculator) reset(expr string) {
	c.state = waitNumber
	c.nums.clear()
	c.ops.Clear()
	c.depth = 0
	c.expr = expr
	c.err = nil
}

// run steps the machine until it reaches a terminal state.
func (c *Calculator) run() {
	i := 0
	debug := c.log.Enabled(context.Background(), slog.LevelDebug)
	for c.state != stateError && c.state != stateDone {
		ev := classify(c.expr, i)
		next, k := dispatch[c.state][ev](c, i)
		if debug {
			c.log.LogAttrs(context.Background(), slog.LevelDebug, "step", slog.Int("col", i+1), slog.String("from", c.state.String()), slog.String("to", next.String()))
		}
		c.state, i = next, k
	}
}

// fail records err as the reason for failure.
func (c *Calculator) fail(err error) state {
	c.err = err
	return stateError
}

// pushOp pushes an operator or bracket read at i.
func (c *Calculator) pushOp(op byte, i int) error {
	if err := c.ops.Push(op); err != nil {
		return &CapacityError{Col: i + 1, Stack: "operator", Cap: c.ops.Cap()}
	}
	return nil
}

// reduce applies the operator on top of the operator stack to the top two
// operands. i is the position of the input that made the operator ready.
func (c *Calculator) reduce(i int) error {
	op, err := c.ops.Pop()
	if err != nil {
		panic("calc: inconsistent stack: reduce with no operator")
	}
	if err := c.nums.apply(op); err != nil {
		if errors.Is(err, stack.ErrEmpty) {
			panic("calc: inconsistent stack: " + strconv.Itoa(c.nums.len()) + " operands for " + string(op))
		}
		return &ArithmeticError{Col: i + 1, Op: string(op), Err: err}
	}
	return nil
}

func onNumber(c *Calculator, i int) (state, int) {
	k, ok := scanNumber(c.expr, i)
	if !ok {
		return c.fail(&TokenError{Col: i + 1, Text: c.expr[i:min(i+2, len(c.expr))], Expected: "number"}), i
	}
	if err := c.nums.push(c.expr[i:k]); err != nil {
		return c.fail(&CapacityError{Col: i + 1, Stack: "operand", Cap: c.nums.cap()}), i
	}
	return waitOperator, k
}

func onOperator(c *Calculator, i int) (state, int) {
	op := c.expr[i]
	for !c.ops.Empty() {
		top, _ := c.ops.Peek()
		if priority[top] < priority[op] {
			break
		}
		if err := c.reduce(i); err != nil {
			return c.fail(err), i
		}
	}
	if err := c.pushOp(op, i); err != nil {
		return c.fail(err), i
	}
	return waitNumber, i + 1
}

func onOpen(c *Calculator, i int) (state, int) {
	if err := c.pushOp('(', i); err != nil {
		return c.fail(err), i
	}
	c.depth++
	return waitNumber, i + 1
}

func onClose(c *Calculator, i int) (state, int) {
	for {
		top, err := c.ops.Peek()
		if err != nil {
			return c.fail(&BracketError{Col: i + 1, Right: ")"}), i
		}
		if top == '(' {
			break
		}
		if err := c.reduce(i); err != nil {
			return c.fail(err), i
		}
	}
	c.ops.Pop()
	c.depth--
	return waitOperator, i + 1
}

func onSpace(c *Calculator, i int) (state, int) {
	return c.state, skipSpace(c.expr, i)
}

func onEnd(c *Calculator, i int) (state, int) {
	switch {
	case c.state == waitNumber:
		return c.fail(&EmptyExpressionError{Col: i + 1}), i
	case c.depth > 0:
		return c.fail(&BracketError{Col: i + 1, Left: "("}), i
	case c.nums.len()-c.ops.Len() != 1:
		return c.fail(&OperatorError{Col: i + 1, Operands: c.nums.len(), Operators: c.ops.Len()}), i
	}
	for !c.ops.Empty() {
		if err := c.reduce(i); err != nil {
			return c.fail(err), i
		}
	}
	return stateDone, i
}

func onError(c *Calculator, i int) (state, int) {
	exp := "number"
	if c.state == waitOperator {
		exp = "operator"
	}
	return c.fail(&TokenError{Col: i + 1, Text: c.expr[i : i+1], Expected: exp}), i
}
