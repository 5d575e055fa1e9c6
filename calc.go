package calc

import (
	"log/slog"
	"math/big"

	"github.com/zephyrtronium/calc/stack"
)

// DefaultCapacity is the number of operands and of operators a Calculator can
// hold at once unless the Capacity option says otherwise.
const DefaultCapacity = 30

// Calculator evaluates expressions. It is not safe to use a Calculator
// concurrently; use Clone to get one for each goroutine.
type Calculator struct {
	state state
	nums  operands
	ops   *stack.Stack[byte]
	// depth is the number of open brackets not yet closed.
	depth int
	// expr is the expression being evaluated.
	expr string
	// err is the error that sent the calculator to stateError.
	err error

	prec      uint
	capacity  int
	handler   slog.Handler
	log       *slog.Logger
	destroyed bool
}

// Option is an option used when creating a calculator.
type Option interface {
	calcOption()
}

type (
	precopt uint
	capopt  int
	logopt  struct {
		h slog.Handler
	}
)

func (precopt) calcOption() {}
func (capopt) calcOption()  {}
func (logopt) calcOption()  {}

// Prec sets the precision of calculations in bits and switches the
// calculator to math/big arithmetic. Prec(0) selects float64 arithmetic,
// which is the default.
func Prec(prec uint) Option {
	return precopt(prec)
}

// Capacity sets the number of operands and the number of operators the
// calculator can hold at once. The default is DefaultCapacity. An expression
// never needs more than one of each per byte. Panics if n is not positive.
func Capacity(n int) Option {
	if n <= 0 {
		panic("calc: capacity must be positive")
	}
	return capopt(n)
}

// Logger sets the handler for the calculator's logs. By default, logs are
// discarded.
func Logger(h slog.Handler) Option {
	return logopt{h}
}

// New creates a calculator.
func New(opts ...Option) *Calculator {
	c := Calculator{capacity: DefaultCapacity, handler: slog.DiscardHandler}
	return c.configure(opts)
}

// Clone creates a new calculator with the same options as c, then applies
// opts to it.
func (c *Calculator) Clone(opts ...Option) *Calculator {
	n := Calculator{prec: c.prec, capacity: c.capacity, handler: c.handler}
	return n.configure(opts)
}

func (c *Calculator) configure(opts []Option) *Calculator {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case precopt:
			c.prec = uint(opt)
		case capopt:
			c.capacity = int(opt)
		case logopt:
			if opt.h != nil {
				c.handler = opt.h
			}
		default:
			panic("calc: unknown option type")
		}
	}
	if c.prec == 0 {
		c.nums = newFloats(c.capacity)
	} else {
		c.nums = newBigs(c.capacity, c.prec)
	}
	c.ops = stack.New[byte](c.capacity)
	c.log = slog.New(c.handler)
	return c
}

// Prec returns the precision of calculations in bits, or 0 if the calculator
// uses float64.
func (c *Calculator) Prec() uint {
	return c.prec
}

// Capacity returns the capacity of each of the calculator's stacks.
func (c *Calculator) Capacity() int {
	return c.capacity
}

// Destroy releases the calculator's stacks. Using the calculator afterward
// panics.
func (c *Calculator) Destroy() {
	c.check()
	c.nums.release()
	c.ops.Release()
	c.destroyed = true
}

// Calculate evaluates an expression and reports how it went. If the status is
// not Success, the result is 0.
func (c *Calculator) Calculate(expr string) (Status, float64) {
	r, err := c.Eval(expr)
	return StatusOf(err), r
}

// Eval evaluates an expression. If an error occurs, the result is 0 and the
// error describes what went wrong. Use StatusOf to classify the error.
func (c *Calculator) Eval(expr string) (float64, error) {
	r, _, err := c.eval(expr)
	return r, err
}

// EvalBig evaluates an expression and returns the exact result the
// calculator computed. With float64 arithmetic, a NaN result is an
// ArithmeticError wrapping ErrDomain, since a big.Float cannot be NaN.
func (c *Calculator) EvalBig(expr string) (*big.Float, error) {
	_, r, err := c.eval(expr)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, &ArithmeticError{Col: len(expr) + 1, Err: ErrDomain}
	}
	return r, nil
}

// eval runs the machine over expr, then empties the stacks and reports.
func (c *Calculator) eval(expr string) (float64, *big.Float, error) {
	c.check()
	c.reset(expr)
	c.run()
	var (
		r  float64
		rb *big.Float
	)
	if c.nums.len() > 0 {
		// The error is impossible because the stack is not empty.
		r, rb, _ = c.nums.top()
	}
	c.nums.clear()
	c.ops.Clear()
	c.expr = ""
	if c.state == stateError {
		err := c.err
		c.err = nil
		c.log.Debug("calculate", slog.String("expr", expr), slog.String("status", StatusOf(err).String()), slog.Any("err", err))
		return 0, nil, err
	}
	c.log.Debug("calculate", slog.String("expr", expr), slog.String("status", Success.String()), slog.Float64("result", r))
	return r, rb, nil
}

func (c *Calculator) check() {
	if c.destroyed {
		panic("calc: use of destroyed Calculator")
	}
}

// Calculate is a shortcut to evaluate an expression with a new calculator.
func Calculate(expr string, opts ...Option) (Status, float64) {
	return New(opts...).Calculate(expr)
}

// Eval is a shortcut to evaluate an expression with a new calculator.
func Eval(expr string, opts ...Option) (float64, error) {
	return New(opts...).Eval(expr)
}
