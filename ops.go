package calc

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"

	"github.com/zephyrtronium/calc/stack"
)

// priority is the rank of each operator. Pending operators of rank at least
// that of an incoming operator are applied before it is pushed. ( has rank 0
// so that nothing but a close bracket removes it.
var priority = [256]int{
	'+': 1,
	'-': 1,
	'*': 2,
	'/': 2,
	'^': 3,
}

// operands is the operand stack of a calculator. Implementations decide the
// arithmetic.
type operands interface {
	// push parses a number literal and pushes it. lit is always a complete
	// literal as recognized by scanNumber.
	push(lit string) error
	// apply pops two operands, applies the binary operator op to them, and
	// pushes the result. The error is ErrDivideByZero, ErrDomain, or
	// stack.ErrEmpty.
	apply(op byte) error
	// top returns the value on top of the stack.
	top() (float64, *big.Float, error)
	len() int
	cap() int
	clear()
	release()
}

// floats is the operand stack for float64 arithmetic.
type floats struct {
	s *stack.Stack[float64]
}

func newFloats(capacity int) *floats {
	return &floats{s: stack.New[float64](capacity)}
}

func (f *floats) push(lit string) error {
	x, err := strconv.ParseFloat(lit, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		panic("calc: invalid number: " + lit + " (" + err.Error() + ")")
	}
	// Out of range values are ±Inf, which is what we want.
	return f.s.Push(x)
}

func (f *floats) apply(op byte) error {
	fn := floatOps[op]
	if fn == nil {
		panic("calc: invalid operator " + strconv.QuoteRune(rune(op)))
	}
	y, err := f.s.Pop()
	if err != nil {
		return err
	}
	x, err := f.s.Pop()
	if err != nil {
		return err
	}
	r, err := fn(x, y)
	if err != nil {
		return err
	}
	return f.s.Push(r)
}

// floatOps are the float64 operator functions.
var floatOps = [256]func(x, y float64) (float64, error){
	'+': func(x, y float64) (float64, error) { return x + y, nil },
	'-': func(x, y float64) (float64, error) { return x - y, nil },
	'*': func(x, y float64) (float64, error) { return x * y, nil },
	'/': func(x, y float64) (float64, error) {
		if y == 0 {
			return 0, ErrDivideByZero
		}
		return x / y, nil
	},
	// NaN results, e.g. from a negative base with a fractional exponent,
	// are results like any other.
	'^': func(x, y float64) (float64, error) { return math.Pow(x, y), nil },
}

func (f *floats) top() (float64, *big.Float, error) {
	x, err := f.s.Peek()
	if err != nil {
		return 0, nil, err
	}
	if math.IsNaN(x) {
		return x, nil, nil
	}
	return x, new(big.Float).SetFloat64(x), nil
}

func (f *floats) len() int { return f.s.Len() }
func (f *floats) cap() int { return f.s.Cap() }
func (f *floats) clear() { f.s.Clear() }
func (f *floats) release() { f.s.Release() }

// bigs is the operand stack for arbitrary-precision arithmetic.
type bigs struct {
	s    *stack.Stack[*big.Float]
	nums map[string]*big.Float
	prec uint
}

func newBigs(capacity int, prec uint) *bigs {
	return &bigs{
		s:    stack.New[*big.Float](capacity),
		nums: make(map[string]*big.Float),
		prec: prec,
	}
}

// maxCached is the number of literals a bigs keeps parsed.
const maxCached = 512

// num gets a possibly cached number from its text.
func (b *bigs) num(s string) *big.Float {
	if r := b.nums[s]; r != nil {
		return r
	}
	if len(b.nums) >= maxCached {
		clear(b.nums)
	}
	r, _, err := new(big.Float).SetPrec(b.prec).Parse(s, 10)
	switch {
	case err == nil: // do nothing
	case err.Error() == "exponent overflow",
		strings.HasSuffix(err.Error(), ": value out of range"):
		// There isn't realistically any better way to detect this error.
		// N.B. s is non-empty, otherwise we couldn't overflow.
		r = new(big.Float).SetPrec(b.prec).SetInf(s[0] == '-')
	default:
		panic("calc: invalid number: " + s + " (" + err.Error() + ")")
	}
	b.nums[s] = r
	return r
}

func (b *bigs) push(lit string) error {
	return b.s.Push(new(big.Float).SetPrec(b.prec).Set(b.num(lit)))
}

func (b *bigs) apply(op byte) (err error) {
	fn := bigOps[op]
	if fn == nil {
		panic("calc: invalid operator " + strconv.QuoteRune(rune(op)))
	}
	y, err := b.s.Pop()
	if err != nil {
		return err
	}
	x, err := b.s.Pop()
	if err != nil {
		return err
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		// big.Float panics with ErrNaN on Inf-Inf, 0*Inf, and Inf/Inf.
		if _, ok := r.(big.ErrNaN); ok {
			err = ErrDomain
			return
		}
		panic(r)
	}()
	// Results go in x, which is already off the stack.
	if err := fn(x, x, y); err != nil {
		return err
	}
	return b.s.Push(x)
}

// bigOps are the math/big operator functions. Each sets z to the result.
var bigOps = [256]func(z, x, y *big.Float) error{
	'+': func(z, x, y *big.Float) error { z.Add(x, y); return nil },
	'-': func(z, x, y *big.Float) error { z.Sub(x, y); return nil },
	'*': func(z, x, y *big.Float) error { z.Mul(x, y); return nil },
	'/': func(z, x, y *big.Float) error {
		if y.Sign() == 0 {
			return ErrDivideByZero
		}
		z.Quo(x, y)
		return nil
	},
	'^': pow,
}

// pow sets z to x^y. It returns ErrDomain if the result is not a real number.
func pow(z, x, y *big.Float) error {
	prec := z.Prec()
	switch {
	case y.Sign() == 0:
		z.SetInt64(1)
	case x.IsInf() || y.IsInf():
		// bigfloat doesn't handle infinities, but float64 gets them right.
		xf, _ := x.Float64()
		yf, _ := y.Float64()
		r := math.Pow(xf, yf)
		if math.IsNaN(r) {
			return ErrDomain
		}
		z.SetFloat64(r)
	case x.Sign() == 0:
		if y.Sign() < 0 {
			z.SetInf(false)
		} else {
			z.SetInt64(0)
		}
	case y.IsInt():
		if n, acc := y.Int64(); acc == big.Exact && n > math.MinInt64 {
			powInt(z, x, n)
			break
		}
		n, _ := y.Int(nil)
		a := new(big.Float).Abs(x)
		if !powLarge(z, a, y) {
			z.Set(bigfloat.Pow(new(big.Float).SetPrec(prec), a, y))
		}
		if x.Sign() < 0 && n.Bit(0) == 1 {
			z.Neg(z)
		}
	case x.Sign() < 0:
		return ErrDomain
	default:
		if !powLarge(z, x, y) {
			z.Set(bigfloat.Pow(new(big.Float).SetPrec(prec), x, y))
		}
	}
	z.SetPrec(prec)
	return nil
}

// powLarge sets z to +Inf or 0 and returns true if x^y is beyond the exponent
// range of big.Float. x must be positive.
func powLarge(z, x, y *big.Float) bool {
	mant := new(big.Float)
	exp := x.MantExp(mant)
	m, _ := mant.Float64()
	yf, _ := y.Float64()
	// log2(x^y) = y * (exp + log2(mant)), with mant in [0.5, 1).
	e := yf * (float64(exp) + math.Log2(m))
	switch {
	case e > big.MaxExp:
		z.SetInf(false)
	case e < big.MinExp:
		z.SetInt64(0)
	default:
		return false
	}
	return true
}

// powInt sets z to x^n by repeated squaring.
func powInt(z, x *big.Float, n int64) {
	prec := z.Prec()
	r := new(big.Float).SetPrec(prec).SetInt64(1)
	b := new(big.Float).SetPrec(prec).Set(x)
	inv := n < 0
	if inv {
		n = -n
	}
	for n > 0 {
		if n&1 == 1 {
			r.Mul(r, b)
		}
		b.Mul(b, b)
		n >>= 1
	}
	if inv {
		r.Quo(new(big.Float).SetPrec(prec).SetInt64(1), r)
	}
	z.Set(r)
}

func (b *bigs) top() (float64, *big.Float, error) {
	x, err := b.s.Peek()
	if err != nil {
		return 0, nil, err
	}
	f, _ := x.Float64()
	return f, new(big.Float).Copy(x), nil
}

func (b *bigs) len() int { return b.s.Len() }
func (b *bigs) cap() int { return b.s.Cap() }
func (b *bigs) clear() { b.s.Clear() }
func (b *bigs) release() { b.s.Release() }
