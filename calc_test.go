package calc_test

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/zephyrtronium/calc"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    float64
	}{
		{"add", "7+8", 15},
		{"precedence", "8+8*3+-2^5", 0},
		{"signed", "8++8*((3-2)*5)", 48},
		{"nested", "((7*(2+5)+3))", 52},
		{"sub", "4-5-6", 4 - 5 - 6},
		{"div", "64/4/2", 8},
		{"mul", "4*5*6", 120},
		{"pow", "2^3^2", 64},
		{"pow-neg-exp", "2^-1^2", 0.25},
		{"pow-mul", "2*3^2", 18},
		{"neg-literal-pow", "-2^2", 4},
		{"plus-literal", "8+(+8)", 16},
		{"double-sign", "8++8", 16},
		{"minus-neg", "3--2", 5},
		{"decimal", "1.5*4", 6},
		{"leading-point", ".5+.25", 0.75},
		{"trailing-point", "2.*3", 6},
		{"signed-point", "-.5*4", -2},
		{"exp", "1e3*2", 2000},
		{"exp-sign", "25e-1*2", 5},
		{"exp-plus", "1E+2", 100},
		{"paren-first", "(1+2)*3", 9},
		{"paren-barrier", "2*(3+4)^2", 98},
		{"single", "42", 42},
		{"paren-single", "((42))", 42},
		{"overflow-literal", "1e400", math.Inf(1)},
		{"neg-overflow-literal", "-1e400", math.Inf(-1)},
	}
	c := calc.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, r := c.Calculate(tc.src)
			if s != calc.Success {
				_, err := c.Eval(tc.src)
				t.Fatalf("%q gave status %v: %v", tc.src, s, err)
			}
			if r != tc.r {
				t.Errorf("%q: want %g, got %g", tc.src, tc.r, r)
			}
		})
	}
}

func TestCalculateFailures(t *testing.T) {
	cases := []struct {
		name string
		src  string
		s    calc.Status
	}{
		{"div-zero", "2/0", calc.MathError},
		{"div-zero-expr", "1/(3-3)", calc.MathError},
		{"div-neg-zero", "1/-0", calc.MathError},
		{"div-zero-nested", "1+(2*(5/0))", calc.MathError},
		{"div-zero-then-more", "2/0+1", calc.MathError},
		{"unmatched-close", "3-2)*5", calc.SyntaxError},
		{"unmatched-open", "(3-2)*5+ 5*(4+4+4", calc.SyntaxError},
		{"close", ")", calc.SyntaxError},
		{"close-space", ") ", calc.SyntaxError},
		{"trailing-op", "8+8*3-2^", calc.SyntaxError},
		{"empty", "", calc.SyntaxError},
		{"blank", "   ", calc.SyntaxError},
		{"empty-parens", "()", calc.SyntaxError},
		{"open", "(", calc.SyntaxError},
		{"two-ops", "2*/3", calc.SyntaxError},
		{"leading-op", "*2", calc.SyntaxError},
		{"two-numbers", "2 3", calc.SyntaxError},
		{"juxtaposed", "2(3)", calc.SyntaxError},
		{"juxtaposed-open", "2(3", calc.SyntaxError},
		{"juxtaposed-after", "(2)(3", calc.SyntaxError},
		{"unknown", "2$3", calc.SyntaxError},
		{"letter", "x", calc.SyntaxError},
		{"nul", "2\x00", calc.SyntaxError},
		{"bare-sign", "-", calc.SyntaxError},
		{"sign-paren", "-(3)", calc.SyntaxError},
		{"sign-space", "- 3", calc.SyntaxError},
		{"point", ".", calc.SyntaxError},
		{"dangling-exp", "2e", calc.SyntaxError},
		{"two-points", "1.2.3", calc.SyntaxError},
	}
	c := calc.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, r := c.Calculate(tc.src)
			if s != tc.s {
				t.Errorf("%q: want status %v, got %v", tc.src, tc.s, s)
			}
			if r != 0 || math.Signbit(r) {
				t.Errorf("%q: want result 0 on failure, got %g", tc.src, r)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	c := calc.New()
	t.Run("divide", func(t *testing.T) {
		_, err := c.Eval("2/0+1")
		var ae *calc.ArithmeticError
		if !errors.As(err, &ae) {
			t.Fatalf("want ArithmeticError, got %#v", err)
		}
		if !errors.Is(err, calc.ErrDivideByZero) {
			t.Errorf("%v doesn't unwrap to ErrDivideByZero", err)
		}
		if ae.Op != "/" || ae.Col != 4 {
			t.Errorf("wrong op or position: %+v", ae)
		}
		if !strings.Contains(err.Error(), "division by zero") {
			t.Errorf("%q doesn't mention division by zero", err.Error())
		}
	})
	t.Run("close", func(t *testing.T) {
		_, err := c.Eval("3-2)*5")
		var be *calc.BracketError
		if !errors.As(err, &be) {
			t.Fatalf("want BracketError, got %#v", err)
		}
		if be.Col != 4 || be.Right != ")" || be.Left != "" {
			t.Errorf("wrong bracket error: %+v", be)
		}
	})
	t.Run("open", func(t *testing.T) {
		_, err := c.Eval("(3")
		var be *calc.BracketError
		if !errors.As(err, &be) {
			t.Fatalf("want BracketError, got %#v", err)
		}
		if be.Col != 3 || be.Left != "(" {
			t.Errorf("wrong bracket error: %+v", be)
		}
	})
	t.Run("empty", func(t *testing.T) {
		_, err := c.Eval("")
		var ee *calc.EmptyExpressionError
		if !errors.As(err, &ee) {
			t.Fatalf("want EmptyExpressionError, got %#v", err)
		}
		if ee.Pos() != 1 || ee.Error() != "1: no expression" {
			t.Errorf("wrong empty expression error: %v", ee)
		}
	})
	t.Run("trailing", func(t *testing.T) {
		_, err := c.Eval("2+")
		var ee *calc.EmptyExpressionError
		if !errors.As(err, &ee) {
			t.Fatalf("want EmptyExpressionError, got %#v", err)
		}
		if ee.Pos() != 3 {
			t.Errorf("wrong position %d", ee.Pos())
		}
	})
	t.Run("token", func(t *testing.T) {
		_, err := c.Eval("2*/3")
		var te *calc.TokenError
		if !errors.As(err, &te) {
			t.Fatalf("want TokenError, got %#v", err)
		}
		if te.Col != 3 || te.Text != "/" || te.Expected != "number" {
			t.Errorf("wrong token error: %+v", te)
		}
		_, err = c.Eval("2 3")
		if !errors.As(err, &te) {
			t.Fatalf("want TokenError, got %#v", err)
		}
		if te.Col != 3 || te.Expected != "operator" {
			t.Errorf("wrong token error: %+v", te)
		}
	})
	t.Run("operator", func(t *testing.T) {
		_, err := c.Eval("2(3)")
		var oe *calc.OperatorError
		if !errors.As(err, &oe) {
			t.Fatalf("want OperatorError, got %#v", err)
		}
		if oe.Operands != 2 || oe.Operators != 0 {
			t.Errorf("wrong operator error: %+v", oe)
		}
	})
	t.Run("positions", func(t *testing.T) {
		for _, src := range []string{"", "2+", "2 3", "(3", "3)", "2/0", "$"} {
			_, err := c.Eval(src)
			var ie calc.InputError
			if !errors.As(err, &ie) {
				t.Errorf("%q: error %#v is not an InputError", src, err)
				continue
			}
			if ie.Pos() < 1 || ie.Pos() > len(src)+1 {
				t.Errorf("%q: position %d out of range", src, ie.Pos())
			}
		}
	})
}

func TestWhitespace(t *testing.T) {
	cases := [][2]string{
		{"7+8", "  7 +\t8 "},
		{"(3-2)*5", "( 3 - 2 ) * 5"},
		{"8++8*((3-2)*5)", "8 + +8 * ( ( 3 - 2 ) * 5 )"},
		{"2^3^2", "2\n^\r\n3 ^ 2"},
	}
	c := calc.New()
	for _, p := range cases {
		s1, r1 := c.Calculate(p[0])
		s2, r2 := c.Calculate(p[1])
		if s1 != s2 || r1 != r2 {
			t.Errorf("%q gave %v %g but %q gave %v %g", p[0], s1, r1, p[1], s2, r2)
		}
	}
}

func TestNaNIsNotAnError(t *testing.T) {
	s, r := calc.Calculate("(-8)^0.5")
	if s != calc.Success {
		t.Fatalf("want success, got %v", s)
	}
	if !math.IsNaN(r) {
		t.Errorf("want NaN, got %g", r)
	}
	_, err := calc.New().EvalBig("(-8)^0.5")
	if !errors.Is(err, calc.ErrDomain) {
		t.Errorf("EvalBig of NaN result gave %v, want ErrDomain", err)
	}
}

func TestReuse(t *testing.T) {
	c := calc.New()
	bad := []string{"2/0", "(((1", "1+2)", "3*", "2(3", "1+2*3^(4/0)", ""}
	for _, src := range bad {
		if s, _ := c.Calculate(src); s == calc.Success {
			t.Fatalf("%q unexpectedly succeeded", src)
		}
		s, r := c.Calculate("7+8")
		want, wr := calc.New().Calculate("7+8")
		if s != want || r != wr {
			t.Errorf("after %q: got %v %g, want %v %g", src, s, r, want, wr)
		}
	}
}

func TestCapacity(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		c := calc.New()
		if c.Capacity() != calc.DefaultCapacity {
			t.Errorf("want capacity %d, got %d", calc.DefaultCapacity, c.Capacity())
		}
		deep := strings.Repeat("(", 30) + "1" + strings.Repeat(")", 30)
		if s, r := c.Calculate(deep); s != calc.Success || r != 1 {
			t.Errorf("30 brackets: got %v %g", s, r)
		}
		deeper := "(" + deep + ")"
		_, err := c.Eval(deeper)
		var ce *calc.CapacityError
		if !errors.As(err, &ce) {
			t.Fatalf("31 brackets: want CapacityError, got %#v", err)
		}
		if ce.Stack != "operator" || ce.Cap != 30 || ce.Col != 31 {
			t.Errorf("wrong capacity error: %+v", ce)
		}
		if calc.StatusOf(err) != calc.SyntaxError {
			t.Errorf("capacity error has status %v", calc.StatusOf(err))
		}
	})
	t.Run("operands", func(t *testing.T) {
		c := calc.New(calc.Capacity(2))
		if s, r := c.Calculate("1+2"); s != calc.Success || r != 3 {
			t.Errorf("1+2: got %v %g", s, r)
		}
		_, err := c.Eval("1+2*3")
		var ce *calc.CapacityError
		if !errors.As(err, &ce) {
			t.Fatalf("want CapacityError, got %#v", err)
		}
		if ce.Stack != "operand" || ce.Col != 5 {
			t.Errorf("wrong capacity error: %+v", ce)
		}
		// Operators applied as soon as they are ready free up room.
		if s, r := c.Calculate("1*2+3-4"); s != calc.Success || r != 1 {
			t.Errorf("1*2+3-4: got %v %g", s, r)
		}
	})
	t.Run("invalid", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Capacity(0) didn't panic")
			}
		}()
		calc.Capacity(0)
	})
}

func TestBig(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    float64
	}{
		{"add", "7+8", 15},
		{"precedence", "8+8*3+-2^5", 0},
		{"signed", "8++8*((3-2)*5)", 48},
		{"sqrt", "2^0.5", math.Sqrt2},
		{"neg-odd", "(-2)^3", -8},
		{"neg-even", "-2^4", 16},
		{"zero-base", "0^3", 0},
		{"zero-exp", "(-5)^0", 1},
		{"zero-neg-exp", "0^-1", math.Inf(1)},
		{"third", "1/3", 1.0 / 3},
	}
	c := calc.New(calc.Prec(128))
	if c.Prec() != 128 {
		t.Fatalf("wrong precision %d", c.Prec())
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := c.EvalBig(tc.src)
			if err != nil {
				t.Fatalf("%q: %v", tc.src, err)
			}
			if r.Prec() != 128 {
				t.Errorf("%q: result has precision %d", tc.src, r.Prec())
			}
			f, _ := r.Float64()
			if !near(f, tc.r) {
				t.Errorf("%q: want %g, got %g", tc.src, tc.r, r)
			}
		})
	}
	t.Run("errors", func(t *testing.T) {
		for _, src := range []string{"(-8)^0.5", "1/(1e400-1e400)", "0^-1-0^-1", "(0^-1)/(0^-1)"} {
			s, r := c.Calculate(src)
			if s != calc.MathError || r != 0 {
				t.Errorf("%q: want MathError 0, got %v %g", src, s, r)
			}
		}
		_, err := c.Eval("(-8)^0.5")
		if !errors.Is(err, calc.ErrDomain) {
			t.Errorf("want ErrDomain, got %v", err)
		}
		_, err = c.Eval("5/0")
		if !errors.Is(err, calc.ErrDivideByZero) {
			t.Errorf("want ErrDivideByZero, got %v", err)
		}
	})
	t.Run("range", func(t *testing.T) {
		cases := []struct {
			name   string
			src    string
			lo, hi string
		}{
			{"huge", "2^1024.5", "2.5e308", "2.6e308"},
			{"huge-ten", "10^400.5", "3.1e400", "3.2e400"},
			{"tiny", "2^-1100.5", "1e-332", "1e-330"},
			{"huge-int", "3^1e20", "+Inf", "+Inf"},
			{"huge-neg-even", "(-2)^1e30", "+Inf", "+Inf"},
			{"tiny-big-exp", "0.5^1e30", "0", "0"},
		}
		for _, tc := range cases {
			r, err := c.EvalBig(tc.src)
			if err != nil {
				t.Errorf("%q: %v", tc.src, err)
				continue
			}
			lo, _, _ := new(big.Float).Parse(tc.lo, 10)
			hi, _, _ := new(big.Float).Parse(tc.hi, 10)
			if r.Cmp(lo) < 0 || r.Cmp(hi) > 0 {
				t.Errorf("%q: want in [%s, %s], got %g", tc.src, tc.lo, tc.hi, r)
			}
		}
	})
	t.Run("clone", func(t *testing.T) {
		d := c.Clone()
		if d.Prec() != 128 || d.Capacity() != c.Capacity() {
			t.Errorf("clone has prec %d cap %d", d.Prec(), d.Capacity())
		}
		e := c.Clone(calc.Prec(0))
		if s, r := e.Calculate("(-8)^0.5"); s != calc.Success || !math.IsNaN(r) {
			t.Errorf("float clone: got %v %g", s, r)
		}
	})
}

func TestDestroy(t *testing.T) {
	c := calc.New()
	c.Destroy()
	defer func() {
		if recover() == nil {
			t.Error("Calculate after Destroy didn't panic")
		}
	}()
	c.Calculate("1")
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	c := calc.New(calc.Logger(h))
	c.Calculate("1+2")
	c.Calculate("1/0")
	out := buf.String()
	for _, want := range []string{"msg=step", "msg=calculate", "status=Success", "status=MathError", "result=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("log doesn't contain %q:\n%s", want, out)
		}
	}
	buf.Reset()
	h = slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	c = calc.New(calc.Logger(h))
	if s, r := c.Calculate("(1+2)*3"); s != calc.Success || r != 9 {
		t.Errorf("quiet logger: got %v %g", s, r)
	}
	if buf.Len() != 0 {
		t.Errorf("info logger recorded debug output:\n%s", buf.String())
	}
}

func TestStatusString(t *testing.T) {
	cases := map[calc.Status]string{
		calc.Success:     "Success",
		calc.MathError:   "MathError",
		calc.SyntaxError: "SyntaxError",
		calc.Status(9):   "Status(9)",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("want %q, got %q", want, got)
		}
	}
	if calc.StatusOf(nil) != calc.Success {
		t.Error("StatusOf(nil) is not Success")
	}
}

func near(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-12*math.Max(math.Abs(a), math.Abs(b))
}
