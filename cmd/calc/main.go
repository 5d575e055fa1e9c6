// Command calc evaluates arithmetic expressions.
//
// Each argument is an expression. With no arguments, calc reads expressions
// from standard input, or from the file named by -in, one per line. With -i,
// calc starts an interactive session instead.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/zephyrtronium/calc"
)

func main() {
	log.SetFlags(0)
	code, err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		log.Print(err)
	}
	os.Exit(code)
}

// samples are the expressions printed by -samples.
var samples = []string{
	"7+8",
	"8+8*3+-2^5",
	"8+8*3-2^",
	"2/0",
	"8++8*((3-2)*5)",
	"3-2)*5",
	"(3-2)*5+ 5*(4+4+4",
	"((7*(2+5)+3))",
	") ",
}

// run runs the command and returns the exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	var (
		inname, verb                     string
		prec                             uint
		capacity                         int
		echo, verbose, demo, interactive bool
	)
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	fs.StringVar(&verb, "fmt", "%g", "result formatting string")
	fs.UintVar(&prec, "p", 0, "precision of calculations in bits (0 for float64)")
	fs.IntVar(&capacity, "cap", calc.DefaultCapacity, "maximum number of pending operands and operators")
	fs.BoolVar(&echo, "echo", false, "print each expression with its result")
	fs.BoolVar(&verbose, "v", false, "log evaluation steps to stderr")
	fs.BoolVar(&demo, "samples", false, "evaluate a fixed set of sample expressions")
	fs.BoolVar(&interactive, "i", false, "start an interactive session")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0, nil
		}
		return 2, err
	}
	if capacity <= 0 {
		return 2, fmt.Errorf("capacity (%d) must be positive", capacity)
	}

	opts := []calc.Option{calc.Prec(prec), calc.Capacity(capacity)}
	if verbose {
		opts = append(opts, calc.Logger(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	c := calc.New(opts...)

	switch {
	case interactive:
		if err := runREPL(c, verb); err != nil {
			return 1, err
		}
		return 0, nil
	case demo:
		for _, expr := range samples {
			status, r := c.Calculate(expr)
			fmt.Fprintf(stdout, "%-22q %-8s %v\n", expr, fmt.Sprintf(verb, r), status)
		}
		return 0, nil
	}

	var exprs []string
	if fs.NArg() > 0 && inname == "" {
		exprs = fs.Args()
	} else {
		in := stdin
		if inname != "" && inname != "-" {
			f, err := os.Open(inname)
			if err != nil {
				return 1, err
			}
			defer f.Close()
			in = f
		}
		lines, err := readLines(in)
		if err != nil {
			return 1, err
		}
		exprs = append(lines, fs.Args()...)
	}

	code := 0
	for _, expr := range exprs {
		r, err := evaluate(c, expr, verb)
		if echo {
			fmt.Fprintf(stdout, "%s = ", expr)
		}
		if err != nil {
			fmt.Fprintf(stdout, "%v: %v\n", calc.StatusOf(err), err)
			code = 1
			continue
		}
		fmt.Fprintln(stdout, r)
	}
	return code, nil
}

// evaluate evaluates expr and formats its result with verb.
func evaluate(c *calc.Calculator, expr, verb string) (string, error) {
	if c.Prec() == 0 {
		r, err := c.Eval(expr)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(verb, r), nil
	}
	r, err := c.EvalBig(expr)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(verb, r), nil
}

// readLines reads the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
