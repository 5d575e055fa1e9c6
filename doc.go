// Package calc implements a calculator for infix arithmetic expressions.
//
// Expressions are made of real number literals, the binary operators + - * /
// and ^, and parentheses. A + or - where a number is expected is the sign of
// the number that follows it, so "8++8" is 8 plus positive 8. "^" is
// exponentiation and, like the other operators, groups left to right: "2^3^2"
// is 64, not 512. A sign must be followed directly by a number literal, so
// "-(3)" and "- 3" are syntax errors; write "0-(3)" or "-3" instead.
//
// A Calculator evaluates an expression in a single pass, without building a
// parse tree. A table indexed by the current state and the class of the next
// byte picks a handler, and handlers combine values on an operand stack as
// the operators on an operator stack become ready. One Calculator can
// evaluate any number of expressions, one at a time.
//
// By default calculations use float64. The Prec option switches a Calculator
// to arbitrary-precision arithmetic with math/big.
package calc
