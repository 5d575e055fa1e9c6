package calc

// event is the class of the byte under the cursor.
type event uint8

const (
	// evOther is any byte the calculator does not understand.
	evOther event = iota
	// evDigit is a decimal digit or a decimal point.
	evDigit
	// evSign is + or -, which is either a sign or an operator depending on
	// the state.
	evSign
	// evOperator is *, /, or ^.
	evOperator
	// evOpen is an open bracket, (.
	evOpen
	// evClose is a close bracket, ).
	evClose
	// evSpace is ASCII whitespace.
	evSpace
	// evEnd indicates the end of the input.
	evEnd

	numEvents
)

var eventOf = func() (t [256]event) {
	for c := '0'; c <= '9'; c++ {
		t[c] = evDigit
	}
	t['.'] = evDigit
	t['+'] = evSign
	t['-'] = evSign
	t['*'] = evOperator
	t['/'] = evOperator
	t['^'] = evOperator
	t['('] = evOpen
	t[')'] = evClose
	for _, c := range " \t\n\v\f\r" {
		t[c] = evSpace
	}
	return t
}()

// classify returns the event for the byte at s[i].
func classify(s string, i int) event {
	if i >= len(s) {
		return evEnd
	}
	return eventOf[s[i]]
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// skipSpace returns the index of the first non-space byte in s at or after i.
func skipSpace(s string, i int) int {
	for i < len(s) && eventOf[s[i]] == evSpace {
		i++
	}
	return i
}

// scanNumber returns the end of the longest number literal at the start of
// s[i:]. A literal is an optional sign, then digits with an optional decimal
// point or a decimal point followed by digits, then an optional exponent. An
// exponent marker is part of the literal only if digits follow it. ok is false
// if there is no literal at i.
func scanNumber(s string, i int) (end int, ok bool) {
	k := i
	if k < len(s) && (s[k] == '+' || s[k] == '-') {
		k++
	}
	var dig bool
	for k < len(s) && isDigit(s[k]) {
		k++
		dig = true
	}
	if k < len(s) && s[k] == '.' {
		j := k + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			dig = true
		}
		if dig {
			k = j
		}
	}
	if !dig {
		return i, false
	}
	if k < len(s) && (s[k] == 'e' || s[k] == 'E') {
		j := k + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			k = j
		}
	}
	return k, true
}
