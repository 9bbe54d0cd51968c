package rlang

// Stream wraps a token slice with navigation helpers used by rules.
type Stream []Token

// At returns the token at i, or a zero Illegal token when out of range.
func (s Stream) At(i int) Token {
	if i < 0 || i >= len(s) {
		return Token{Kind: Illegal, Match: -1}
	}
	return s[i]
}

// IsCall reports whether the identifier at i is called, i.e. followed by an
// opening parenthesis that has a partner, and is not a member access such
// as x$f or x@f.
func (s Stream) IsCall(i int, name string) bool {
	t := s.At(i)
	if !t.Is(Ident, name) {
		return false
	}
	next := s.At(i + 1)
	if next.Kind != LParen || next.Match < 0 {
		return false
	}
	return !s.IsMember(i)
}

// IsMember reports whether the token at i is the right side of $ or @.
func (s Stream) IsMember(i int) bool {
	prev := s.At(i - 1)
	return prev.Is(Operator, "$") || prev.Is(Operator, "@")
}

// CallEnd returns the index of the closing parenthesis of the call whose
// function name is at i. Callers must check IsCall first.
func (s Stream) CallEnd(i int) int {
	return s[i+1].Match
}

// PrimaryEnd returns the index of the last token of the primary expression
// starting at i: a name or literal followed by any chain of calls,
// indexing, namespace access and member access.
func (s Stream) PrimaryEnd(i int) int {
	t := s.At(i)
	switch {
	case t.Kind == Ident || t.Kind == Number || t.Kind == String:
	case t.IsOpen() && t.Match > i:
		i = t.Match
	default:
		return -1
	}
	for {
		next := s.At(i + 1)
		switch {
		case (next.Kind == LParen || next.Kind == LBracket) && next.Match > i:
			i = next.Match
		case next.Is(Operator, "$") || next.Is(Operator, "@") ||
			next.Is(Operator, "::") || next.Is(Operator, ":::"):
			if s.At(i+2).Kind != Ident && s.At(i+2).Kind != String {
				return i
			}
			i += 2
		default:
			return i
		}
	}
}

// PrimaryStart is the inverse of PrimaryEnd: it walks back from the last
// token at i to the first token of the primary expression.
func (s Stream) PrimaryStart(i int) int {
	for {
		t := s.At(i)
		switch {
		case (t.Kind == RParen || t.Kind == RBracket) && t.Match >= 0 && t.Match < i:
			open := t.Match
			prev := s.At(open - 1)
			if open > 0 && (prev.Kind == Ident || prev.IsClose() || prev.Kind == String) {
				i = open - 1
				continue
			}
			if t.Kind == RParen {
				return open
			}
			return -1
		case t.Kind == Ident || t.Kind == Number || t.Kind == String:
			prev := s.At(i - 1)
			if prev.Is(Operator, "$") || prev.Is(Operator, "@") ||
				prev.Is(Operator, "::") || prev.Is(Operator, ":::") {
				i -= 2
				continue
			}
			return i
		default:
			return -1
		}
	}
}

// InBrackets reports whether the token at i is nested anywhere inside a
// square-bracket index, x[...] or x[[...]].
func (s Stream) InBrackets(i int) bool {
	for j := i - 1; j >= 0; j-- {
		t := s[j]
		switch {
		case t.IsClose() && t.Match >= 0 && t.Match < j:
			j = t.Match
		case t.Kind == LBracket:
			return true
		}
	}
	return false
}
