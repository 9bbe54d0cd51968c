package rlang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// operators ordered so that longer spellings win.
var operators = []string{
	":::", "<<-", "->>",
	"|>", "<-", "->", "<=", ">=", "==", "!=", "&&", "||", "::",
	"=", "+", "-", "*", "/", "^", "<", ">", "!", "&", "|", "~", "?", ":", "$", "@", "\\",
}

// lexer scans R source. It never fails: unknown bytes become Illegal tokens
// and unterminated strings run to the end of input.
type lexer struct {
	src    string
	pos    int
	tokens []Token
	stack  []int
}

// Lex tokenizes src. Whitespace, newlines and comments are dropped.
func Lex(src []byte) []Token {
	l := &lexer{src: string(src)}
	l.run()
	return l.tokens
}

func (l *lexer) run() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\n':
			l.pos++
		case c == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '"' || c == '\'':
			l.lexString(c)
		case (c == 'r' || c == 'R') && l.rawStringAhead():
			l.lexRawString()
		case c == '`':
			l.lexBacktick()
		case isDigit(c) || (c == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
			l.lexNumber()
		case c == '.' || c == '_' || c >= utf8.RuneSelf || isLetter(c):
			l.lexIdent()
		case c == '%':
			l.lexSpecial()
		case c == '(':
			l.open(LParen)
		case c == '[':
			l.open(LBracket)
		case c == '{':
			l.open(LBrace)
		case c == ')':
			l.close(RParen, LParen)
		case c == ']':
			l.close(RBracket, LBracket)
		case c == '}':
			l.close(RBrace, LBrace)
		case c == ',':
			l.emit(Comma, l.pos, l.pos+1, ",")
			l.pos++
		case c == ';':
			l.emit(Semicolon, l.pos, l.pos+1, ";")
			l.pos++
		default:
			l.lexOperator()
		}
	}
}

func (l *lexer) enclosing() Kind {
	if len(l.stack) == 0 {
		return Illegal
	}
	return l.tokens[l.stack[len(l.stack)-1]].Kind
}

func (l *lexer) emit(kind Kind, start, end int, text string) {
	l.tokens = append(l.tokens, Token{
		Kind:      kind,
		Text:      text,
		Start:     start,
		End:       end,
		Enclosing: l.enclosing(),
		Match:     -1,
	})
}

func (l *lexer) open(kind Kind) {
	l.emit(kind, l.pos, l.pos+1, l.src[l.pos:l.pos+1])
	l.stack = append(l.stack, len(l.tokens)-1)
	l.pos++
}

func (l *lexer) close(kind, opener Kind) {
	// Pop back to the nearest matching opener; anything skipped stays
	// unmatched.
	for n := len(l.stack) - 1; n >= 0; n-- {
		if l.tokens[l.stack[n]].Kind != opener {
			continue
		}
		openIdx := l.stack[n]
		l.stack = l.stack[:n]
		l.emit(kind, l.pos, l.pos+1, l.src[l.pos:l.pos+1])
		closeIdx := len(l.tokens) - 1
		l.tokens[openIdx].Match = closeIdx
		l.tokens[closeIdx].Match = openIdx
		l.pos++
		return
	}
	l.emit(kind, l.pos, l.pos+1, l.src[l.pos:l.pos+1])
	l.pos++
}

func (l *lexer) lexString(quote byte) {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\\' {
			l.pos += 2
			continue
		}
		l.pos++
		if c == quote {
			break
		}
	}
	if l.pos > len(l.src) {
		l.pos = len(l.src)
	}
	l.emit(String, start, l.pos, l.src[start:l.pos])
}

// rawStringAhead reports whether r"(...)" style syntax starts at pos.
func (l *lexer) rawStringAhead() bool {
	i := l.pos + 1
	if i >= len(l.src) || (l.src[i] != '"' && l.src[i] != '\'') {
		return false
	}
	i++
	for i < len(l.src) && l.src[i] == '-' {
		i++
	}
	return i < len(l.src) && strings.IndexByte("([{", l.src[i]) >= 0
}

func (l *lexer) lexRawString() {
	start := l.pos
	i := l.pos + 1
	quote := l.src[i]
	i++
	dashes := 0
	for l.src[i] == '-' {
		dashes++
		i++
	}
	var closer byte
	switch l.src[i] {
	case '(':
		closer = ')'
	case '[':
		closer = ']'
	default:
		closer = '}'
	}
	terminator := string(closer) + strings.Repeat("-", dashes) + string(quote)
	i++
	if idx := strings.Index(l.src[i:], terminator); idx >= 0 {
		l.pos = i + idx + len(terminator)
	} else {
		l.pos = len(l.src)
	}
	l.emit(String, start, l.pos, l.src[start:l.pos])
}

func (l *lexer) lexBacktick() {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) && l.src[l.pos] != '`' {
		if l.src[l.pos] == '\\' {
			l.pos++
		}
		l.pos++
	}
	if l.pos >= len(l.src) {
		l.pos = len(l.src)
		l.emit(Ident, start, l.pos, l.src[start+1:])
		return
	}
	l.pos++
	l.emit(Ident, start, l.pos, l.src[start+1:l.pos-1])
}

func (l *lexer) lexNumber() {
	start := l.pos
	if strings.HasPrefix(l.src[l.pos:], "0x") || strings.HasPrefix(l.src[l.pos:], "0X") {
		l.pos += 2
		for l.pos < len(l.src) && isHex(l.src[l.pos]) {
			l.pos++
		}
	} else {
		for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '.') {
			l.pos++
		}
		if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
			l.pos++
			if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
				l.pos++
			}
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		}
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'L' || l.src[l.pos] == 'i') {
		l.pos++
	}
	l.emit(Number, start, l.pos, l.src[start:l.pos])
}

func (l *lexer) lexIdent() {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c < utf8.RuneSelf {
			if !isLetter(c) && !isDigit(c) && c != '.' && c != '_' {
				break
			}
			l.pos++
			continue
		}
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.pos += size
	}
	if l.pos == start {
		// A non-letter multibyte rune.
		_, size := utf8.DecodeRuneInString(l.src[l.pos:])
		l.pos += size
		l.emit(Illegal, start, l.pos, l.src[start:l.pos])
		return
	}
	l.emit(Ident, start, l.pos, l.src[start:l.pos])
}

func (l *lexer) lexSpecial() {
	start := l.pos
	end := strings.IndexAny(l.src[l.pos+1:], "%\n")
	if end < 0 || l.src[l.pos+1+end] != '%' {
		l.pos++
		l.emit(Illegal, start, l.pos, "%")
		return
	}
	l.pos += end + 2
	l.emit(Special, start, l.pos, l.src[start:l.pos])
}

func (l *lexer) lexOperator() {
	for _, op := range operators {
		if strings.HasPrefix(l.src[l.pos:], op) {
			l.emit(Operator, l.pos, l.pos+len(op), op)
			l.pos += len(op)
			return
		}
	}
	start := l.pos
	l.pos++
	l.emit(Illegal, start, l.pos, l.src[start:l.pos])
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
