package rlang

// Kind classifies a token.
type Kind int

const (
	Illegal Kind = iota
	Ident
	Number
	String
	Operator
	// Special is a user-defined infix operator such as %in% or %>%.
	Special
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Comma
	Semicolon
)

var kindNames = [...]string{
	Illegal:   "Illegal",
	Ident:     "Ident",
	Number:    "Number",
	String:    "String",
	Operator:  "Operator",
	Special:   "Special",
	LParen:    "(",
	RParen:    ")",
	LBracket:  "[",
	RBracket:  "]",
	LBrace:    "{",
	RBrace:    "}",
	Comma:     ",",
	Semicolon: ";",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Token is a lexed R token. Start and End are byte offsets into the source,
// End exclusive.
type Token struct {
	Kind Kind
	// Text is the token text. For backtick-quoted names the backticks are
	// stripped, so `browser` and browser compare equal.
	Text  string
	Start int
	End   int

	// Enclosing is the kind of the innermost open bracket around the token
	// (LParen, LBracket or LBrace), or Illegal at top level.
	Enclosing Kind

	// Match is the index of the partner bracket for bracket tokens, -1 when
	// unbalanced or not a bracket.
	Match int
}

// IsOpen reports whether the token opens a bracket pair.
func (t Token) IsOpen() bool {
	return t.Kind == LParen || t.Kind == LBracket || t.Kind == LBrace
}

// IsClose reports whether the token closes a bracket pair.
func (t Token) IsClose() bool {
	return t.Kind == RParen || t.Kind == RBracket || t.Kind == RBrace
}

// Is reports whether the token has the given kind and text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}
