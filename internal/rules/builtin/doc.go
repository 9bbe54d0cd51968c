// Package builtin implements flir's built-in R rules. Every rule works on
// the token stream from internal/rlang and registers itself with the
// default registry from init.
package builtin

import "github.com/flir-lint/flir/internal/rules"

func init() {
	rules.Register(NewAnyIsNARule())
	rules.Register(NewAnyDuplicatedRule())
	rules.Register(NewEqualsNARule())
	rules.Register(NewTrueFalseSymbolRule())
	rules.Register(NewClassEqualsRule())
	rules.Register(NewBrowserRule())
}
