package rules

type AnyIsNARule struct{}

type BrowserConfig struct {
	Calls []string
}

type BrowserRule struct{}

type CachingRule struct { // want `rule type CachingRule has fields`
	seen map[string]bool
}

type CountingRule struct { // want `rule type CountingRule has fields`
	n int
}

type Rule interface {
	Check() []string
}

type ruleHelper struct {
	name string
}

var _ = ruleHelper{}
var _ = CachingRule{seen: nil}
var _ = CountingRule{n: 0}
