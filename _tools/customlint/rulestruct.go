// Package customlint holds project-specific analyzers loaded by
// golangci-lint as a module plugin.
package customlint

import (
	"go/ast"
	"strings"

	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

func init() {
	register.Plugin("rulestruct", New)
}

// ruleStructAnalyzer reports rule types that carry fields. Rule values are
// registered once and shared by every lint worker, so per-rule options
// belong in the rule's config type, resolved per lint call.
var ruleStructAnalyzer = &analysis.Analyzer{
	Name:     "rulestruct",
	Doc:      "check that lint rule types are empty structs",
	Run:      runRuleStruct,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

func runRuleStruct(pass *analysis.Pass) (any, error) {
	insp, ok := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, nil
	}
	insp.Preorder([]ast.Node{(*ast.TypeSpec)(nil)}, func(n ast.Node) {
		spec, ok := n.(*ast.TypeSpec)
		if !ok || !strings.HasSuffix(spec.Name.Name, "Rule") {
			return
		}
		st, ok := spec.Type.(*ast.StructType)
		if !ok || st.Fields == nil || len(st.Fields.List) == 0 {
			return
		}
		pass.Reportf(spec.Pos(), "rule type %s has fields; rules are shared across workers, move options to a config type", spec.Name.Name)
	})
	return nil, nil
}

type plugin struct{}

// New builds the plugin; it takes no settings.
func New(any) (register.LinterPlugin, error) {
	return &plugin{}, nil
}

func (*plugin) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	return []*analysis.Analyzer{ruleStructAnalyzer}, nil
}

func (*plugin) GetLoadMode() string {
	return register.LoadModeSyntax
}
