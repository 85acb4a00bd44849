package internal

import (
	"github.com/yarahq/yarp/ast"
	"github.com/yarahq/yarp/parser"
)

// ParseRules loads a rule file with the yarp parser.
func ParseRules(path string) (*ast.RuleSet, error) {
	p := parser.New()
	return p.ParseFile(path)
}
