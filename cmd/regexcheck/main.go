// regexcheck audits the regex string definitions of a rule file: each
// pattern is compiled under RE2 and patterns RE2 rejects are reported, since
// they would need a fallback engine at scan time.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/wasilibs/go-re2/experimental"

	"github.com/yarahq/yarp/ast"
	"github.com/yarahq/yarp/parser"
)

func main() {
	var rulesFile string
	flag.StringVar(&rulesFile, "rules", "", "path to YARA rules file")
	flag.Parse()

	if rulesFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: regexcheck -rules <rules.yar>\n")
		os.Exit(1)
	}

	p := parser.New()
	ruleSet, err := p.ParseFile(rulesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing rules: %v\n", err)
		os.Exit(1)
	}

	var checked, failed int
	for _, rule := range ruleSet.Rules {
		for _, s := range rule.Strings {
			if s.Type != ast.TypeRegex {
				continue
			}
			checked++
			if _, err := experimental.CompileLatin1(re2Pattern(s.Value)); err != nil {
				failed++
				fmt.Printf("%s %s: %v\n", rule.Name, s.Name, err)
			}
		}
	}

	fmt.Printf("%d regex strings checked, %d rejected by RE2\n", checked, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// re2Pattern turns a parsed /pattern/flags value into something RE2 will
// compile: the delimiters and trailing flags are stripped, and {,N}
// quantifiers become {0,N} since RE2 reads {,N} as literal text.
func re2Pattern(value string) string {
	value = strings.TrimPrefix(value, "/")
	if idx := strings.LastIndex(value, "/"); idx >= 0 {
		value = value[:idx]
	}

	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		switch {
		case value[i] == '\\' && i+1 < len(value):
			b.WriteByte(value[i])
			b.WriteByte(value[i+1])
			i++
		case value[i] == '{' && i+1 < len(value) && value[i+1] == ',':
			b.WriteString("{0")
		default:
			b.WriteByte(value[i])
		}
	}
	return b.String()
}
