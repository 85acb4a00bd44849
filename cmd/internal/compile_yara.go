//go:build yara

package internal

import (
	"os"

	yara "github.com/hillu/go-yara/v4"
)

// LibyaraRules compiles a rule file with libyara via go-yara, as the
// reference implementation to compare against.
func LibyaraRules(path string) (*yara.Rules, error) {
	compiler, err := yara.NewCompiler()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := compiler.AddFile(f, ""); err != nil {
		return nil, err
	}

	return compiler.GetRules()
}
