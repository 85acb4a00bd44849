// rulecheck validates a rule file with the yarp parser. When built with the
// yara tag it also cross-checks the result against libyara: everything yarp
// accepts should compile there too, and both should see the same rules.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/yarahq/yarp/cmd/internal"
)

func main() {
	var rulesFile string
	flag.StringVar(&rulesFile, "rules", "", "path to YARA rules file")
	flag.Parse()

	if rulesFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: rulecheck -rules <rules.yar>\n")
		os.Exit(1)
	}

	ruleSet, err := internal.ParseRules(rulesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing rules: %v\n", err)
		os.Exit(1)
	}

	names := make(map[string]bool)
	for _, r := range ruleSet.Rules {
		names[r.Name] = true
	}
	fmt.Printf("yarp: %d rules\n", len(names))

	os.Exit(compareLibyara(rulesFile, names))
}
