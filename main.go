package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/yarahq/yarp/parser"
)

func main() {
	raw := flag.Bool("raw", false, "include raw section text on each rule")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: yarp [-raw] <yara-file>\n")
		os.Exit(1)
	}
	filename := flag.Arg(0)

	p := parser.New()
	p.StoreRawSections = *raw

	ruleSet, err := p.ParseFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing %s: %v\n", filename, err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(ruleSet.Rules, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error encoding rules: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
