//go:build yara

package main

import (
	"fmt"
	"os"

	"github.com/yarahq/yarp/cmd/internal"
)

func compareLibyara(rulesFile string, yarpNames map[string]bool) int {
	libRules, err := internal.LibyaraRules(rulesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error compiling rules with libyara: %v\n", err)
		return 1
	}

	libNames := make(map[string]bool)
	for _, r := range libRules.GetRules() {
		libNames[r.Identifier()] = true
	}
	fmt.Printf("libyara: %d rules\n", len(libNames))

	var mismatch bool
	for name := range yarpNames {
		if !libNames[name] {
			fmt.Printf("  only in yarp: %s\n", name)
			mismatch = true
		}
	}
	for name := range libNames {
		if !yarpNames[name] {
			fmt.Printf("  only in libyara: %s\n", name)
			mismatch = true
		}
	}

	if mismatch {
		return 1
	}
	fmt.Println("rule sets agree")
	return 0
}
