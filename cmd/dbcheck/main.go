// dbcheck parses YARA rule sources stored in a MySQL table and reports the
// ones the parser rejects, so broken signatures are caught before they are
// shipped to scanners.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"

	"github.com/yarahq/yarp/parser"
)

func main() {
	var dsn, query string
	flag.StringVar(&dsn, "dsn", "root:root@tcp(127.0.0.1:3306)/signatures", "MySQL DSN")
	flag.StringVar(&query, "query", "SELECT name, source FROM rules", "query yielding name and rule source columns")
	flag.Parse()

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to MySQL: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	rows, err := db.Query(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying database: %v\n", err)
		os.Exit(1)
	}
	defer rows.Close()

	p := parser.New()

	var total, broken, ruleCount int
	for rows.Next() {
		var name, source string
		if err := rows.Scan(&name, &source); err != nil {
			continue
		}
		total++

		ruleSet, err := p.Parse(source)
		if err != nil {
			broken++
			fmt.Printf("%s: %v\n", name, err)
			continue
		}
		ruleCount += len(ruleSet.Rules)
	}
	if err := rows.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading rows: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%d sources checked, %d rules parsed, %d broken\n", total, ruleCount, broken)
	if broken > 0 {
		os.Exit(1)
	}
}
