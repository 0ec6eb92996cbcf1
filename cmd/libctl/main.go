// Command libctl runs library maintenance tasks against the database.
//
//	libctl fines recalc
//	libctl admin create --username alice
//	libctl books import --file books.csv
//	libctl books import --openlibrary-subject fantasy --limit 50
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(openPostgres).Execute(); err != nil {
		os.Exit(1)
	}
}
