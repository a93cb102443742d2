// Pbcut cuts its inputs into records bounded by an arbitrary delimiter and
// writes them back out with the delimiter rewritten, one record per line by
// default. With no file arguments it filters stdin to stdout; with files,
// each input is cut concurrently into <file><suffix>.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "pbcut: %s\n", err)
		os.Exit(1)
	}
}
