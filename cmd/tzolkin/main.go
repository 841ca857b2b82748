// Command tzolkin runs the calculation engine from the command line and
// prints results as JSON.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
