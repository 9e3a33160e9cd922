package main

import (
	"fmt"
	"os"

	"github.com/dgallion1/doctoc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "doctoc:", err)
		os.Exit(1)
	}
}
