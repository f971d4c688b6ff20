package main

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/histkeeper/internal/client/cli"
)

func main() {
	if err := cli.New().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
