package main

import (
	"fmt"
	"os"

	"github.com/utkarsh5026/mapretry/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
