package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/ewu-ics-cal/ewucal/internal/cli"
)

func main() {
	if _, err := maxprocs.Set(); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting GOMAXPROCS: %v\n", err)
	}

	cli.Execute()
}
