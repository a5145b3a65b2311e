// Package main provides the asksql command.
package main

import (
	"os"

	"github.com/leapstack-labs/asksql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
