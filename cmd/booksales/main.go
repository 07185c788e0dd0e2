// Command booksales loads the bookstore fixture and lists a publisher's sales.
package main

import (
	"os"

	"github.com/leapstack-labs/booksales/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
