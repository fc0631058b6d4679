package main

import (
	"os"

	"github.com/ariel-frischer/changelog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
