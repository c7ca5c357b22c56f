package main

import (
	"os"

	"github.com/amrgaberm/codesense/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
