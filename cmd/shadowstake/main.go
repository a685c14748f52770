package main

import (
	"os"

	"shadowstake/cmd/cli"
)

func main() {
	if err := cli.Root().Execute(); err != nil {
		os.Exit(1)
	}
}
