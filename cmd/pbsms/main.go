package main

import (
	"os"

	"pbsms/cmd/pbsms/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
