package main

import (
	"os"

	"github.com/abhisek/calcitb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
