package main

import (
	"os"

	"github.com/kagai-portal/hanamachi/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
