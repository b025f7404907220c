package main

import (
	"os"

	"github.com/yx-aesthete/sejm-info/cmd/sejmstats/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
