package main

import (
	"os"

	reveriecmder "github.com/reveriegames/reverie/cmd/reverie"
)

func main() {
	cmd := reveriecmder.NewReverieCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
