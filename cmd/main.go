package main

import (
	"os"

	"github.com/soundprediction/relato/cmd/relato"
)

func main() {
	if err := relato.Execute(); err != nil {
		os.Exit(1)
	}
}
