package main

import (
	"os"

	"github.com/Harshodai/askmukthiguru/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
