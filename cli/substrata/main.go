// Package main is the CLI command itself.
package main

import (
	"log"
	"os"

	"github.com/JerryBerry12/substrata/cli"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
