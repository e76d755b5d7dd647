// Package main is the entry point for the finddups CLI.
package main

import (
	"os"
	"time"

	"github.com/leeovery/finddups/internal/cli"
)

func main() {
	app := &cli.App{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Dir:    ".",
		Getenv: os.Getenv,
		Now:    time.Now,
	}

	// Resolve working directory
	if wd, err := os.Getwd(); err == nil {
		app.Dir = wd
	}

	os.Exit(app.Run(os.Args))
}
