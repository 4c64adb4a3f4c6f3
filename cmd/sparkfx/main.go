package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lixenwraith/sparkfx/cli"
	"github.com/lixenwraith/sparkfx/core"
)

func main() {
	// Terminal restore runs before the crash report so the trace stays readable
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if err := cli.Execute(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "sparkfx:", err)
		os.Exit(1)
	}
}
