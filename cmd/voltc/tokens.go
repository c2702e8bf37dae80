package main

import (
	"fmt"
	"os"

	"github.com/voltlang/voltc"
)

func (c *cli) cmdTokens(args []string) int {
	if len(args) != 1 {
		printError("expected exactly one input file")
		return exitError
	}
	file := args[0]

	source, err := os.ReadFile(file)
	if err != nil {
		printError("cannot read %s: %v", file, err)
		return exitError
	}

	opts := []voltc.Option{voltc.WithFilename(file)}
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, voltc.WithLogger(logger))
	}
	tokens, err := voltc.Tokens(source, opts...)
	if err != nil {
		printError("%v", err)
		return exitError
	}
	for _, tok := range tokens {
		fmt.Printf("%d:%d\t%s\t%q\n", tok.Line, tok.Column, tok.Kind, tok.Text)
	}
	return exitOK
}
