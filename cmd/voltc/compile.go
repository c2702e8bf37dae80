package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/voltlang/voltc"
	"github.com/voltlang/voltc/internal/config"
)

// cmdCompile handles both `compile` and `check`; check just skips netlist
// emission.
func (c *cli) cmdCompile(args []string, emit bool) int {
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

	cfg, cfgPath, err := config.FindAndLoad(filepath.Dir(file))
	if err != nil {
		printError("cannot load config: %v", err)
		return exitError
	}
	logger := c.setupLogger()
	if logger != nil && cfgPath != "" {
		logger.Debug("loaded config", "path", cfgPath)
	}

	opts := []voltc.Option{voltc.WithFilename(file)}
	if logger != nil {
		opts = append(opts, voltc.WithLogger(logger))
	}
	if cfg.Limits.MaxDepth > 0 {
		opts = append(opts, voltc.WithMaxDepth(cfg.Limits.MaxDepth))
	}

	result, err := voltc.Compile(source, opts...)
	if err != nil {
		printError("%v", err)
		return exitError
	}

	for _, d := range result.Warnings {
		fmt.Fprintln(os.Stderr, d)
	}
	for _, d := range result.Errors {
		fmt.Fprintln(os.Stderr, d)
	}
	if !result.Ok() {
		return exitDiag
	}
	if !emit {
		return exitOK
	}

	out := os.Stdout
	target := c.output
	if target == "" {
		target = cfg.Output.Path
	}
	if target != "" {
		f, err := os.Create(target)
		if err != nil {
			printError("cannot create %s: %v", target, err)
			return exitError
		}
		defer f.Close()
		out = f
	}
	for _, line := range result.Netlist {
		fmt.Fprintln(out, line)
	}
	return exitOK
}
