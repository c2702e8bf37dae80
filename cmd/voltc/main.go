// Command voltc compiles circuit DSL files into SPICE netlists.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"github.com/voltlang/voltc"
)

// Exit codes.
const (
	exitOK    = 0 // success
	exitError = 1 // user error or fatal lex/parse failure
	exitDiag  = 2 // semantic errors present
)

const usage = `voltc - circuit DSL to SPICE netlist compiler

Usage:
  voltc <command> [options] [arguments]

Commands:
  compile Compile a circuit file to a netlist
  check   Report diagnostics without emitting a netlist
  tokens  Dump the token stream (debug aid)
  version Show version

Common options:
  -o, --output FILE  Write netlist to FILE instead of stdout
  -v, --verbose      Enable debug logging
  -vv                Enable trace logging (implies -v)
  -h, --help         Show help

Examples:
  voltc compile amp.ckt
  voltc compile -o amp.cir amp.ckt
  voltc check amp.ckt
  voltc tokens amp.ckt
`

type cli struct {
	verbose  int
	output   string
	helpFlag bool
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	var c cli
	args := os.Args[1:]
	var cmdArgs []string
	var cmd string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			c.helpFlag = true
		case arg == "-v" || arg == "--verbose":
			if c.verbose < 1 {
				c.verbose = 1
			}
		case arg == "-vv":
			c.verbose = 2
		case arg == "-o" || arg == "--output":
			if i+1 < len(args) {
				i++
				c.output = args[i]
			}
		case strings.HasPrefix(arg, "--output="):
			c.output = arg[9:]
		case len(arg) > 0 && arg[0] == '-':
			cmdArgs = append(cmdArgs, arg)
		default:
			if cmd == "" {
				cmd = arg
			} else {
				cmdArgs = append(cmdArgs, arg)
			}
		}
	}

	if c.helpFlag && cmd == "" {
		_, _ = fmt.Fprint(os.Stdout, usage)
		return exitOK
	}
	if cmd == "" {
		_, _ = fmt.Fprint(os.Stderr, usage)
		return exitError
	}

	switch cmd {
	case "compile":
		return c.cmdCompile(cmdArgs, true)
	case "check":
		return c.cmdCompile(cmdArgs, false)
	case "tokens":
		return c.cmdTokens(cmdArgs)
	case "version":
		printVersion()
		return exitOK
	case "help":
		_, _ = fmt.Fprint(os.Stdout, usage)
		return exitOK
	default:
		_, _ = fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		_, _ = fmt.Fprint(os.Stderr, usage)
		return exitError
	}
}

func (c *cli) setupLogger() *slog.Logger {
	if c.verbose == 0 {
		return nil
	}
	level := slog.LevelDebug
	if c.verbose >= 2 {
		level = voltc.LevelTrace
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func printVersion() {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	fmt.Printf("voltc %s\n", version)
}

func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
