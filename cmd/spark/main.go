package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/hpungsan/spark/internal/app"
	"github.com/hpungsan/spark/internal/config"
	"github.com/hpungsan/spark/internal/logging"
	"github.com/hpungsan/spark/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"create": true, "fetch": true, "update": true, "list": true,
	"reevaluate": true, "emotion": true, "clear": true, "demo": true,
	"status": true, "history": true, "export": true, "import": true,
	"web": true, "help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode(args []string) bool {
	if len(args) < 2 {
		return false
	}
	return cliCommands[args[1]] || isHelpOrVersion(args)
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion(args []string) bool {
	if len(args) < 2 {
		return false
	}
	switch args[1] {
	case "--help", "-h", "--version", "-v", "help":
		return true
	}
	return false
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func printBanner() {
	fmt.Println(`
   ___ _ __   __ _ _ __| | __
  / __| '_ \ / _' | '__| |/ /
  \__ \ |_) | (_| | |  |   <
  |___/ .__/ \__,_|_|  |_|\_\
      |_|

  Journal entries that unlock with place, weather, mood and time

  Usage: spark <command> [options]
         spark --help

  MCP server mode requires piped input.`)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Help and version need no state.
	if isHelpOrVersion(os.Args) {
		if err := newCLIApp(nil).Run(os.Args); err != nil {
			fatalf("%v", err)
		}
		return
	}

	if len(os.Args) >= 2 && !isCLIMode(os.Args) && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'spark --help' for usage.\n")
		os.Exit(1)
	}

	// .env is optional.
	_ = godotenv.Load()

	baseDir, err := config.BaseDir(os.LookupEnv)
	if err != nil {
		fatalf("could not determine base directory: %v", err)
	}

	cfg, err := config.Load(baseDir)
	if err != nil {
		fatalf("failed to load config: %v", err)
	}
	cfg = config.ApplyEnv(cfg, os.LookupEnv)

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fatalf("%v", err)
	}

	a, err := app.Open(baseDir, cfg, log)
	if err != nil {
		fatalf("%v", err)
	}
	defer a.Close()

	if isCLIMode(os.Args) {
		if err := newCLIApp(a).Run(os.Args); err != nil {
			a.Close()
			fatalf("%v", err)
		}
		return
	}

	if err := mcp.Run(a, Version); err != nil {
		a.Close()
		fatalf("%v", err)
	}
}
