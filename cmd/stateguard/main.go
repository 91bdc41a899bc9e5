// Package main implements the stateguard CLI tool.
//
// The stateguard tool statically verifies the locking discipline around
// guarded runtime state. A host embedding a shared, non-reentrant runtime
// object must bracket every public entry point with acquire/release; the
// tool parses the host's Go sources and reports entry points that break
// the bracket:
//
//	stateguard check ./internal/interp
//	stateguard check -v main.go runtime/
//
// The analysis is syntactic (go/ast) and understands the host's go.mod
// (including replace directives) when deciding which imports denote the
// guard runtime.
//
// This is the CLI entry point; the analysis lives in the bracket package.
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "check":
		checkCommand(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("stateguard version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`stateguard - locking-discipline checker for guarded runtime state

USAGE:
    stateguard <command> [arguments]

COMMANDS:
    check [-v] <files/dirs>   Verify acquire/release bracketing
    version                   Print tool version
    help                      Show this help

EXAMPLES:
    stateguard check ./internal/interp
    stateguard check -v main.go

The check command exits non-zero when findings are reported.
`)
}
