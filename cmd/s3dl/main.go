package main

import (
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess        = 0
	ExitPartialFailure = 1
	ExitInvalidArgs    = 2
	ExitManifestError  = 3
	ExitOutPathError   = 4
	ExitStorageError   = 5
	ExitCheckFailed    = 6
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "download":
		return runDownload(cmdArgs)
	case "check":
		return runCheck(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: s3dl <command> [options]

Commands:
  download  Download every key in a manifest from object storage to local files
  check     Verify every key in a manifest exists in the bucket

Run 's3dl <command> -h' for command-specific help.`)
}
