// Package main implements the entry point for the Taskly API server, which
// serves per-user task lists behind JWT authentication.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
