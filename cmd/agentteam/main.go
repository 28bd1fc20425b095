// Package main provides the agentteam command-line interface.
// It runs a fixed team of language-model actors against a project directory.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
