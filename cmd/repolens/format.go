package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"repolens/internal/config"
)

// OutputFormat selects how command results are printed
type OutputFormat string

const (
	// JSONOutput prints indented JSON
	JSONOutput OutputFormat = "json"
	// HumanOutput prints a compact human rendering
	HumanOutput OutputFormat = "human"
)

func newContext() context.Context {
	return context.Background()
}

func fetchTimeout(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Fetch.TimeoutMs) * time.Millisecond
}

func secondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// printJSON writes v as indented JSON to stdout, exiting on marshal failure
func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", msg, err)
	os.Exit(1)
}
