package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var pathCmd = &cobra.Command{
	Use:   "path <source-id> <target-id>",
	Short: "Find the shortest flow path between two nodes",
	Long: `Find the hop-minimal connection between two nodes over the semantic
edges, traversing them undirected. Node ids are file paths or symbol ids of
the form path#name. Edges come from the auto-restored session; run
"repolens analyze --save" first.

A missing connection exits with status 2 so scripts can tell "disconnected"
apart from errors.

Examples:
  repolens path src/a.ts src/b.ts
  repolens path 'src/a.ts#main' 'src/db.ts#query'`,
	Args: cobra.ExactArgs(2),
	Run:  runPath,
}

func init() {
	rootCmd.AddCommand(pathCmd)
}

func runPath(cmd *cobra.Command, args []string) {
	eng := mustGetEngine()
	defer eng.close()

	path, err := eng.explorer.Query(args[0], args[1])
	if err != nil {
		fatal("querying path", err)
	}
	if path == nil {
		fmt.Fprintf(os.Stderr, "no path between %s and %s\n", args[0], args[1])
		os.Exit(2)
	}

	if OutputFormat(formatFlag) == HumanOutput {
		fmt.Println(strings.Join(path.NodeIDs, " -> "))
		return
	}
	printJSON(path)
}
