package main

import (
	"github.com/spf13/cobra"
)

var expandCmd = &cobra.Command{
	Use:   "expand <directory>",
	Short: "Expand one directory and print its children",
	Long: `Materialize the children of a directory node. Expanding an already
expanded directory returns the existing children unchanged; files and unknown
paths are rejected.

Examples:
  repolens expand src
  repolens expand src/server --format=human`,
	Args: cobra.ExactArgs(1),
	Run:  runExpand,
}

func init() {
	rootCmd.AddCommand(expandCmd)
}

func runExpand(cmd *cobra.Command, args []string) {
	eng := mustGetEngine()
	defer eng.close()

	children, err := eng.explorer.Expand(args[0])
	if err != nil {
		fatal("expanding "+args[0], err)
	}

	if OutputFormat(formatFlag) == HumanOutput {
		printTreeHuman(children, 0)
		return
	}
	printJSON(children)
}
