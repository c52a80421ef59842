package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var relevantCmd = &cobra.Command{
	Use:   "relevant <query>",
	Short: "Find the files most relevant to a freeform query",
	Long: `Ask the analysis provider which files in the project best match a
freeform question and highlight them. Results are cached per project.

Examples:
  repolens relevant "where is authentication handled"
  repolens relevant "http routing" --provider=local`,
	Args: cobra.ExactArgs(1),
	Run:  runRelevant,
}

func init() {
	rootCmd.AddCommand(relevantCmd)
}

func runRelevant(cmd *cobra.Command, args []string) {
	eng := mustGetEngine()
	defer eng.close()

	paths, err := eng.explorer.FindRelevant(newContext(), args[0])
	if err != nil {
		fatal("finding relevant files", err)
	}

	if OutputFormat(formatFlag) == HumanOutput {
		for _, p := range paths {
			fmt.Println(p)
		}
		return
	}
	printJSON(paths)
}
