package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"repolens/internal/graph"
)

var treeExpand []string

var treeCmd = &cobra.Command{
	Use:     "load",
	Aliases: []string{"tree"},
	Short:   "Load the project and print the exploration tree",
	Long: `Load the project, restoring a matching saved session if one exists, and
print the current exploration tree. Directories named with --expand are
expanded first.

Examples:
  repolens load
  repolens load --expand src --expand src/server
  repolens load --github octocat/hello-world@main`,
	Args: cobra.NoArgs,
	Run:  runTree,
}

func init() {
	treeCmd.Flags().StringArrayVar(&treeExpand, "expand", nil, "Directory to expand before printing (repeatable)")
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) {
	eng := mustGetEngine()
	defer eng.close()

	for _, dir := range treeExpand {
		if _, err := eng.explorer.Expand(dir); err != nil {
			fatal("expanding "+dir, err)
		}
	}

	roots := eng.explorer.Tree()
	if OutputFormat(formatFlag) == HumanOutput {
		printTreeHuman(roots, 0)
		return
	}
	printJSON(roots)
}

func printTreeHuman(nodes []*graph.TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		switch n.Kind {
		case graph.DirectoryNode:
			fmt.Printf("%s%s/ (%d)\n", indent, n.Name, n.DescendantCount)
		default:
			if len(n.SymbolTree) > 0 {
				fmt.Printf("%s%s [%d symbols]\n", indent, n.Name, len(n.SymbolTree))
			} else {
				fmt.Printf("%s%s\n", indent, n.Name)
			}
		}
		printTreeHuman(n.Children, depth+1)
	}
}
